package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/usecase"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InsumoHandler trata as requisições de insumos (protegido).
type InsumoHandler struct {
	uc  *usecase.InsumoUseCase
	log *logger.Logger
}

// NewInsumoHandler constrói o handler.
func NewInsumoHandler(uc *usecase.InsumoUseCase, log *logger.Logger) *InsumoHandler {
	return &InsumoHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar insumos com saldo, custo médio e status
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Param        ativos  query  bool  false  "Somente ativos"
// @Success      200  {array}   dto.InsumoResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/insumos [get]
func (h *InsumoHandler) List(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	out, err := h.uc.List(c.UserContext(), t, c.QueryBool("ativos", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter insumo por ID
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do insumo"
// @Success      200  {object}  dto.InsumoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [get]
func (h *InsumoHandler) GetByID(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	out, err := h.uc.GetByID(c.UserContext(), t, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Criar insumo
// @Tags         insumos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInsumoRequest  true  "Dados do insumo"
// @Success      201   {object}  dto.InsumoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/insumos [post]
func (h *InsumoHandler) Create(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.CreateInsumoRequest
	if msg, ok := parseBody(c, &in); !ok {
		return badRequest(c, msg)
	}
	out, err := h.uc.Create(c.UserContext(), t, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Atualizar insumo
// @Tags         insumos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do insumo"
// @Param        body  body  dto.UpdateInsumoRequest  true  "Campos a alterar"
// @Success      200   {object}  dto.InsumoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [put]
func (h *InsumoHandler) Update(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.UpdateInsumoRequest
	if msg, ok := parseBody(c, &in); !ok {
		return badRequest(c, msg)
	}
	out, err := h.uc.Update(c.UserContext(), t, c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Excluir insumo (só sem lançamentos e fora de composições)
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do insumo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [delete]
func (h *InsumoHandler) Delete(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	if err := h.uc.Delete(c.UserContext(), t, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Insumo excluído"})
}

// Exportar godoc
// @Summary      Planilha de posição de estoque
// @Tags         insumos
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/insumos/exportar [get]
func (h *InsumoHandler) Exportar(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	out, err := h.uc.Exportar(c.UserContext(), t)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="posicao-estoque.xlsx"`)
	return c.Send(out)
}
