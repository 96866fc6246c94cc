package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/producao"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// BatidaHandler trata as batidas de ração (protegido).
type BatidaHandler struct {
	uc  *producao.BatidaUseCase
	log *logger.Logger
}

// NewBatidaHandler constrói o handler.
func NewBatidaHandler(uc *producao.BatidaUseCase, log *logger.Logger) *BatidaHandler {
	return &BatidaHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar batidas
// @Tags         batidas
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PREPARANDO, CONCLUIDA ou CANCELADA"
// @Success      200  {array}   dto.BatidaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batidas [get]
func (h *BatidaHandler) List(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	out, err := h.uc.List(c.UserContext(), t, c.Query("status"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter batida com ingredientes e saídas lançadas
// @Tags         batidas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da batida"
// @Success      200  {object}  dto.BatidaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batidas/{id} [get]
func (h *BatidaHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Programar batida (nasce em PREPARANDO)
// @Tags         batidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatidaRequest  true  "dieta_id, quantidade e data_hora obrigatórios"
// @Success      201   {object}  dto.BatidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batidas [post]
func (h *BatidaHandler) Create(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.CreateBatidaRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	// obrigatórios são conferidos no caso de uso, com a mensagem única de campos faltantes
	out, err := h.uc.Create(c.UserContext(), t, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Alterar status da batida
// @Description  CONCLUIDA baixa o estoque de todos os ingredientes numa transação (tudo ou nada).
// @Description  CANCELADA não tem efeito no estoque. Estados finais não mudam mais.
// @Tags         batidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da batida"
// @Param        body  body  dto.UpdateBatidaRequest  true  "status"
// @Success      200   {object}  dto.UpdateBatidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batidas/{id} [put]
func (h *BatidaHandler) Update(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.UpdateBatidaRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	if err := validate.Struct(in); err != nil {
		return badRequest(c, validationMessage(err))
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), t, c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	msg := fmt.Sprintf("Batida %s cancelada", out.Codigo)
	if in.Status == entity.BatidaConcluida {
		msg = fmt.Sprintf("Batida %s concluída e estoque atualizado", out.Codigo)
	}
	return c.JSON(dto.UpdateBatidaResponse{Message: msg, Batida: out})
}

// Delete godoc
// @Summary      Excluir batida em PREPARANDO
// @Tags         batidas
// @Security     Bearer
// @Param        id   path  string  true  "ID da batida"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batidas/{id} [delete]
func (h *BatidaHandler) Delete(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	if err := h.uc.Delete(c.UserContext(), t, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Batida excluída"})
}

// Ficha godoc
// @Summary      Ficha de produção da batida (PDF)
// @Tags         batidas
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID da batida"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batidas/{id}/ficha [get]
func (h *BatidaHandler) Ficha(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	pdf, filename, err := h.uc.Ficha(c.UserContext(), t, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
