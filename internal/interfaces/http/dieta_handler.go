package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/nutricao"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// DietaHandler trata as dietas (protegido).
type DietaHandler struct {
	uc  *nutricao.DietaUseCase
	log *logger.Logger
}

// NewDietaHandler constrói o handler.
func NewDietaHandler(uc *nutricao.DietaUseCase, log *logger.Logger) *DietaHandler {
	return &DietaHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar dietas
// @Tags         dietas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DietaResponse
// @Router       /api/dietas [get]
func (h *DietaHandler) List(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	out, err := h.uc.List(c.UserContext(), t)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter dieta com ingredientes
// @Tags         dietas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da dieta"
// @Success      200  {object}  dto.DietaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dietas/{id} [get]
func (h *DietaHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Criar dieta
// @Description  A soma de percentual_mistura deve ser 100 (tolerância 0,01).
// @Tags         dietas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DietaRequest  true  "Dieta"
// @Success      201   {object}  dto.DietaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dietas [post]
func (h *DietaHandler) Create(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.DietaRequest
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
// @Summary      Substituir dieta
// @Description  Substitui todas as linhas de ingredientes.
// @Tags         dietas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da dieta"
// @Param        body  body  dto.DietaRequest  true  "Dieta"
// @Success      200   {object}  dto.DietaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/dietas/{id} [put]
func (h *DietaHandler) Update(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.DietaRequest
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
// @Summary      Excluir dieta sem batidas
// @Tags         dietas
// @Security     Bearer
// @Param        id   path  string  true  "ID da dieta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dietas/{id} [delete]
func (h *DietaHandler) Delete(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	if err := h.uc.Delete(c.UserContext(), t, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Dieta excluída"})
}
