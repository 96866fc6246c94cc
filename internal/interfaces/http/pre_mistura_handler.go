package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/nutricao"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// PreMisturaHandler trata as pré-misturas (protegido).
type PreMisturaHandler struct {
	uc  *nutricao.PreMisturaUseCase
	log *logger.Logger
}

func NewPreMisturaHandler(uc *nutricao.PreMisturaUseCase, log *logger.Logger) *PreMisturaHandler {
	return &PreMisturaHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar pré-misturas
// @Tags         pre-misturas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PreMisturaResponse
// @Router       /api/pre-misturas [get]
func (h *PreMisturaHandler) List(c *fiber.Ctx) error {
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
// @Summary      Obter pré-mistura
// @Tags         pre-misturas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da pré-mistura"
// @Success      200  {object}  dto.PreMisturaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pre-misturas/{id} [get]
func (h *PreMisturaHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Criar pré-mistura (2 a 4 insumos)
// @Tags         pre-misturas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreMisturaRequest  true  "Pré-mistura"
// @Success      201   {object}  dto.PreMisturaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pre-misturas [post]
func (h *PreMisturaHandler) Create(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.PreMisturaRequest
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
// @Summary      Substituir pré-mistura
// @Tags         pre-misturas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da pré-mistura"
// @Param        body  body  dto.PreMisturaRequest  true  "Pré-mistura"
// @Success      200   {object}  dto.PreMisturaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pre-misturas/{id} [put]
func (h *PreMisturaHandler) Update(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.PreMisturaRequest
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
// @Summary      Excluir pré-mistura fora de dietas
// @Tags         pre-misturas
// @Security     Bearer
// @Param        id   path  string  true  "ID da pré-mistura"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pre-misturas/{id} [delete]
func (h *PreMisturaHandler) Delete(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	if err := h.uc.Delete(c.UserContext(), t, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Pré-mistura excluída"})
}
