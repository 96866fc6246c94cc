package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/usecase"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// UnidadeMedidaHandler trata as unidades de medida (protegido).
type UnidadeMedidaHandler struct {
	uc  *usecase.UnidadeMedidaUseCase
	log *logger.Logger
}

func NewUnidadeMedidaHandler(uc *usecase.UnidadeMedidaUseCase, log *logger.Logger) *UnidadeMedidaHandler {
	return &UnidadeMedidaHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar unidades de medida
// @Tags         unidades-medida
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnidadeMedidaResponse
// @Router       /api/unidades-medida [get]
func (h *UnidadeMedidaHandler) List(c *fiber.Ctx) error {
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

// Create godoc
// @Summary      Criar unidade de medida
// @Tags         unidades-medida
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnidadeMedidaRequest  true  "nome, sigla, fator_conversao (kg)"
// @Success      201   {object}  dto.UnidadeMedidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/unidades-medida [post]
func (h *UnidadeMedidaHandler) Create(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.CreateUnidadeMedidaRequest
	if msg, ok := parseBody(c, &in); !ok {
		return badRequest(c, msg)
	}
	out, err := h.uc.Create(c.UserContext(), t, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Excluir unidade de medida sem uso
// @Tags         unidades-medida
// @Security     Bearer
// @Param        id   path  string  true  "ID da unidade"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/unidades-medida/{id} [delete]
func (h *UnidadeMedidaHandler) Delete(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	if err := h.uc.Delete(c.UserContext(), t, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Unidade de medida excluída"})
}
