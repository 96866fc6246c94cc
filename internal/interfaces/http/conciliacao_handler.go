package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// ConciliacaoHandler dispara a conciliação de saldos sob demanda (admin/gerente).
type ConciliacaoHandler struct {
	uc  *estoque.ConciliacaoUseCase
	log *logger.Logger
}

func NewConciliacaoHandler(uc *estoque.ConciliacaoUseCase, log *logger.Logger) *ConciliacaoHandler {
	return &ConciliacaoHandler{uc: uc, log: log}
}

// Conciliar godoc
// @Summary      Conciliar saldos materializados com o histórico do razão
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        corrigir  query  bool  false  "Regravar saldos divergentes"
// @Success      200  {object}  dto.ConciliacaoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/estoque/conciliar [post]
func (h *ConciliacaoHandler) Conciliar(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	out, err := h.uc.ExecutarTenant(c.UserContext(), t, c.QueryBool("corrigir", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
