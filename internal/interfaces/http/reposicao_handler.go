package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// ReposicaoHandler expõe a lista de compras de insumos.
type ReposicaoHandler struct {
	uc  *estoque.ReposicaoUseCase
	log *logger.Logger
}

func NewReposicaoHandler(uc *estoque.ReposicaoUseCase, log *logger.Logger) *ReposicaoHandler {
	return &ReposicaoHandler{uc: uc, log: log}
}

// Sugerir godoc
// @Summary      Sugestão de compra de insumos
// @Description  Insumos ativos abaixo do mínimo ou sem saldo para os próximos dias de consumo (média das saídas dos últimos 30 dias).
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Dias de cobertura (padrão 15, máximo 180)"
// @Success      200  {array}   dto.SugestaoReposicaoDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/insumos/reposicao [get]
func (h *ReposicaoHandler) Sugerir(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	dias := c.QueryInt("dias", estoque.CoberturaPadraoDias)
	if dias < 1 {
		return badRequest(c, "dias deve ser um inteiro positivo")
	}
	out, err := h.uc.Gerar(c.UserContext(), t, dias)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
