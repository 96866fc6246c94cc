package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// EstoqueHandler trata entradas e saídas manuais do razão de estoque (protegido).
type EstoqueHandler struct {
	uc  *estoque.LancamentoUseCase
	log *logger.Logger
}

// NewEstoqueHandler constrói o handler.
func NewEstoqueHandler(uc *estoque.LancamentoUseCase, log *logger.Logger) *EstoqueHandler {
	return &EstoqueHandler{uc: uc, log: log}
}

// ListEntradas godoc
// @Summary      Listar entradas de estoque
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        insumo_id  query  string  false  "Filtrar por insumo"
// @Param        de         query  string  false  "Data inicial (AAAA-MM-DD ou RFC3339)"
// @Param        ate        query  string  false  "Data final (AAAA-MM-DD ou RFC3339)"
// @Param        limit      query  int     false  "Limite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.EntradaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/entradas-estoque [get]
func (h *EstoqueHandler) ListEntradas(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	q, msg := lancamentosQuery(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	out, err := h.uc.ListEntradas(c.UserContext(), t, q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateEntrada godoc
// @Summary      Registrar entrada de estoque
// @Description  Quantidade e valor unitário na unidade informada; convertidos para kg pelo fator da unidade.
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntradaRequest  true  "Entrada"
// @Success      201   {object}  dto.EntradaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/entradas-estoque [post]
func (h *EstoqueHandler) CreateEntrada(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.CreateEntradaRequest
	if msg, ok := parseBody(c, &in); !ok {
		return badRequest(c, msg)
	}
	out, err := h.uc.RegistrarEntrada(c.UserContext(), t, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteEntrada godoc
// @Summary      Excluir entrada de estoque
// @Description  Recusada quando o saldo resultante do insumo ficaria negativo.
// @Tags         estoque
// @Security     Bearer
// @Param        id   path  string  true  "ID da entrada"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entradas-estoque/{id} [delete]
func (h *EstoqueHandler) DeleteEntrada(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	if err := h.uc.ExcluirEntrada(c.UserContext(), t, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Entrada excluída"})
}

// ListSaidas godoc
// @Summary      Listar saídas de estoque
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        insumo_id  query  string  false  "Filtrar por insumo"
// @Param        de         query  string  false  "Data inicial"
// @Param        ate        query  string  false  "Data final"
// @Param        limit      query  int     false  "Limite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.SaidaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/saidas-estoque [get]
func (h *EstoqueHandler) ListSaidas(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	q, msg := lancamentosQuery(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	out, err := h.uc.ListSaidas(c.UserContext(), t, q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateSaida godoc
// @Summary      Registrar saída manual (kg)
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaidaRequest  true  "Saída"
// @Success      201   {object}  dto.SaidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/saidas-estoque [post]
func (h *EstoqueHandler) CreateSaida(c *fiber.Ctx) error {
	t, ok := GetTenant(c)
	if !ok {
		return unauthorized(c, "Tenant ausente no token")
	}
	var in dto.CreateSaidaRequest
	if msg, ok := parseBody(c, &in); !ok {
		return badRequest(c, msg)
	}
	out, err := h.uc.RegistrarSaida(c.UserContext(), t, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func lancamentosQuery(c *fiber.Ctx) (dto.LancamentosQuery, string) {
	q := dto.LancamentosQuery{
		InsumoID: c.Query("insumo_id"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 100),
			Offset: c.QueryInt("offset", 0),
		},
	}
	var err error
	if q.De, err = parseDataQuery(c, "de", false); err != nil {
		return q, err.Error()
	}
	if q.Ate, err = parseDataQuery(c, "ate", true); err != nil {
		return q, err.Error()
	}
	if err := validate.Struct(q); err != nil {
		return q, validationMessage(err)
	}
	return q, ""
}
