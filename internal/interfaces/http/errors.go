package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

const msgErroInterno = "Erro interno do servidor"

// respondError traduz erros de domínio para status HTTP com corpo {"error": "..."}.
// Erros não mapeados viram 500 com mensagem genérica; o detalhe vai só para o log.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, msg := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", GetUserID(c)).
			Msg("erro inesperado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

func statusFor(err error) (int, string) {
	var (
		validation   *domain.ValidationError
		conflict     *domain.ConflictError
		duplicate    *domain.DuplicateError
		insufficient *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, validation.Msg
	case errors.As(err, &insufficient):
		return fiber.StatusBadRequest, insufficient.Error()
	case errors.As(err, &conflict):
		return fiber.StatusBadRequest, conflict.Msg
	case errors.As(err, &duplicate):
		return fiber.StatusBadRequest, duplicate.Msg
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "Registro não encontrado"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Não autorizado"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "Acesso negado"
	default:
		return fiber.StatusInternalServerError, msgErroInterno
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg})
}
