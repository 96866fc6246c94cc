package http

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
)

// RequireRole autoriza apenas os papéis informados. Deve vir DEPOIS do AuthMiddleware.
//
//   - 401 → token sem papel.
//   - 403 → papel fora da lista.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, "Token sem papel de usuário")
		}
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Acesso negado para o papel " + role,
			})
		}
		return c.Next()
	}
}
