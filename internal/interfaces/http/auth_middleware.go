package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/pkg/jwt"
)

// Chaves de Locals preenchidas pelo AuthMiddleware.
const (
	LocalUserID    = "user_id"
	LocalClienteID = "cliente_id"
	LocalEmpresaID = "empresa_id"
	LocalRole      = "role"
)

// AuthMiddleware valida o Bearer Token JWT e guarda usuário, tenant e papel em c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Header Authorization obrigatório")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "Formato esperado: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "Token vazio")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "Token inválido ou expirado")
		}
		if claims.ClienteID == "" || claims.EmpresaID == "" {
			return unauthorized(c, "Token sem cliente_id/empresa_id")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClienteID, claims.ClienteID)
		c.Locals(LocalEmpresaID, claims.EmpresaID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devolve o usuário autenticado (depois do AuthMiddleware).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devolve o papel do usuário autenticado.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetTenant devolve cliente e empresa do token. ok=false fora de rota autenticada.
func GetTenant(c *fiber.Ctx) (entity.Tenant, bool) {
	t := entity.Tenant{
		ClienteID: localString(c, LocalClienteID),
		EmpresaID: localString(c, LocalEmpresaID),
	}
	return t, t.Valid()
}
