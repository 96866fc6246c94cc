package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/confinamento-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/confinamento-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testClienteID = "00000000-0000-0000-0000-0000000000c1"
	testEmpresaID = "00000000-0000-0000-0000-0000000000e1"
	testIssuer    = "confinamento-api-test"
	testExpMin    = 60
)

// buildRoleApp monta uma app mínima com AuthMiddleware + RequireRole e um handler que devolve 200.
func buildRoleApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Claims{
		UserID:    testUserID,
		ClienteID: testClienteID,
		EmpresaID: testEmpresaID,
		Role:      role,
	}, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_PapelPermitido(t *testing.T) {
	app := buildRoleApp("admin", "gerente")
	resp := get(t, app, "/protected", tokenFor(t, "gerente"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "gerente", body["role"])
}

func TestRequireRole_PapelNegado(t *testing.T) {
	app := buildRoleApp("admin")
	resp := get(t, app, "/protected", tokenFor(t, "operador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"error"`)
}

func TestRequireRole_TokenSemPapel(t *testing.T) {
	app := buildRoleApp("admin")
	resp := get(t, app, "/protected", tokenFor(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Rejeita(t *testing.T) {
	app := buildRoleApp("admin")
	semTenant, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Claims{UserID: testUserID, Role: "admin"}, testIssuer, testExpMin)
	require.NoError(t, err)
	expirado, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Claims{
		UserID: testUserID, ClienteID: testClienteID, EmpresaID: testEmpresaID, Role: "admin",
	}, testIssuer, -1)
	require.NoError(t, err)

	cases := map[string]string{
		"sem header":       "",
		"sem Bearer":       "Token abc",
		"token vazio":      "Bearer ",
		"token inválido":   "Bearer token.invalido.aqui",
		"token expirado":   "Bearer " + expirado,
		"token sem tenant": "Bearer " + semTenant,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := get(t, app, "/protected", header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAuthMiddleware_ExtraiClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		tenant, ok := apphttp.GetTenant(c)
		return c.JSON(fiber.Map{
			"ok":         ok,
			"user_id":    apphttp.GetUserID(c),
			"cliente_id": tenant.ClienteID,
			"empresa_id": tenant.EmpresaID,
			"role":       apphttp.GetRole(c),
		})
	})

	resp := get(t, app, "/me", tokenFor(t, "admin"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testClienteID, body["cliente_id"])
	assert.Equal(t, testEmpresaID, body["empresa_id"])
	assert.Equal(t, "admin", body["role"])
}
