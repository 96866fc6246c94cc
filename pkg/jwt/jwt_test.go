package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/confinamento-api/pkg/jwt"
)

const testSecret = "segredo-de-teste"

func testClaims() pkgjwt.Claims {
	return pkgjwt.Claims{
		UserID:    "00000000-0000-0000-0000-000000000001",
		ClienteID: "00000000-0000-0000-0000-0000000000c1",
		EmpresaID: "00000000-0000-0000-0000-0000000000e1",
		Role:      "admin",
	}
}

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testClaims(), "confinamento-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testClaims().UserID, claims.UserID)
	assert.Equal(t, testClaims().ClienteID, claims.ClienteID)
	assert.Equal(t, testClaims().EmpresaID, claims.EmpresaID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "confinamento-test", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testClaims(), "confinamento-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorreto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testClaims(), "confinamento-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("outro-segredo", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVazio(t *testing.T) {
	_, err := pkgjwt.Generate("", testClaims(), "x", 60)
	assert.Error(t, err)
}
