package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/confinamento-api/internal/application/auth"
	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/memstore"
	pkgjwt "github.com/jhoicas/confinamento-api/pkg/jwt"
)

const secret = "segredo-auth"

func novoUseCase(t *testing.T, ativo bool) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)
	store := memstore.New()
	store.AddUsuario(entity.Usuario{
		ID: "u1", ClienteID: "c1", EmpresaID: "e1", Email: "ana@fazenda.com",
		PasswordHash: string(hash), Nome: "Ana", Role: entity.RoleGerente, Ativo: ativo,
	})
	return auth.NewAuthUseCase(store.Usuarios(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "teste"})
}

func TestLogin_OK(t *testing.T) {
	uc := novoUseCase(t, true)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ANA@fazenda.com", Password: "senha123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.Usuario.ID)

	claims, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.ClienteID)
	assert.Equal(t, "e1", claims.EmpresaID)
	assert.Equal(t, entity.RoleGerente, claims.Role)
}

func TestLogin_SenhaErrada(t *testing.T) {
	uc := novoUseCase(t, true)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@fazenda.com", Password: "outra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ninguem@fazenda.com", Password: "senha123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInativo(t *testing.T) {
	uc := novoUseCase(t, false)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@fazenda.com", Password: "senha123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
