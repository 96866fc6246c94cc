package repository

import (
	"context"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

// UsuarioRepository define a porta de persistência de usuários.
type UsuarioRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Usuario, error)
}
