package repository

import (
	"context"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

// UnidadeMedidaRepository define a porta de persistência de unidades de medida.
type UnidadeMedidaRepository interface {
	Create(ctx context.Context, u *entity.UnidadeMedida) error
	GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.UnidadeMedida, error)
	List(ctx context.Context, t entity.Tenant) ([]*entity.UnidadeMedida, error)
	Delete(ctx context.Context, t entity.Tenant, id string) error
	// EmUso indica se algum insumo ou entrada de estoque referencia a unidade.
	EmUso(ctx context.Context, t entity.Tenant, id string) (bool, error)
}
