package repository

import (
	"context"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

// InsumoRepository define a porta de persistência de insumos.
type InsumoRepository interface {
	Create(ctx context.Context, i *entity.Insumo) error
	GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.Insumo, error)
	List(ctx context.Context, t entity.Tenant, somenteAtivos bool) ([]*entity.Insumo, error)
	Update(ctx context.Context, i *entity.Insumo) error
	Delete(ctx context.Context, t entity.Tenant, id string) error
	// TemLancamentos indica se há entradas ou saídas do insumo no razão.
	TemLancamentos(ctx context.Context, t entity.Tenant, id string) (bool, error)
	// EmComposicao indica se alguma dieta ou pré-mistura usa o insumo.
	EmComposicao(ctx context.Context, t entity.Tenant, id string) (bool, error)
}
