package repository

import (
	"context"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

// DietaRepository define a porta de persistência de dietas (com ingredientes).
type DietaRepository interface {
	Create(ctx context.Context, d *entity.Dieta) error
	GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.Dieta, error)
	List(ctx context.Context, t entity.Tenant) ([]*entity.Dieta, error)
	// Update grava o cabeçalho e substitui todas as linhas de ingredientes.
	Update(ctx context.Context, d *entity.Dieta) error
	Delete(ctx context.Context, t entity.Tenant, id string) error
	// EmUsoPorBatidas indica se alguma batida referencia a dieta.
	EmUsoPorBatidas(ctx context.Context, t entity.Tenant, id string) (bool, error)
}

// PreMisturaRepository define a porta de persistência de pré-misturas (com ingredientes).
type PreMisturaRepository interface {
	Create(ctx context.Context, p *entity.PreMistura) error
	GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.PreMistura, error)
	List(ctx context.Context, t entity.Tenant) ([]*entity.PreMistura, error)
	Update(ctx context.Context, p *entity.PreMistura) error
	Delete(ctx context.Context, t entity.Tenant, id string) error
	// EmUsoPorDietas indica se alguma dieta usa a pré-mistura como ingrediente.
	EmUsoPorDietas(ctx context.Context, t entity.Tenant, id string) (bool, error)
}
