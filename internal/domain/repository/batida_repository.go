package repository

import (
	"context"
	"time"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

// BatidaRepository define a porta de persistência de batidas.
type BatidaRepository interface {
	Create(ctx context.Context, b *entity.Batida) error
	GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.Batida, error)
	// GetForUpdate bloqueia a linha da batida até o fim da transação.
	GetForUpdate(ctx context.Context, t entity.Tenant, id string) (*entity.Batida, error)
	// List devolve batidas com nomes de vagão e dieta; status vazio = todas.
	List(ctx context.Context, t entity.Tenant, status string) ([]*entity.Batida, error)
	// UpdateStatus só altera batidas que ainda estão no status "de"; devolve false se nenhuma linha mudou.
	UpdateStatus(ctx context.Context, t entity.Tenant, id, de, para string, concluidaEm *time.Time) (bool, error)
	// Delete só remove batidas em PREPARANDO; devolve false se nenhuma linha foi removida.
	Delete(ctx context.Context, t entity.Tenant, id string) (bool, error)
}
