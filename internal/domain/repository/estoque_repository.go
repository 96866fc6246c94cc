package repository

import (
	"context"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/estoque"
)

// SaldoRepository mantém os agregados materializados do razão por insumo.
// Usado dentro de transações para garantir consistência.
type SaldoRepository interface {
	// Get devolve o saldo sem bloqueio (leituras); zero quando o insumo não tem lançamentos.
	Get(ctx context.Context, t entity.Tenant, insumoID string) (*entity.SaldoInsumo, error)
	// GetForUpdate garante a existência da linha e a bloqueia (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, t entity.Tenant, insumoID string) (*entity.SaldoInsumo, error)
	Upsert(ctx context.Context, s *entity.SaldoInsumo) error
	ListByTenant(ctx context.Context, t entity.Tenant) (map[string]*entity.SaldoInsumo, error)
	// ListTenants devolve todos os tenants com saldo materializado (conciliação).
	ListTenants(ctx context.Context) ([]entity.Tenant, error)
}

// RazaoRepository recalcula as posições a partir do histórico completo (auditoria).
type RazaoRepository interface {
	PosicoesDoHistorico(ctx context.Context, t entity.Tenant) (map[string]estoque.Posicao, error)
}

// EntradaEstoqueRepository define a porta das entradas de estoque.
type EntradaEstoqueRepository interface {
	Create(ctx context.Context, e *entity.EntradaEstoque) error
	GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.EntradaEstoque, error)
	List(ctx context.Context, t entity.Tenant, f FiltroLancamentos) ([]*entity.EntradaEstoque, error)
	Delete(ctx context.Context, t entity.Tenant, id string) error
}

// SaidaEstoqueRepository define a porta das saídas de estoque.
type SaidaEstoqueRepository interface {
	Create(ctx context.Context, s *entity.SaidaEstoque) error
	List(ctx context.Context, t entity.Tenant, f FiltroLancamentos) ([]*entity.SaidaEstoque, error)
	ListByBatida(ctx context.Context, t entity.Tenant, batidaID string) ([]*entity.SaidaEstoque, error)
}
