package estoque

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/ports"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	avaliacao "github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// ConciliacaoUseCase confere os saldos materializados contra o histórico completo do razão.
type ConciliacaoUseCase struct {
	tx       repository.TxRunner
	saldos   repository.SaldoRepository
	razao    repository.RazaoRepository
	metricas ports.Metricas
	log      *logger.Logger
}

// NewConciliacaoUseCase constrói o caso de uso. metricas e log podem ser nil.
func NewConciliacaoUseCase(
	tx repository.TxRunner,
	saldos repository.SaldoRepository,
	razao repository.RazaoRepository,
	metricas ports.Metricas,
	log *logger.Logger,
) *ConciliacaoUseCase {
	if metricas == nil {
		metricas = ports.NopMetricas{}
	}
	return &ConciliacaoUseCase{tx: tx, saldos: saldos, razao: razao, metricas: metricas, log: log.Component("conciliacao")}
}

// Executar varre todos os tenants. Com corrigir=true, cada saldo divergente é regravado a
// partir do histórico, recalculado com a linha já bloqueada.
func (uc *ConciliacaoUseCase) Executar(ctx context.Context, corrigir bool) (*dto.ConciliacaoResponse, error) {
	tenants, err := uc.saldos.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar tenants: %w", err)
	}
	out := &dto.ConciliacaoResponse{Divergencias: []dto.DivergenciaDTO{}, ExecutadaEm: time.Now()}
	for _, t := range tenants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, divs, err := uc.conciliarTenant(ctx, t, corrigir)
		if err != nil {
			return nil, err
		}
		out.InsumosVerificados += n
		out.Divergencias = append(out.Divergencias, divs...)
	}
	uc.metricas.Divergencias(len(out.Divergencias))

	ev := uc.log.Info
	if len(out.Divergencias) > 0 {
		ev = uc.log.Warn
	}
	ev().Int("tenants", len(tenants)).
		Int("insumos", out.InsumosVerificados).
		Int("divergencias", len(out.Divergencias)).
		Bool("corrigir", corrigir).
		Msg("conciliação de saldos executada")
	return out, nil
}

// ExecutarTenant concilia apenas os insumos de um tenant (disparo manual pela API).
// Não altera o gauge de divergências, que reflete a varredura completa.
func (uc *ConciliacaoUseCase) ExecutarTenant(ctx context.Context, t entity.Tenant, corrigir bool) (*dto.ConciliacaoResponse, error) {
	n, divs, err := uc.conciliarTenant(ctx, t, corrigir)
	if err != nil {
		return nil, err
	}
	if divs == nil {
		divs = []dto.DivergenciaDTO{}
	}
	uc.log.Info().
		Str("cliente_id", t.ClienteID).
		Str("empresa_id", t.EmpresaID).
		Int("insumos", n).
		Int("divergencias", len(divs)).
		Bool("corrigir", corrigir).
		Msg("conciliação sob demanda executada")
	return &dto.ConciliacaoResponse{InsumosVerificados: n, Divergencias: divs, ExecutadaEm: time.Now()}, nil
}

func (uc *ConciliacaoUseCase) conciliarTenant(ctx context.Context, t entity.Tenant, corrigir bool) (int, []dto.DivergenciaDTO, error) {
	historico, err := uc.razao.PosicoesDoHistorico(ctx, t)
	if err != nil {
		return 0, nil, fmt.Errorf("recalcular histórico: %w", err)
	}
	materializados, err := uc.saldos.ListByTenant(ctx, t)
	if err != nil {
		return 0, nil, fmt.Errorf("listar saldos: %w", err)
	}

	ids := make([]string, 0, len(historico))
	for id := range historico {
		ids = append(ids, id)
	}
	for id := range materializados {
		if _, ok := historico[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var divs []dto.DivergenciaDTO
	for _, id := range ids {
		hist := historico[id]
		mat := avaliacao.PosicaoDoSaldo(materializados[id])
		if hist.Igual(mat) {
			continue
		}
		div := dto.DivergenciaDTO{
			ClienteID:   t.ClienteID,
			EmpresaID:   t.EmpresaID,
			InsumoID:    id,
			SaldoTabela: mat.Saldo(),
			SaldoRazao:  hist.Saldo(),
			CustoTabela: mat.CustoMedio().Round(4),
			CustoRazao:  hist.CustoMedio().Round(4),
		}
		uc.log.Warn().
			Str("cliente_id", t.ClienteID).
			Str("empresa_id", t.EmpresaID).
			Str("insumo_id", id).
			Str("saldo_materializado", div.SaldoTabela.String()).
			Str("saldo_historico", div.SaldoRazao.String()).
			Msg("saldo divergente do razão")
		if corrigir {
			if err := uc.corrigir(ctx, t, id); err != nil {
				return 0, nil, err
			}
			div.Corrigida = true
		}
		divs = append(divs, div)
	}
	return len(ids), divs, nil
}

func (uc *ConciliacaoUseCase) corrigir(ctx context.Context, t entity.Tenant, insumoID string) error {
	return uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		saldo, err := repos.Saldos.GetForUpdate(ctx, t, insumoID)
		if err != nil {
			return err
		}
		historico, err := repos.Razao.PosicoesDoHistorico(ctx, t)
		if err != nil {
			return err
		}
		pos := historico[insumoID]
		saldo.QuantidadeEntradasKg = pos.QuantidadeEntradasKg
		saldo.ValorEntradas = pos.ValorEntradas
		saldo.QuantidadeSaidasKg = pos.QuantidadeSaidasKg
		return repos.Saldos.Upsert(ctx, saldo)
	})
}
