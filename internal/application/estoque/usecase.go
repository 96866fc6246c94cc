// Package estoque contém os casos de uso que escrevem no razão de insumos (entradas, saídas
// manuais e baixas) e a conciliação dos saldos materializados.
package estoque

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/ports"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	avaliacao "github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// LancamentoUseCase registra entradas e saídas manuais. Toda escrita roda numa transação
// que bloqueia o saldo do insumo.
type LancamentoUseCase struct {
	tx       repository.TxRunner
	insumos  repository.InsumoRepository
	unidades repository.UnidadeMedidaRepository
	entradas repository.EntradaEstoqueRepository
	saidas   repository.SaidaEstoqueRepository
	metricas ports.Metricas
	log      *logger.Logger
}

// NewLancamentoUseCase constrói o caso de uso. metricas e log podem ser nil.
func NewLancamentoUseCase(
	tx repository.TxRunner,
	insumos repository.InsumoRepository,
	unidades repository.UnidadeMedidaRepository,
	entradas repository.EntradaEstoqueRepository,
	saidas repository.SaidaEstoqueRepository,
	metricas ports.Metricas,
	log *logger.Logger,
) *LancamentoUseCase {
	if metricas == nil {
		metricas = ports.NopMetricas{}
	}
	return &LancamentoUseCase{
		tx:       tx,
		insumos:  insumos,
		unidades: unidades,
		entradas: entradas,
		saidas:   saidas,
		metricas: metricas,
		log:      log.Component("estoque"),
	}
}

// RegistrarEntrada converte a quantidade para kg pela unidade informada, grava a entrada e
// soma kg e valor ao saldo do insumo.
func (uc *LancamentoUseCase) RegistrarEntrada(ctx context.Context, t entity.Tenant, userID string, in dto.CreateEntradaRequest) (*dto.EntradaResponse, error) {
	if in.Quantidade == nil || !avaliacao.ArredondarKg(*in.Quantidade).IsPositive() {
		return nil, domain.NewValidationError("Quantidade deve ser maior que zero")
	}
	if in.ValorUnitario == nil || in.ValorUnitario.IsNegative() {
		return nil, domain.NewValidationError("Valor unitário não pode ser negativo")
	}
	insumo, err := uc.insumoAtivo(ctx, t, in.InsumoID)
	if err != nil {
		return nil, err
	}

	fator := decimal.NewFromInt(1)
	if in.UnidadeMedidaID != nil {
		u, err := uc.unidades.GetByID(ctx, t, *in.UnidadeMedidaID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.NewValidationError("Unidade de medida não encontrada")
		}
		fator = u.FatorConversao
	}

	quantidade := avaliacao.ArredondarKg(*in.Quantidade)
	valorUnitario := in.ValorUnitario.Round(4)
	quantidadeKg := avaliacao.ArredondarKg(quantidade.Mul(fator))
	if !quantidadeKg.IsPositive() {
		return nil, domain.NewValidationError("Quantidade deve ser maior que zero")
	}

	now := time.Now()
	data := now
	if in.Data != nil {
		data = *in.Data
	}
	e := &entity.EntradaEstoque{
		ID:              uuid.New().String(),
		ClienteID:       t.ClienteID,
		EmpresaID:       t.EmpresaID,
		InsumoID:        insumo.ID,
		Data:            data,
		UnidadeMedidaID: in.UnidadeMedidaID,
		Quantidade:      quantidade,
		FatorConversao:  fator,
		QuantidadeKg:    quantidadeKg,
		ValorUnitario:   valorUnitario,
		ValorTotal:      quantidade.Mul(valorUnitario).Round(2),
		Fornecedor:      in.Fornecedor,
		NotaFiscal:      in.NotaFiscal,
		Observacoes:     in.Observacoes,
		CriadoEm:        now,
		CriadoPor:       userID,
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		saldo, err := repos.Saldos.GetForUpdate(ctx, t, e.InsumoID)
		if err != nil {
			return err
		}
		if err := repos.Entradas.Create(ctx, e); err != nil {
			return err
		}
		pos := avaliacao.PosicaoDoSaldo(saldo).ComEntrada(e.QuantidadeKg, e.ValorTotal)
		saldo.QuantidadeEntradasKg = pos.QuantidadeEntradasKg
		saldo.ValorEntradas = pos.ValorEntradas
		return repos.Saldos.Upsert(ctx, saldo)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("insumo_id", e.InsumoID).
		Str("entrada_id", e.ID).
		Str("quantidade_kg", e.QuantidadeKg.String()).
		Str("valor_total", e.ValorTotal.String()).
		Msg("entrada de estoque registrada")

	out := ToEntradaResponse(e)
	return &out, nil
}

// RegistrarSaida lança uma saída manual com a mesma regra de saldo da aprovação de batidas.
func (uc *LancamentoUseCase) RegistrarSaida(ctx context.Context, t entity.Tenant, userID string, in dto.CreateSaidaRequest) (*dto.SaidaResponse, error) {
	if in.Quantidade == nil || !avaliacao.ArredondarKg(*in.Quantidade).IsPositive() {
		return nil, domain.NewValidationError("Quantidade deve ser maior que zero")
	}
	insumo, err := uc.insumoAtivo(ctx, t, in.InsumoID)
	if err != nil {
		return nil, err
	}
	quando := time.Now()
	if in.DataHora != nil {
		quando = *in.DataHora
	}

	var saida *entity.SaidaEstoque
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		lancadas, err := LancarBaixa(ctx, repos, Baixa{
			Tenant:      t,
			Itens:       []ItemBaixa{{InsumoID: insumo.ID, Nome: insumo.Nome, Quantidade: *in.Quantidade}},
			DataHora:    quando,
			Observacoes: in.Observacoes,
			CriadoPor:   userID,
		})
		if err != nil {
			return err
		}
		saida = lancadas[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metricas.SaidaLancada(ports.OrigemManual)
	uc.log.Info().
		Str("insumo_id", saida.InsumoID).
		Str("saida_id", saida.ID).
		Str("quantidade_kg", saida.Quantidade.String()).
		Str("saldo_apos", saida.SaldoApos.String()).
		Msg("saída manual lançada")

	out := ToSaidaResponse(saida)
	return &out, nil
}

// ExcluirEntrada remove uma entrada se o saldo resultante continuar ≥ 0. Saídas já lançadas
// mantêm o valor estimado histórico.
func (uc *LancamentoUseCase) ExcluirEntrada(ctx context.Context, t entity.Tenant, id string) error {
	var removida *entity.EntradaEstoque
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		e, err := repos.Entradas.GetByID(ctx, t, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		saldo, err := repos.Saldos.GetForUpdate(ctx, t, e.InsumoID)
		if err != nil {
			return err
		}
		pos := avaliacao.PosicaoDoSaldo(saldo)
		depois := avaliacao.Posicao{
			QuantidadeEntradasKg: pos.QuantidadeEntradasKg.Sub(e.QuantidadeKg),
			ValorEntradas:        pos.ValorEntradas.Sub(e.ValorTotal),
			QuantidadeSaidasKg:   pos.QuantidadeSaidasKg,
		}
		if depois.Saldo().IsNegative() {
			nome := e.InsumoID
			if i, err := repos.Insumos.GetByID(ctx, t, e.InsumoID); err == nil && i != nil {
				nome = i.Nome
			}
			return domain.NewConflictError("A exclusão deixaria o saldo do insumo %s negativo (saldo atual: %s kg, entrada: %s kg)",
				nome, pos.Saldo().StringFixed(2), e.QuantidadeKg.StringFixed(2))
		}
		if err := repos.Entradas.Delete(ctx, t, id); err != nil {
			return err
		}
		saldo.QuantidadeEntradasKg = depois.QuantidadeEntradasKg
		saldo.ValorEntradas = depois.ValorEntradas
		removida = e
		return repos.Saldos.Upsert(ctx, saldo)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("insumo_id", removida.InsumoID).Str("entrada_id", id).Msg("entrada de estoque excluída")
	return nil
}

// ListEntradas lista entradas, mais recentes primeiro.
func (uc *LancamentoUseCase) ListEntradas(ctx context.Context, t entity.Tenant, q dto.LancamentosQuery) ([]dto.EntradaResponse, error) {
	list, err := uc.entradas.List(ctx, t, filtro(q))
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntradaResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToEntradaResponse(e))
	}
	return out, nil
}

// ListSaidas lista saídas (manuais e de batidas), mais recentes primeiro.
func (uc *LancamentoUseCase) ListSaidas(ctx context.Context, t entity.Tenant, q dto.LancamentosQuery) ([]dto.SaidaResponse, error) {
	list, err := uc.saidas.List(ctx, t, filtro(q))
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaidaResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSaidaResponse(s))
	}
	return out, nil
}

func (uc *LancamentoUseCase) insumoAtivo(ctx context.Context, t entity.Tenant, id string) (*entity.Insumo, error) {
	i, err := uc.insumos.GetByID(ctx, t, id)
	if err != nil {
		return nil, fmt.Errorf("buscar insumo: %w", err)
	}
	if i == nil {
		return nil, domain.NewValidationError("Insumo não encontrado")
	}
	if !i.Ativo {
		return nil, domain.NewValidationError("Insumo %s está inativo", i.Nome)
	}
	return i, nil
}

func filtro(q dto.LancamentosQuery) repository.FiltroLancamentos {
	q.DefaultPage()
	return repository.FiltroLancamentos{
		InsumoID: q.InsumoID,
		De:       q.De,
		Ate:      q.Ate,
		Pagina:   repository.Pagina{Limit: q.Limit, Offset: q.Offset},
	}
}

// ToEntradaResponse converte a entidade para o DTO de saída.
func ToEntradaResponse(e *entity.EntradaEstoque) dto.EntradaResponse {
	return dto.EntradaResponse{
		ID:              e.ID,
		InsumoID:        e.InsumoID,
		Data:            e.Data,
		UnidadeMedidaID: e.UnidadeMedidaID,
		Quantidade:      e.Quantidade,
		FatorConversao:  e.FatorConversao,
		QuantidadeKg:    e.QuantidadeKg,
		ValorUnitario:   e.ValorUnitario,
		ValorTotal:      e.ValorTotal,
		Fornecedor:      e.Fornecedor,
		NotaFiscal:      e.NotaFiscal,
		Observacoes:     e.Observacoes,
		CriadoEm:        e.CriadoEm,
	}
}

// ToSaidaResponse converte a entidade para o DTO de saída.
func ToSaidaResponse(s *entity.SaidaEstoque) dto.SaidaResponse {
	return dto.SaidaResponse{
		ID:            s.ID,
		InsumoID:      s.InsumoID,
		BatidaID:      s.BatidaID,
		DataHora:      s.DataHora,
		Quantidade:    s.Quantidade,
		ValorEstimado: s.ValorEstimado,
		SaldoApos:     s.SaldoApos,
		Observacoes:   s.Observacoes,
		CriadoEm:      s.CriadoEm,
	}
}
