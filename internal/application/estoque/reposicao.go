package estoque

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	avaliacao "github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

const (
	// JanelaConsumoDias período de saídas usado para o consumo médio diário.
	JanelaConsumoDias = 30
	// CoberturaPadraoDias dias de consumo que a compra sugerida deve cobrir.
	CoberturaPadraoDias = 15
	coberturaMaxDias    = 180
)

var fatorMinimo = decimal.RequireFromString("1.5")

// ReposicaoUseCase gera a lista de compras: insumos ativos abaixo do mínimo ou que não
// cobrem os próximos dias de consumo.
type ReposicaoUseCase struct {
	insumos repository.InsumoRepository
	saldos  repository.SaldoRepository
	saidas  repository.SaidaEstoqueRepository
	agora   func() time.Time
}

// NewReposicaoUseCase constrói o caso de uso.
func NewReposicaoUseCase(
	insumos repository.InsumoRepository,
	saldos repository.SaldoRepository,
	saidas repository.SaidaEstoqueRepository,
) *ReposicaoUseCase {
	return &ReposicaoUseCase{insumos: insumos, saldos: saldos, saidas: saidas, agora: time.Now}
}

// Gerar devolve as sugestões ordenadas por prioridade (1 = mais urgente).
// diasCobertura ≤ 0 usa CoberturaPadraoDias.
func (uc *ReposicaoUseCase) Gerar(ctx context.Context, t entity.Tenant, diasCobertura int) ([]dto.SugestaoReposicaoDTO, error) {
	if diasCobertura <= 0 {
		diasCobertura = CoberturaPadraoDias
	}
	if diasCobertura > coberturaMaxDias {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("dias de cobertura deve ser no máximo %d", coberturaMaxDias)}
	}

	// 1. Insumos ativos e saldos
	insumos, err := uc.insumos.List(ctx, t, true)
	if err != nil {
		return nil, err
	}
	if len(insumos) == 0 {
		return []dto.SugestaoReposicaoDTO{}, nil
	}
	saldos, err := uc.saldos.ListByTenant(ctx, t)
	if err != nil {
		return nil, err
	}

	// 2. Consumo da janela por insumo (saídas de batida e manuais)
	de := uc.agora().AddDate(0, 0, -JanelaConsumoDias)
	saidas, err := uc.saidas.List(ctx, t, repository.FiltroLancamentos{De: &de})
	if err != nil {
		return nil, err
	}
	consumo := make(map[string]decimal.Decimal, len(insumos))
	for _, s := range saidas {
		consumo[s.InsumoID] = consumo[s.InsumoID].Add(s.Quantidade)
	}

	// 3. Sugestões
	janela := decimal.NewFromInt(JanelaConsumoDias)
	dias := decimal.NewFromInt(int64(diasCobertura))
	out := make([]dto.SugestaoReposicaoDTO, 0, len(insumos))
	for _, i := range insumos {
		var p avaliacao.Posicao
		if s, ok := saldos[i.ID]; ok {
			p = avaliacao.PosicaoDoSaldo(s)
		}
		saldo := p.Saldo()
		diario := consumo[i.ID].Div(janela)

		var cobertura *decimal.Decimal
		if diario.IsPositive() {
			c := decimal.Max(saldo, decimal.Zero).Div(diario).Round(1)
			cobertura = &c
		}
		status := p.Status(i.EstoqueMinimo)
		if status == avaliacao.StatusOK && (cobertura == nil || cobertura.GreaterThanOrEqual(dias)) {
			continue
		}

		ideal := decimal.Max(i.EstoqueMinimo.Mul(fatorMinimo), diario.Mul(dias))
		sugerida := ideal.Sub(saldo)
		if sugerida.IsNegative() {
			sugerida = decimal.Zero
		}
		custo := p.CustoMedio()
		out = append(out, dto.SugestaoReposicaoDTO{
			InsumoID:           i.ID,
			Nome:               i.Nome,
			Status:             status,
			Saldo:              saldo,
			EstoqueMinimo:      i.EstoqueMinimo,
			ConsumoDiario:      diario.Round(2),
			DiasCobertura:      cobertura,
			EstoqueIdeal:       ideal.Round(2),
			QuantidadeSugerida: sugerida.Round(2),
			CustoMedio:         custo.Round(4),
			CustoEstimado:      sugerida.Mul(custo).Round(2),
		})
	}

	// 4. ZERADO primeiro, depois menor cobertura, por fim maior déficit
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Status == avaliacao.StatusZerado) != (b.Status == avaliacao.StatusZerado) {
			return a.Status == avaliacao.StatusZerado
		}
		switch {
		case a.DiasCobertura != nil && b.DiasCobertura == nil:
			return true
		case a.DiasCobertura == nil && b.DiasCobertura != nil:
			return false
		case a.DiasCobertura != nil && !a.DiasCobertura.Equal(*b.DiasCobertura):
			return a.DiasCobertura.LessThan(*b.DiasCobertura)
		}
		return a.QuantidadeSugerida.GreaterThan(b.QuantidadeSugerida)
	})
	for i := range out {
		out[i].Prioridade = i + 1
	}
	return out, nil
}
