// Package estoque contém a avaliação do estoque de insumos a partir do razão
// (entradas e saídas), usando custo médio ponderado das entradas.
package estoque

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

// Status do saldo de um insumo.
const (
	StatusOK     = "OK"
	StatusBaixo  = "BAIXO"
	StatusZerado = "ZERADO"
)

// Posicao é o resumo do razão de um insumo.
type Posicao struct {
	QuantidadeEntradasKg decimal.Decimal
	ValorEntradas        decimal.Decimal
	QuantidadeSaidasKg   decimal.Decimal
}

// PosicaoDoSaldo converte o saldo materializado numa Posicao.
func PosicaoDoSaldo(s *entity.SaldoInsumo) Posicao {
	if s == nil {
		return Posicao{}
	}
	return Posicao{
		QuantidadeEntradasKg: s.QuantidadeEntradasKg,
		ValorEntradas:        s.ValorEntradas,
		QuantidadeSaidasKg:   s.QuantidadeSaidasKg,
	}
}

// AvaliarRazao recalcula a posição a partir do histórico completo de lançamentos.
func AvaliarRazao(entradas []*entity.EntradaEstoque, saidas []*entity.SaidaEstoque) Posicao {
	var p Posicao
	for _, e := range entradas {
		p.QuantidadeEntradasKg = p.QuantidadeEntradasKg.Add(e.QuantidadeKg)
		p.ValorEntradas = p.ValorEntradas.Add(e.ValorTotal)
	}
	for _, s := range saidas {
		p.QuantidadeSaidasKg = p.QuantidadeSaidasKg.Add(s.Quantidade)
	}
	return p
}

// Saldo = Σ entradas (kg) − Σ saídas (kg).
func (p Posicao) Saldo() decimal.Decimal {
	return p.QuantidadeEntradasKg.Sub(p.QuantidadeSaidasKg)
}

// CustoMedio = Σ valor das entradas / Σ kg das entradas; zero sem entradas.
func (p Posicao) CustoMedio() decimal.Decimal {
	if p.QuantidadeEntradasKg.IsZero() {
		return decimal.Zero
	}
	return p.ValorEntradas.Div(p.QuantidadeEntradasKg)
}

// ValorImobilizado = saldo × custo médio.
func (p Posicao) ValorImobilizado() decimal.Decimal {
	return p.Saldo().Mul(p.CustoMedio())
}

// Status classifica o saldo frente ao estoque mínimo.
func (p Posicao) Status(estoqueMinimo decimal.Decimal) string {
	return ClassificarSaldo(p.Saldo(), estoqueMinimo)
}

// ComEntrada devolve a posição após somar uma entrada.
func (p Posicao) ComEntrada(quantidadeKg, valorTotal decimal.Decimal) Posicao {
	p.QuantidadeEntradasKg = p.QuantidadeEntradasKg.Add(quantidadeKg)
	p.ValorEntradas = p.ValorEntradas.Add(valorTotal)
	return p
}

// ComSaida devolve a posição após somar uma saída.
func (p Posicao) ComSaida(quantidadeKg decimal.Decimal) Posicao {
	p.QuantidadeSaidasKg = p.QuantidadeSaidasKg.Add(quantidadeKg)
	return p
}

// Igual compara duas posições campo a campo.
func (p Posicao) Igual(o Posicao) bool {
	return p.QuantidadeEntradasKg.Equal(o.QuantidadeEntradasKg) &&
		p.ValorEntradas.Equal(o.ValorEntradas) &&
		p.QuantidadeSaidasKg.Equal(o.QuantidadeSaidasKg)
}

// CasasKg é a escala com que quantidades em kg são gravadas no razão.
const CasasKg = 3

// ArredondarKg leva uma quantidade à escala do razão. Toda quantidade calculada passa por aqui
// antes de conferir saldo ou valorizar, para que o que se confere seja o que se grava.
func ArredondarKg(q decimal.Decimal) decimal.Decimal {
	return q.Round(CasasKg)
}

// ClassificarSaldo: ZERADO se saldo ≤ 0; BAIXO se 0 < saldo ≤ mínimo; senão OK.
func ClassificarSaldo(saldo, estoqueMinimo decimal.Decimal) string {
	if saldo.LessThanOrEqual(decimal.Zero) {
		return StatusZerado
	}
	if saldo.LessThanOrEqual(estoqueMinimo) {
		return StatusBaixo
	}
	return StatusOK
}
