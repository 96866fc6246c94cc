package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntradaEstoque registra uma aquisição de insumo. Imutável depois de criada.
type EntradaEstoque struct {
	ID              string
	ClienteID       string
	EmpresaID       string
	InsumoID        string
	Data            time.Time
	UnidadeMedidaID *string
	Quantidade      decimal.Decimal // na unidade de entrada
	FatorConversao  decimal.Decimal
	QuantidadeKg    decimal.Decimal
	ValorUnitario   decimal.Decimal // por unidade de entrada
	ValorTotal      decimal.Decimal
	Fornecedor      string
	NotaFiscal      string
	Observacoes     string
	CriadoEm        time.Time
	CriadoPor       string
}

// SaidaEstoque registra um consumo de insumo, manual ou gerado pela aprovação de uma batida.
type SaidaEstoque struct {
	ID            string
	ClienteID     string
	EmpresaID     string
	InsumoID      string
	BatidaID      *string // nil quando a saída é manual
	DataHora      time.Time
	Quantidade    decimal.Decimal // kg
	ValorEstimado decimal.Decimal // quantidade × custo médio no momento do lançamento
	SaldoApos     decimal.Decimal
	Observacoes   string
	CriadoEm      time.Time
	CriadoPor     string
}

// SaldoInsumo mantém os agregados do razão de um insumo, atualizados na mesma transação de
// cada lançamento. É a linha bloqueada (SELECT ... FOR UPDATE) por quem escreve no razão.
type SaldoInsumo struct {
	InsumoID             string
	ClienteID            string
	EmpresaID            string
	QuantidadeEntradasKg decimal.Decimal
	ValorEntradas        decimal.Decimal
	QuantidadeSaidasKg   decimal.Decimal
	AtualizadoEm         time.Time
}
