package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEntradaRequest registra uma entrada de estoque. Quantidade e valor unitário estão na
// unidade informada (ou em kg quando unidade_medida_id for omitido).
type CreateEntradaRequest struct {
	InsumoID        string           `json:"insumo_id" validate:"required,uuid"`
	Data            *time.Time       `json:"data"`
	UnidadeMedidaID *string          `json:"unidade_medida_id" validate:"omitempty,uuid"`
	Quantidade      *decimal.Decimal `json:"quantidade" validate:"required"`
	ValorUnitario   *decimal.Decimal `json:"valor_unitario" validate:"required"`
	Fornecedor      string           `json:"fornecedor" validate:"max=200"`
	NotaFiscal      string           `json:"nota_fiscal" validate:"max=60"`
	Observacoes     string           `json:"observacoes"`
}

// EntradaResponse saída de uma entrada de estoque.
type EntradaResponse struct {
	ID              string          `json:"id"`
	InsumoID        string          `json:"insumo_id"`
	Data            time.Time       `json:"data"`
	UnidadeMedidaID *string         `json:"unidade_medida_id"`
	Quantidade      decimal.Decimal `json:"quantidade"`
	FatorConversao  decimal.Decimal `json:"fator_conversao"`
	QuantidadeKg    decimal.Decimal `json:"quantidade_kg"`
	ValorUnitario   decimal.Decimal `json:"valor_unitario"`
	ValorTotal      decimal.Decimal `json:"valor_total"`
	Fornecedor      string          `json:"fornecedor,omitempty"`
	NotaFiscal      string          `json:"nota_fiscal,omitempty"`
	Observacoes     string          `json:"observacoes,omitempty"`
	CriadoEm        time.Time       `json:"criado_em"`
}

// CreateSaidaRequest saída manual (kg).
type CreateSaidaRequest struct {
	InsumoID    string           `json:"insumo_id" validate:"required,uuid"`
	DataHora    *time.Time       `json:"data_hora"`
	Quantidade  *decimal.Decimal `json:"quantidade" validate:"required"`
	Observacoes string           `json:"observacoes"`
}

// SaidaResponse saída de estoque.
type SaidaResponse struct {
	ID            string          `json:"id"`
	InsumoID      string          `json:"insumo_id"`
	BatidaID      *string         `json:"batida_id"`
	DataHora      time.Time       `json:"data_hora"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorEstimado decimal.Decimal `json:"valor_estimado"`
	SaldoApos     decimal.Decimal `json:"saldo_apos"`
	Observacoes   string          `json:"observacoes,omitempty"`
	CriadoEm      time.Time       `json:"criado_em"`
}

// LancamentosQuery filtros das listagens de entradas e saídas.
type LancamentosQuery struct {
	InsumoID string     `query:"insumo_id" validate:"omitempty,uuid"`
	De       *time.Time `query:"-"`
	Ate      *time.Time `query:"-"`
	PageRequest
}

// DivergenciaDTO diferença entre o saldo materializado e o histórico.
type DivergenciaDTO struct {
	ClienteID   string          `json:"cliente_id"`
	EmpresaID   string          `json:"empresa_id"`
	InsumoID    string          `json:"insumo_id"`
	SaldoTabela decimal.Decimal `json:"saldo_materializado"`
	SaldoRazao  decimal.Decimal `json:"saldo_historico"`
	CustoTabela decimal.Decimal `json:"custo_medio_materializado"`
	CustoRazao  decimal.Decimal `json:"custo_medio_historico"`
	Corrigida   bool            `json:"corrigida"`
}

// ConciliacaoResponse resultado de uma conciliação.
type ConciliacaoResponse struct {
	InsumosVerificados int              `json:"insumos_verificados"`
	Divergencias       []DivergenciaDTO `json:"divergencias"`
	ExecutadaEm        time.Time        `json:"executada_em"`
}

// SugestaoReposicaoDTO linha da lista de compras de insumos.
type SugestaoReposicaoDTO struct {
	Prioridade         int              `json:"prioridade"`
	InsumoID           string           `json:"insumo_id"`
	Nome               string           `json:"nome"`
	Status             string           `json:"status"`
	Saldo              decimal.Decimal  `json:"saldo"`
	EstoqueMinimo      decimal.Decimal  `json:"estoque_minimo"`
	ConsumoDiario      decimal.Decimal  `json:"consumo_diario"`
	DiasCobertura      *decimal.Decimal `json:"dias_cobertura"` // nil sem consumo na janela
	EstoqueIdeal       decimal.Decimal  `json:"estoque_ideal"`
	QuantidadeSugerida decimal.Decimal  `json:"quantidade_sugerida"`
	CustoMedio         decimal.Decimal  `json:"custo_medio"`
	CustoEstimado      decimal.Decimal  `json:"custo_estimado"`
}
