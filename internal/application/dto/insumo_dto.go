package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInsumoRequest entrada para criar um insumo.
type CreateInsumoRequest struct {
	Nome            string           `json:"nome" validate:"required,min=1,max=200"`
	UnidadeMedidaID *string          `json:"unidade_medida_id" validate:"omitempty,uuid"`
	EstoqueMinimo   *decimal.Decimal `json:"estoque_minimo"`
	Ativo           *bool            `json:"ativo"`
}

// UpdateInsumoRequest campos alteráveis de um insumo (nil = mantém).
type UpdateInsumoRequest struct {
	Nome            *string          `json:"nome" validate:"omitempty,min=1,max=200"`
	UnidadeMedidaID *string          `json:"unidade_medida_id" validate:"omitempty,uuid"`
	EstoqueMinimo   *decimal.Decimal `json:"estoque_minimo"`
	Ativo           *bool            `json:"ativo"`
}

// InsumoResponse insumo com os campos derivados do razão.
type InsumoResponse struct {
	ID               string          `json:"id"`
	Nome             string          `json:"nome"`
	UnidadeMedidaID  *string         `json:"unidade_medida_id"`
	EstoqueMinimo    decimal.Decimal `json:"estoque_minimo"`
	Ativo            bool            `json:"ativo"`
	Saldo            decimal.Decimal `json:"saldo"`
	CustoMedio       decimal.Decimal `json:"custo_medio"`
	ValorImobilizado decimal.Decimal `json:"valor_imobilizado"`
	Status           string          `json:"status"`
	CriadoEm         time.Time       `json:"criado_em"`
	AtualizadoEm     time.Time       `json:"atualizado_em"`
}

// CreateUnidadeMedidaRequest entrada para criar uma unidade de medida.
type CreateUnidadeMedidaRequest struct {
	Nome           string           `json:"nome" validate:"required,min=1,max=100"`
	Sigla          string           `json:"sigla" validate:"max=20"`
	FatorConversao *decimal.Decimal `json:"fator_conversao" validate:"required"`
}

// UnidadeMedidaResponse saída de unidade de medida.
type UnidadeMedidaResponse struct {
	ID             string          `json:"id"`
	Nome           string          `json:"nome"`
	Sigla          string          `json:"sigla"`
	FatorConversao decimal.Decimal `json:"fator_conversao"`
	CriadoEm       time.Time       `json:"criado_em"`
}
