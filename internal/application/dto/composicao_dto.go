package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredienteRequest linha de composição. Tipo padrão INSUMO.
type IngredienteRequest struct {
	Tipo              string          `json:"tipo" validate:"omitempty,oneof=INSUMO PRE_MISTURA"`
	InsumoID          *string         `json:"insumo_id" validate:"omitempty,uuid"`
	PreMisturaID      *string         `json:"pre_mistura_id" validate:"omitempty,uuid"`
	PercentualMistura decimal.Decimal `json:"percentual_mistura"`
	PercentualMS      decimal.Decimal `json:"percentual_ms"`
	ValorUnitarioKg   decimal.Decimal `json:"valor_unitario_kg"`
}

// IngredienteResponse linha de composição com o nome resolvido.
type IngredienteResponse struct {
	ID                string          `json:"id"`
	Tipo              string          `json:"tipo"`
	InsumoID          *string         `json:"insumo_id,omitempty"`
	PreMisturaID      *string         `json:"pre_mistura_id,omitempty"`
	Nome              string          `json:"nome"`
	Ordem             int             `json:"ordem"`
	PercentualMistura decimal.Decimal `json:"percentual_mistura"`
	PercentualMS      decimal.Decimal `json:"percentual_ms"`
	ValorUnitarioKg   decimal.Decimal `json:"valor_unitario_kg"`
}

// DietaRequest cria ou substitui uma dieta (PUT substitui todas as linhas).
type DietaRequest struct {
	Nome         string               `json:"nome" validate:"required,min=1,max=200"`
	Fase         string               `json:"fase" validate:"max=100"`
	Ativo        *bool                `json:"ativo"`
	Ingredientes []IngredienteRequest `json:"ingredientes" validate:"required,min=1,dive"`
}

// DietaResponse dieta com campos calculados.
type DietaResponse struct {
	ID           string                `json:"id"`
	Nome         string                `json:"nome"`
	Fase         string                `json:"fase"`
	Ativo        bool                  `json:"ativo"`
	MSMedia      decimal.Decimal       `json:"ms_media"`
	CustoMN      decimal.Decimal       `json:"custo_mn"`
	CustoMS      decimal.Decimal       `json:"custo_ms"`
	Ingredientes []IngredienteResponse `json:"ingredientes"`
	CriadoEm     time.Time             `json:"criado_em"`
	AtualizadoEm time.Time             `json:"atualizado_em"`
}

// PreMisturaRequest cria ou substitui uma pré-mistura (2 a 4 insumos).
type PreMisturaRequest struct {
	Nome         string               `json:"nome" validate:"required,min=1,max=200"`
	Ativo        *bool                `json:"ativo"`
	Ingredientes []IngredienteRequest `json:"ingredientes" validate:"required,min=2,max=4,dive"`
}

// PreMisturaResponse pré-mistura com campos calculados.
type PreMisturaResponse struct {
	ID           string                `json:"id"`
	Nome         string                `json:"nome"`
	Ativo        bool                  `json:"ativo"`
	MSMedia      decimal.Decimal       `json:"ms_media"`
	CustoMN      decimal.Decimal       `json:"custo_mn"`
	CustoMS      decimal.Decimal       `json:"custo_ms"`
	Ingredientes []IngredienteResponse `json:"ingredientes"`
	CriadoEm     time.Time             `json:"criado_em"`
	AtualizadoEm time.Time             `json:"atualizado_em"`
}
