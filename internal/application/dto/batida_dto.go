package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientePersonalizadoDTO item da lista que substitui a composição da dieta numa batida.
type IngredientePersonalizadoDTO struct {
	InsumoID     *string         `json:"insumo_id,omitempty" validate:"omitempty,uuid"`
	Nome         string          `json:"nome,omitempty"`
	QuantidadeKg decimal.Decimal `json:"quantidade_kg"`
}

// CreateBatidaRequest programa uma batida (nasce em PREPARANDO).
type CreateBatidaRequest struct {
	VagaoID                    *string                       `json:"vagao_id" validate:"omitempty,uuid"`
	DietaID                    string                        `json:"dieta_id" validate:"required"`
	Quantidade                 *decimal.Decimal              `json:"quantidade" validate:"required"`
	DataHora                   *time.Time                    `json:"data_hora" validate:"required"`
	Observacoes                string                        `json:"observacoes"`
	IngredientesPersonalizados []IngredientePersonalizadoDTO `json:"ingredientes_personalizados" validate:"omitempty,dive"`
}

// UpdateBatidaRequest transição de status.
type UpdateBatidaRequest struct {
	Status string `json:"status" validate:"required,oneof=CONCLUIDA CANCELADA"`
}

// BatidaIngredienteDTO quantidade planejada (ou lançada) de um ingrediente na batida.
type BatidaIngredienteDTO struct {
	InsumoID          *string         `json:"insumo_id,omitempty"`
	Nome              string          `json:"nome"`
	PercentualMistura decimal.Decimal `json:"percentual_mistura"`
	QuantidadeKg      decimal.Decimal `json:"quantidade_kg"`
}

// BatidaResponse batida com nomes de vagão, dieta e ingredientes.
type BatidaResponse struct {
	ID                         string                        `json:"id"`
	Codigo                     string                        `json:"codigo"`
	VagaoID                    *string                       `json:"vagao_id"`
	VagaoNome                  string                        `json:"vagao_nome,omitempty"`
	DietaID                    string                        `json:"dieta_id"`
	DietaNome                  string                        `json:"dieta_nome"`
	Quantidade                 decimal.Decimal               `json:"quantidade"`
	DataHora                   time.Time                     `json:"data_hora"`
	Status                     string                        `json:"status"`
	Observacoes                string                        `json:"observacoes,omitempty"`
	IngredientesPersonalizados []IngredientePersonalizadoDTO `json:"ingredientes_personalizados,omitempty"`
	Ingredientes               []BatidaIngredienteDTO        `json:"ingredientes"`
	Saidas                     []SaidaResponse               `json:"saidas,omitempty"`
	CriadoEm                   time.Time                     `json:"criado_em"`
	ConcluidaEm                *time.Time                    `json:"concluida_em,omitempty"`
}

// UpdateBatidaResponse confirmação de uma transição de status.
type UpdateBatidaResponse struct {
	Message string          `json:"message"`
	Batida  *BatidaResponse `json:"batida"`
}
