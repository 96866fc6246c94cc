package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ingrediente de uma composição.
const (
	IngredienteInsumo     = "INSUMO"
	IngredientePreMistura = "PRE_MISTURA"
)

// IngredienteComposicao é uma linha de dieta ou pré-mistura.
// Exatamente um entre InsumoID e PreMisturaID é preenchido, conforme Tipo.
type IngredienteComposicao struct {
	ID                string
	Tipo              string
	InsumoID          *string
	PreMisturaID      *string
	Nome              string // nome do insumo/pré-mistura (somente leitura, vindo de join)
	Ordem             int
	PercentualMistura decimal.Decimal
	PercentualMS      decimal.Decimal
	ValorUnitarioKg   decimal.Decimal
}

// Dieta é uma receita de ração composta por insumos e/ou pré-misturas que somam 100%.
type Dieta struct {
	ID           string
	ClienteID    string
	EmpresaID    string
	Nome         string
	Fase         string
	Ativo        bool
	Ingredientes []IngredienteComposicao
	MSMedia      decimal.Decimal
	CustoMN      decimal.Decimal
	CustoMS      decimal.Decimal
	CriadoEm     time.Time
	AtualizadoEm time.Time
}

// PreMistura é uma mistura fixa de 2 a 4 insumos, usável como ingrediente de dieta.
type PreMistura struct {
	ID           string
	ClienteID    string
	EmpresaID    string
	Nome         string
	Ativo        bool
	Ingredientes []IngredienteComposicao
	MSMedia      decimal.Decimal
	CustoMN      decimal.Decimal
	CustoMS      decimal.Decimal
	CriadoEm     time.Time
	AtualizadoEm time.Time
}
