package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Insumo é um ingrediente bruto de ração controlado em estoque.
// Saldo, custo médio e status são derivados do razão (ver domain/estoque).
type Insumo struct {
	ID              string
	ClienteID       string
	EmpresaID       string
	Nome            string
	UnidadeMedidaID *string // unidade base (opcional)
	EstoqueMinimo   decimal.Decimal
	Ativo           bool
	CriadoEm        time.Time
	AtualizadoEm    time.Time
}
