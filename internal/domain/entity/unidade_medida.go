package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnidadeMedida é uma unidade de entrada de estoque (saco, tonelada, litro...) com o fator
// que a converte para kg.
type UnidadeMedida struct {
	ID             string
	ClienteID      string
	EmpresaID      string
	Nome           string
	Sigla          string
	FatorConversao decimal.Decimal // 1 unidade = FatorConversao kg
	CriadoEm       time.Time
}

// ParaKg converte uma quantidade expressa nesta unidade para kg.
func (u *UnidadeMedida) ParaKg(quantidade decimal.Decimal) decimal.Decimal {
	return quantidade.Mul(u.FatorConversao)
}
