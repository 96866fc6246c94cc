package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de uma batida.
const (
	BatidaPreparando = "PREPARANDO"
	BatidaConcluida  = "CONCLUIDA"
	BatidaCancelada  = "CANCELADA"
)

// IngredientePersonalizado substitui a composição da dieta numa batida específica.
type IngredientePersonalizado struct {
	InsumoID     *string         `json:"insumo_id,omitempty"`
	Nome         string          `json:"nome,omitempty"`
	QuantidadeKg decimal.Decimal `json:"quantidade_kg"`
}

// Batida é uma execução programada de uma dieta numa quantidade (kg).
// Nasce em PREPARANDO; CONCLUIDA (baixa o estoque) e CANCELADA são terminais.
type Batida struct {
	ID                         string
	ClienteID                  string
	EmpresaID                  string
	Codigo                     string
	VagaoID                    *string
	DietaID                    string
	Quantidade                 decimal.Decimal
	DataHora                   time.Time
	Status                     string
	Observacoes                string
	IngredientesPersonalizados []IngredientePersonalizado
	CriadoEm                   time.Time
	ConcluidaEm                *time.Time

	// Preenchidos apenas em listagens (join).
	VagaoNome string
	DietaNome string
}

// StatusValido indica se s é um dos status conhecidos.
func StatusValido(s string) bool {
	switch s {
	case BatidaPreparando, BatidaConcluida, BatidaCancelada:
		return true
	}
	return false
}

// PodeTransicionar aplica a máquina de estados: só há saídas de PREPARANDO.
func (b *Batida) PodeTransicionar(destino string) bool {
	if b.Status != BatidaPreparando {
		return false
	}
	return destino == BatidaConcluida || destino == BatidaCancelada
}

// PodeExcluir: somente batidas ainda em preparo podem ser excluídas.
func (b *Batida) PodeExcluir() bool {
	return b.Status == BatidaPreparando
}

// TemPersonalizacao indica se a batida usa lista própria de ingredientes.
func (b *Batida) TemPersonalizacao() bool {
	return len(b.IngredientesPersonalizados) > 0
}
