package repository

import "time"

// Pagina limita listagens.
type Pagina struct {
	Limit  int
	Offset int
}

// FiltroLancamentos filtra entradas/saídas de estoque.
type FiltroLancamentos struct {
	InsumoID string
	De       *time.Time
	Ate      *time.Time
	Pagina   Pagina
}
