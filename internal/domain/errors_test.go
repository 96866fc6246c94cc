package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/confinamento-api/internal/domain"
)

func TestInsufficientStockError_Mensagem(t *testing.T) {
	err := &domain.InsufficientStockError{
		Insumo:     "Milho moído",
		Disponivel: decimal.RequireFromString("120"),
		Necessario: decimal.RequireFromString("150.456"),
	}
	assert.Equal(t, "Estoque insuficiente para o insumo Milho moído. Disponível: 120.00 kg, necessário: 150.46 kg, falta: 30.46 kg", err.Error())
	assert.True(t, err.Falta().Equal(decimal.RequireFromString("30.456")))

	wrapped := fmt.Errorf("aprovar batida: %w", err)
	assert.True(t, errors.Is(wrapped, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(wrapped, domain.ErrInvalidInput))
}

func TestTypedErrors_Is(t *testing.T) {
	assert.ErrorIs(t, domain.NewValidationError("campo %s obrigatório", "nome"), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.NewConflictError("em uso"), domain.ErrConflict)
	assert.ErrorIs(t, &domain.DuplicateError{Msg: "já existe"}, domain.ErrDuplicate)
	assert.Equal(t, "campo nome obrigatório", domain.NewValidationError("campo %s obrigatório", "nome").Error())
}
