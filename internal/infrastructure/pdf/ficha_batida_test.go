package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
)

func TestGerarFicha(t *testing.T) {
	milho := "i-milho"
	b := &dto.BatidaResponse{
		ID:         "b1",
		Codigo:     "BAT-20260301-A1B2C3",
		DietaNome:  "Terminação",
		VagaoNome:  "Vagão 01",
		Quantidade: decimal.NewFromInt(1000),
		DataHora:   time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC),
		Status:     "CONCLUIDA",
		Ingredientes: []dto.BatidaIngredienteDTO{
			{InsumoID: &milho, Nome: "Milho", PercentualMistura: decimal.NewFromInt(100), QuantidadeKg: decimal.NewFromInt(1000)},
		},
		Saidas: []dto.SaidaResponse{
			{InsumoID: milho, Quantidade: decimal.NewFromInt(1000), ValorEstimado: decimal.RequireFromString("1200.5"), SaldoApos: decimal.Zero},
		},
	}

	out, err := NewFichaBatidaGenerator("Fazenda Boa Vista").GerarFicha(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewFichaBatidaGenerator("").GerarFicha(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "1.234,50", formatKg(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0,00", formatKg(decimal.Zero))
	assert.Equal(t, "-12.000,00", formatMoney(decimal.NewFromInt(-12000)))
	assert.Equal(t, "999", formatDecimal("999"))
}
