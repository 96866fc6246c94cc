package estoque_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/memstore"
)

func TestConciliacao_LedgerConsistente(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "a", "Milho")
	novoInsumo(t, store, "b", "Ureia")
	uc := novoUC(store, &contadorMetricas{})
	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "a", Quantidade: dec("100"), ValorUnitario: dec("1.5")})
	require.NoError(t, err)
	_, err = uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "a", Quantidade: dec("40")})
	require.NoError(t, err)

	m := &contadorMetricas{divergencias: -1}
	conc := estoque.NewConciliacaoUseCase(store, store.Saldos(), store.Razao(), m, nil)
	out, err := conc.Executar(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, out.InsumosVerificados)
	assert.Empty(t, out.Divergencias)
	assert.Equal(t, 0, m.divergencias)
}

func TestConciliacao_CorrigeDivergencia(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "a", "Milho")
	uc := novoUC(store, &contadorMetricas{})
	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "a", Quantidade: dec("100"), ValorUnitario: dec("2")})
	require.NoError(t, err)

	store.SetSaldo(entity.SaldoInsumo{
		InsumoID: "a", ClienteID: "c1", EmpresaID: "e1",
		QuantidadeEntradasKg: decimal.NewFromInt(90),
		ValorEntradas:        decimal.NewFromInt(180),
		QuantidadeSaidasKg:   decimal.Zero,
	})

	m := &contadorMetricas{}
	conc := estoque.NewConciliacaoUseCase(store, store.Saldos(), store.Razao(), m, nil)

	out, err := conc.Executar(ctx, false)
	require.NoError(t, err)
	require.Len(t, out.Divergencias, 1)
	assert.Equal(t, "a", out.Divergencias[0].InsumoID)
	assert.Equal(t, "90", out.Divergencias[0].SaldoTabela.String())
	assert.Equal(t, "100", out.Divergencias[0].SaldoRazao.String())
	assert.False(t, out.Divergencias[0].Corrigida)
	assert.Equal(t, 1, m.divergencias)

	out, err = conc.Executar(ctx, true)
	require.NoError(t, err)
	require.Len(t, out.Divergencias, 1)
	assert.True(t, out.Divergencias[0].Corrigida)
	assert.True(t, saldo(t, store, "a").Equal(decimal.NewFromInt(100)))

	out, err = conc.Executar(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, out.Divergencias)
}

func TestConciliacao_ExecutarTenantIsolaOutrosTenants(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "a", "Milho")
	uc := novoUC(store, &contadorMetricas{})
	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "a", Quantidade: dec("10"), ValorUnitario: dec("1")})
	require.NoError(t, err)
	store.SetSaldo(entity.SaldoInsumo{
		InsumoID: "a", ClienteID: "c1", EmpresaID: "e1",
		QuantidadeEntradasKg: decimal.NewFromInt(7),
		ValorEntradas:        decimal.NewFromInt(7),
	})

	conc := estoque.NewConciliacaoUseCase(store, store.Saldos(), store.Razao(), nil, nil)

	outro, err := conc.ExecutarTenant(ctx, entity.Tenant{ClienteID: "c9", EmpresaID: "e9"}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, outro.InsumosVerificados)
	assert.Empty(t, outro.Divergencias)

	out, err := conc.ExecutarTenant(ctx, tenant, true)
	require.NoError(t, err)
	require.Len(t, out.Divergencias, 1)
	assert.True(t, saldo(t, store, "a").Equal(decimal.NewFromInt(10)))
}
