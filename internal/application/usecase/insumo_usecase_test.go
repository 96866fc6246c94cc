package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/usecase"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/memstore"
)

var tenant = entity.Tenant{ClienteID: "c1", EmpresaID: "e1"}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func novoInsumoUC(store *memstore.Store) *usecase.InsumoUseCase {
	return usecase.NewInsumoUseCase(store.Insumos(), store.Unidades(), store.Saldos(), nil)
}

func TestInsumo_CreateEDerivados(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uc := novoInsumoUC(store)

	criado, err := uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "  Milho moído ", EstoqueMinimo: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, "Milho moído", criado.Nome)
	assert.True(t, criado.Ativo)
	assert.Equal(t, "ZERADO", criado.Status)

	store.SetSaldo(entity.SaldoInsumo{
		InsumoID: criado.ID, ClienteID: "c1", EmpresaID: "e1",
		QuantidadeEntradasKg: decimal.RequireFromString("150"),
		ValorEntradas:        decimal.RequireFromString("350"),
		QuantidadeSaidasKg:   decimal.RequireFromString("110"),
	})

	got, err := uc.GetByID(ctx, tenant, criado.ID)
	require.NoError(t, err)
	assert.Equal(t, "40", got.Saldo.String())
	assert.Equal(t, "2.3333", got.CustoMedio.StringFixed(4))
	assert.Equal(t, "93.33", got.ValorImobilizado.StringFixed(2))
	assert.Equal(t, "BAIXO", got.Status)
}

func TestInsumo_NomeDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := novoInsumoUC(memstore.New())

	_, err := uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Ureia"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "ureia"})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "ureia")

	// Outro tenant pode usar o mesmo nome.
	_, err = uc.Create(ctx, entity.Tenant{ClienteID: "c2", EmpresaID: "e2"}, dto.CreateInsumoRequest{Nome: "Ureia"})
	assert.NoError(t, err)
}

func TestInsumo_ValidacoesEUnidade(t *testing.T) {
	ctx := context.Background()
	uc := novoInsumoUC(memstore.New())

	_, err := uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Sal", EstoqueMinimo: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	unidade := "00000000-0000-0000-0000-000000000099"
	_, err = uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Sal", UnidadeMedidaID: &unidade})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInsumo_Update(t *testing.T) {
	ctx := context.Background()
	uc := novoInsumoUC(memstore.New())

	criado, err := uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Farelo de soja"})
	require.NoError(t, err)

	nome := "Farelo de soja 46%"
	inativo := false
	got, err := uc.Update(ctx, tenant, criado.ID, dto.UpdateInsumoRequest{Nome: &nome, Ativo: &inativo, EstoqueMinimo: dec("200")})
	require.NoError(t, err)
	assert.Equal(t, nome, got.Nome)
	assert.False(t, got.Ativo)
	assert.Equal(t, "200", got.EstoqueMinimo.String())

	_, err = uc.Update(ctx, tenant, "nao-existe", dto.UpdateInsumoRequest{Nome: &nome})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ativos, err := uc.List(ctx, tenant, true)
	require.NoError(t, err)
	assert.Empty(t, ativos)
	todos, err := uc.List(ctx, tenant, false)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestInsumo_DeleteComLancamentos(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uc := novoInsumoUC(store)

	criado, err := uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Núcleo mineral"})
	require.NoError(t, err)
	require.NoError(t, store.Entradas().Create(ctx, &entity.EntradaEstoque{
		ID: "en1", ClienteID: "c1", EmpresaID: "e1", InsumoID: criado.ID, Data: time.Now(),
		Quantidade: decimal.NewFromInt(10), FatorConversao: decimal.NewFromInt(1), QuantidadeKg: decimal.NewFromInt(10),
	}))

	err = uc.Delete(ctx, tenant, criado.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	livre, err := uc.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Calcário"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, tenant, livre.ID))
	_, err = uc.GetByID(ctx, tenant, livre.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnidadeMedida_CreateEDelete(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uc := usecase.NewUnidadeMedidaUseCase(store.Unidades())

	_, err := uc.Create(ctx, tenant, dto.CreateUnidadeMedidaRequest{Nome: "Saco 50", FatorConversao: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	saco, err := uc.Create(ctx, tenant, dto.CreateUnidadeMedidaRequest{Nome: "Saco 50", Sigla: "sc", FatorConversao: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, "50", saco.FatorConversao.String())

	_, err = uc.Create(ctx, tenant, dto.CreateUnidadeMedidaRequest{Nome: "saco 50", FatorConversao: dec("50")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	insumos := novoInsumoUC(store)
	_, err = insumos.Create(ctx, tenant, dto.CreateInsumoRequest{Nome: "Sal mineral", UnidadeMedidaID: &saco.ID})
	require.NoError(t, err)

	err = uc.Delete(ctx, tenant, saco.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, uc.Delete(ctx, tenant, "nao-existe"), domain.ErrNotFound)

	list, err := uc.List(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
