package estoque_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/memstore"
)

var tenant = entity.Tenant{ClienteID: "c1", EmpresaID: "e1"}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

type contadorMetricas struct {
	saidas       map[string]int
	divergencias int
}

func (m *contadorMetricas) BatidaAprovada()        {}
func (m *contadorMetricas) BatidaRejeitada(string) {}
func (m *contadorMetricas) SaidaLancada(origem string) {
	if m.saidas == nil {
		m.saidas = map[string]int{}
	}
	m.saidas[origem]++
}
func (m *contadorMetricas) Divergencias(n int) { m.divergencias = n }

func novoInsumo(t *testing.T, store *memstore.Store, id, nome string) {
	t.Helper()
	require.NoError(t, store.Insumos().Create(context.Background(), &entity.Insumo{
		ID: id, ClienteID: tenant.ClienteID, EmpresaID: tenant.EmpresaID, Nome: nome, Ativo: true,
	}))
}

func novoUC(store *memstore.Store, m *contadorMetricas) *estoque.LancamentoUseCase {
	return estoque.NewLancamentoUseCase(store, store.Insumos(), store.Unidades(), store.Entradas(), store.Saidas(), m, nil)
}

func saldo(t *testing.T, store *memstore.Store, id string) decimal.Decimal {
	t.Helper()
	s, err := store.Saldos().Get(context.Background(), tenant, id)
	require.NoError(t, err)
	return s.QuantidadeEntradasKg.Sub(s.QuantidadeSaidasKg)
}

func TestRegistrarEntrada_ConverteUnidade(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "i-milho", "Milho")
	require.NoError(t, store.Unidades().Create(ctx, &entity.UnidadeMedida{
		ID: "u-saco", ClienteID: "c1", EmpresaID: "e1", Nome: "Saco 60", FatorConversao: decimal.NewFromInt(60),
	}))
	uc := novoUC(store, &contadorMetricas{})

	unidade := "u-saco"
	out, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{
		InsumoID: "i-milho", UnidadeMedidaID: &unidade, Quantidade: dec("10"), ValorUnitario: dec("72.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "600", out.QuantidadeKg.String())
	assert.Equal(t, "725.00", out.ValorTotal.StringFixed(2))
	assert.True(t, saldo(t, store, "i-milho").Equal(decimal.NewFromInt(600)))

	s, err := store.Saldos().Get(ctx, tenant, "i-milho")
	require.NoError(t, err)
	assert.Equal(t, "725", s.ValorEntradas.String())
}

func TestLancamentos_ArredondaNaEscalaDoRazao(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "i-sal", "Sal")
	require.NoError(t, store.Unidades().Create(ctx, &entity.UnidadeMedida{
		ID: "u-terco", ClienteID: "c1", EmpresaID: "e1", Nome: "Terço", FatorConversao: decimal.RequireFromString("0.333333"),
	}))
	uc := novoUC(store, &contadorMetricas{})

	unidade := "u-terco"
	entrada, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{
		InsumoID: "i-sal", UnidadeMedidaID: &unidade, Quantidade: dec("7"), ValorUnitario: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2.333", entrada.QuantidadeKg.String())
	assert.Equal(t, "2.333", saldo(t, store, "i-sal").String())

	saida, err := uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "i-sal", Quantidade: dec("1.23456")})
	require.NoError(t, err)
	assert.Equal(t, "1.235", saida.Quantidade.String())
	assert.Equal(t, "1.098", saida.SaldoApos.String())
	assert.Equal(t, "1.098", saldo(t, store, "i-sal").String())

	_, err = uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "i-sal", Quantidade: dec("0.0004")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrarEntrada_Validacoes(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "i-milho", "Milho")
	uc := novoUC(store, &contadorMetricas{})

	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-milho", Quantidade: dec("0"), ValorUnitario: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-milho", Quantidade: dec("1"), ValorUnitario: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "outro", Quantidade: dec("1"), ValorUnitario: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Insumo de outro tenant não é visível.
	_, err = uc.RegistrarEntrada(ctx, entity.Tenant{ClienteID: "c2", EmpresaID: "e2"}, "u1",
		dto.CreateEntradaRequest{InsumoID: "i-milho", Quantidade: dec("1"), ValorUnitario: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrarSaida_CustoMedioESaldoApos(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "i-milho", "Milho")
	m := &contadorMetricas{}
	uc := novoUC(store, m)

	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-milho", Quantidade: dec("100"), ValorUnitario: dec("2")})
	require.NoError(t, err)
	_, err = uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-milho", Quantidade: dec("50"), ValorUnitario: dec("3")})
	require.NoError(t, err)

	out, err := uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "i-milho", Quantidade: dec("30")})
	require.NoError(t, err)
	assert.Nil(t, out.BatidaID)
	assert.Equal(t, "120", out.SaldoApos.String())
	assert.Equal(t, "70.00", out.ValorEstimado.StringFixed(2))
	assert.Equal(t, 1, m.saidas["manual"])
}

func TestRegistrarSaida_EstoqueInsuficiente(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "i-milho", "Milho")
	m := &contadorMetricas{}
	uc := novoUC(store, m)

	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-milho", Quantidade: dec("10"), ValorUnitario: dec("1")})
	require.NoError(t, err)

	_, err = uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "i-milho", Quantidade: dec("10.5")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ins *domain.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, "Milho", ins.Insumo)
	assert.True(t, ins.Disponivel.Equal(decimal.NewFromInt(10)))

	assert.True(t, saldo(t, store, "i-milho").Equal(decimal.NewFromInt(10)))
	saidas, err := uc.ListSaidas(ctx, tenant, dto.LancamentosQuery{})
	require.NoError(t, err)
	assert.Empty(t, saidas)
	assert.Zero(t, m.saidas["manual"])

	// Saldo exato é permitido e zera o insumo.
	_, err = uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "i-milho", Quantidade: dec("10")})
	require.NoError(t, err)
	assert.True(t, saldo(t, store, "i-milho").IsZero())
}

func TestExcluirEntrada_NaoNegativa(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "i-soja", "Farelo de soja")
	uc := novoUC(store, &contadorMetricas{})

	e1, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-soja", Quantidade: dec("100"), ValorUnitario: dec("2")})
	require.NoError(t, err)
	e2, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "i-soja", Quantidade: dec("40"), ValorUnitario: dec("2")})
	require.NoError(t, err)
	_, err = uc.RegistrarSaida(ctx, tenant, "u1", dto.CreateSaidaRequest{InsumoID: "i-soja", Quantidade: dec("80")})
	require.NoError(t, err)

	err = uc.ExcluirEntrada(ctx, tenant, e1.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, saldo(t, store, "i-soja").Equal(decimal.NewFromInt(60)))

	require.NoError(t, uc.ExcluirEntrada(ctx, tenant, e2.ID))
	assert.True(t, saldo(t, store, "i-soja").Equal(decimal.NewFromInt(20)))

	assert.ErrorIs(t, uc.ExcluirEntrada(ctx, tenant, e2.ID), domain.ErrNotFound)
}

func TestLancarBaixa_TudoOuNada(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "a", "Milho")
	novoInsumo(t, store, "b", "Ureia")
	uc := novoUC(store, &contadorMetricas{})
	_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "a", Quantidade: dec("100"), ValorUnitario: dec("1")})
	require.NoError(t, err)
	_, err = uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: "b", Quantidade: dec("5"), ValorUnitario: dec("4")})
	require.NoError(t, err)

	err = store.Run(ctx, func(repos repository.TxRepos) error {
		_, err := estoque.LancarBaixa(ctx, repos, estoque.Baixa{
			Tenant:   tenant,
			DataHora: time.Now(),
			Itens: []estoque.ItemBaixa{
				{InsumoID: "a", Quantidade: decimal.NewFromInt(50)},
				{InsumoID: "b", Quantidade: decimal.NewFromInt(3)},
				{InsumoID: "b", Quantidade: decimal.NewFromInt(3)},
			},
		})
		return err
	})
	var ins *domain.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, "Ureia", ins.Insumo)
	assert.True(t, ins.Necessario.Equal(decimal.NewFromInt(6)))

	assert.True(t, saldo(t, store, "a").Equal(decimal.NewFromInt(100)))
	assert.True(t, saldo(t, store, "b").Equal(decimal.NewFromInt(5)))
}

func TestListEntradas_FiltroPorInsumo(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	novoInsumo(t, store, "a", "Milho")
	novoInsumo(t, store, "b", "Ureia")
	uc := novoUC(store, &contadorMetricas{})
	for _, id := range []string{"a", "a", "b"} {
		_, err := uc.RegistrarEntrada(ctx, tenant, "u1", dto.CreateEntradaRequest{InsumoID: id, Quantidade: dec("1"), ValorUnitario: dec("1")})
		require.NoError(t, err)
	}

	todas, err := uc.ListEntradas(ctx, tenant, dto.LancamentosQuery{})
	require.NoError(t, err)
	assert.Len(t, todas, 3)

	soA, err := uc.ListEntradas(ctx, tenant, dto.LancamentosQuery{InsumoID: "a"})
	require.NoError(t, err)
	assert.Len(t, soA, 2)

	pagina, err := uc.ListEntradas(ctx, tenant, dto.LancamentosQuery{PageRequest: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Len(t, pagina, 1)
}
