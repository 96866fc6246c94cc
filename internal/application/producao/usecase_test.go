package producao_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/internal/application/nutricao"
	"github.com/jhoicas/confinamento-api/internal/application/producao"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/memstore"
)

var tenant = entity.Tenant{ClienteID: "c1", EmpresaID: "e1"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type metricasFake struct {
	mu         sync.Mutex
	aprovadas  int
	rejeitadas map[string]int
	saidas     map[string]int
}

func (m *metricasFake) BatidaAprovada() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aprovadas++
}

func (m *metricasFake) BatidaRejeitada(motivo string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejeitadas == nil {
		m.rejeitadas = map[string]int{}
	}
	m.rejeitadas[motivo]++
}

func (m *metricasFake) SaidaLancada(origem string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saidas == nil {
		m.saidas = map[string]int{}
	}
	m.saidas[origem]++
}

func (m *metricasFake) Divergencias(int) {}

type fixture struct {
	store    *memstore.Store
	batidas  *producao.BatidaUseCase
	estoque  *estoque.LancamentoUseCase
	dietas   *nutricao.DietaUseCase
	pms      *nutricao.PreMisturaUseCase
	metricas *metricasFake
}

func novaFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	for id, nome := range map[string]string{"i-milho": "Milho", "i-soja": "Farelo de soja", "i-ureia": "Ureia", "i-sal": "Sal"} {
		require.NoError(t, store.Insumos().Create(context.Background(), &entity.Insumo{
			ID: id, ClienteID: "c1", EmpresaID: "e1", Nome: nome, Ativo: true,
		}))
	}
	store.AddVagao(tenant, "v1", "Vagão 01")
	m := &metricasFake{}
	return &fixture{
		store: store,
		batidas: producao.NewBatidaUseCase(producao.Deps{
			Tx:          store,
			Batidas:     store.Batidas(),
			Dietas:      store.Dietas(),
			PreMisturas: store.PreMisturas(),
			Insumos:     store.Insumos(),
			Saidas:      store.Saidas(),
			Metricas:    m,
		}),
		estoque:  estoque.NewLancamentoUseCase(store, store.Insumos(), store.Unidades(), store.Entradas(), store.Saidas(), m, nil),
		dietas:   nutricao.NewDietaUseCase(store, store.Dietas()),
		pms:      nutricao.NewPreMisturaUseCase(store, store.PreMisturas()),
		metricas: m,
	}
}

func (f *fixture) entrada(t *testing.T, insumoID, kg, preco string) {
	t.Helper()
	_, err := f.estoque.RegistrarEntrada(context.Background(), tenant, "u1", dto.CreateEntradaRequest{
		InsumoID: insumoID, Quantidade: dp(kg), ValorUnitario: dp(preco),
	})
	require.NoError(t, err)
}

func (f *fixture) saldo(t *testing.T, insumoID string) decimal.Decimal {
	t.Helper()
	s, err := f.store.Saldos().Get(context.Background(), tenant, insumoID)
	require.NoError(t, err)
	return s.QuantidadeEntradasKg.Sub(s.QuantidadeSaidasKg)
}

func (f *fixture) dieta(t *testing.T, nome string, ings ...dto.IngredienteRequest) string {
	t.Helper()
	out, err := f.dietas.Create(context.Background(), tenant, dto.DietaRequest{Nome: nome, Ingredientes: ings})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) batida(t *testing.T, dietaID, kg string) *dto.BatidaResponse {
	t.Helper()
	agora := time.Now()
	vagao := "v1"
	out, err := f.batidas.Create(context.Background(), tenant, dto.CreateBatidaRequest{
		VagaoID: &vagao, DietaID: dietaID, Quantidade: dp(kg), DataHora: &agora,
	})
	require.NoError(t, err)
	return out
}

func insumo(id, pct string) dto.IngredienteRequest {
	return dto.IngredienteRequest{InsumoID: &id, PercentualMistura: d(pct), PercentualMS: d("88"), ValorUnitarioKg: d("1")}
}

func TestCreate_CodigoEStatusInicial(t *testing.T) {
	f := novaFixture(t)
	dietaID := f.dieta(t, "Terminação", insumo("i-milho", "80"), insumo("i-soja", "20"))

	b := f.batida(t, dietaID, "1000")
	assert.Equal(t, entity.BatidaPreparando, b.Status)
	assert.Regexp(t, `^BAT-\d{8}-[0-9A-F]{6}$`, b.Codigo)
	assert.Equal(t, "Terminação", b.DietaNome)
	assert.Equal(t, "Vagão 01", b.VagaoNome)
	require.Len(t, b.Ingredientes, 2)
	assert.Equal(t, "800", b.Ingredientes[0].QuantidadeKg.String())
	assert.Equal(t, "200", b.Ingredientes[1].QuantidadeKg.String())
}

func TestCreate_CamposObrigatorios(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	agora := time.Now()

	_, err := f.batidas.Create(ctx, tenant, dto.CreateBatidaRequest{Quantidade: dp("10"), DataHora: &agora})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.batidas.Create(ctx, tenant, dto.CreateBatidaRequest{DietaID: "x", DataHora: &agora})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.batidas.Create(ctx, tenant, dto.CreateBatidaRequest{DietaID: "x", Quantidade: dp("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.batidas.Create(ctx, tenant, dto.CreateBatidaRequest{DietaID: "nao-existe", Quantidade: dp("10"), DataHora: &agora})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAprovar_SaldoExatoZeraInsumo(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "500", "2")
	dietaID := f.dieta(t, "Só milho", insumo("i-milho", "100"))
	b := f.batida(t, dietaID, "500")

	out, err := f.batidas.UpdateStatus(ctx, tenant, b.ID, "u1", dto.UpdateBatidaRequest{Status: entity.BatidaConcluida})
	require.NoError(t, err)
	assert.Equal(t, entity.BatidaConcluida, out.Status)
	require.NotNil(t, out.ConcluidaEm)
	require.Len(t, out.Saidas, 1)
	s := out.Saidas[0]
	assert.True(t, s.SaldoApos.IsZero())
	assert.Equal(t, "1000.00", s.ValorEstimado.StringFixed(2))
	require.NotNil(t, s.BatidaID)
	assert.Equal(t, b.ID, *s.BatidaID)
	assert.Equal(t, "Baixa automática da batida "+b.Codigo, s.Observacoes)

	assert.True(t, f.saldo(t, "i-milho").IsZero())
	assert.Equal(t, 1, f.metricas.aprovadas)
	assert.Equal(t, 1, f.metricas.saidas["batida"])
}

func TestAprovar_EstoqueInsuficienteNaoLancaNada(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	f.entrada(t, "i-soja", "199.99", "2")
	dietaID := f.dieta(t, "Terminação", insumo("i-milho", "80"), insumo("i-soja", "20"))
	b := f.batida(t, dietaID, "1000")

	_, err := f.batidas.UpdateStatus(ctx, tenant, b.ID, "u1", dto.UpdateBatidaRequest{Status: entity.BatidaConcluida})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Farelo de soja")
	assert.Contains(t, err.Error(), "199.99")
	assert.Contains(t, err.Error(), "200.00")

	got, err := f.batidas.GetByID(ctx, tenant, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatidaPreparando, got.Status)
	assert.Empty(t, got.Saidas)
	assert.True(t, f.saldo(t, "i-milho").Equal(d("1000")))
	assert.True(t, f.saldo(t, "i-soja").Equal(d("199.99")))
	assert.Equal(t, 1, f.metricas.rejeitadas["estoque_insuficiente"])
	assert.Zero(t, f.metricas.aprovadas)
}

func TestAprovar_ExpandePreMistura(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	f.entrada(t, "i-ureia", "100", "3")
	f.entrada(t, "i-sal", "100", "1")

	pm, err := f.pms.Create(ctx, tenant, dto.PreMisturaRequest{
		Nome:         "Núcleo",
		Ingredientes: []dto.IngredienteRequest{insumo("i-ureia", "40"), insumo("i-sal", "60")},
	})
	require.NoError(t, err)
	dietaID := f.dieta(t, "Com núcleo",
		insumo("i-milho", "90"),
		dto.IngredienteRequest{Tipo: entity.IngredientePreMistura, PreMisturaID: &pm.ID, PercentualMistura: d("10"), PercentualMS: d("98"), ValorUnitarioKg: d("1.8")},
	)
	b := f.batida(t, dietaID, "500")
	require.Len(t, b.Ingredientes, 3)

	require.NoError(t, f.batidas.Aprovar(ctx, tenant, b.ID, "u1"))
	assert.True(t, f.saldo(t, "i-milho").Equal(d("550")))
	assert.True(t, f.saldo(t, "i-ureia").Equal(d("80")))
	assert.True(t, f.saldo(t, "i-sal").Equal(d("70")))
}

func TestAprovar_QuantidadesNaEscalaDoRazao(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	f.entrada(t, "i-ureia", "100", "3")
	f.entrada(t, "i-sal", "100", "1")

	pm, err := f.pms.Create(ctx, tenant, dto.PreMisturaRequest{
		Nome:         "Núcleo",
		Ingredientes: []dto.IngredienteRequest{insumo("i-ureia", "33.333"), insumo("i-sal", "66.667")},
	})
	require.NoError(t, err)
	dietaID := f.dieta(t, "Fracionada",
		insumo("i-milho", "66.667"),
		dto.IngredienteRequest{Tipo: entity.IngredientePreMistura, PreMisturaID: &pm.ID, PercentualMistura: d("33.333"), PercentualMS: d("98"), ValorUnitarioKg: d("1.8")},
	)
	b := f.batida(t, dietaID, "0.777")
	for _, ing := range b.Ingredientes {
		assert.GreaterOrEqual(t, ing.QuantidadeKg.Exponent(), int32(-3), ing.Nome)
	}

	out, err := f.batidas.UpdateStatus(ctx, tenant, b.ID, "u1", dto.UpdateBatidaRequest{Status: entity.BatidaConcluida})
	require.NoError(t, err)
	require.Len(t, out.Saidas, 3)

	esperado := map[string][2]string{
		"i-milho": {"0.518", "999.482"},
		"i-ureia": {"0.086", "99.914"},
		"i-sal":   {"0.173", "99.827"},
	}
	for _, s := range out.Saidas {
		e, ok := esperado[s.InsumoID]
		require.True(t, ok, s.InsumoID)
		assert.Equal(t, e[0], s.Quantidade.String(), s.InsumoID)
		assert.Equal(t, e[1], s.SaldoApos.String(), s.InsumoID)
	}
	assert.Equal(t, "999.482", f.saldo(t, "i-milho").String())

	relida, err := f.batidas.GetByID(ctx, tenant, b.ID)
	require.NoError(t, err)
	require.Len(t, relida.Saidas, 3)
	for _, s := range relida.Saidas {
		assert.Equal(t, esperado[s.InsumoID][0], s.Quantidade.String(), s.InsumoID)
	}
}

func TestAprovar_PreMisturaInexistenteNaoBaixaNada(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	f.entrada(t, "i-ureia", "100", "3")
	f.entrada(t, "i-sal", "100", "1")

	pm, err := f.pms.Create(ctx, tenant, dto.PreMisturaRequest{
		Nome:         "Núcleo",
		Ingredientes: []dto.IngredienteRequest{insumo("i-ureia", "40"), insumo("i-sal", "60")},
	})
	require.NoError(t, err)
	dietaID := f.dieta(t, "Com núcleo",
		insumo("i-milho", "90"),
		dto.IngredienteRequest{Tipo: entity.IngredientePreMistura, PreMisturaID: &pm.ID, PercentualMistura: d("10"), PercentualMS: d("98"), ValorUnitarioKg: d("1.8")},
	)
	b := f.batida(t, dietaID, "500")
	require.NoError(t, f.store.PreMisturas().Delete(ctx, tenant, pm.ID))

	err = f.batidas.Aprovar(ctx, tenant, b.ID, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Não foi possível resolver os ingredientes")
	assert.True(t, f.saldo(t, "i-milho").Equal(d("1000")))
	assert.True(t, f.saldo(t, "i-ureia").Equal(d("100")))
	assert.Equal(t, 1, f.metricas.rejeitadas["sem_ingredientes"])
	assert.Zero(t, f.metricas.aprovadas)

	saidas, err := f.store.Saidas().ListByBatida(ctx, tenant, b.ID)
	require.NoError(t, err)
	assert.Empty(t, saidas)
}

func TestAprovar_IngredientesPersonalizados(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	f.entrada(t, "i-soja", "1000", "2")
	dietaID := f.dieta(t, "Terminação", insumo("i-milho", "80"), insumo("i-soja", "20"))

	agora := time.Now()
	milho, soja := "i-milho", "i-soja"
	b, err := f.batidas.Create(ctx, tenant, dto.CreateBatidaRequest{
		DietaID: dietaID, Quantidade: dp("1000"), DataHora: &agora,
		IngredientesPersonalizados: []dto.IngredientePersonalizadoDTO{
			{InsumoID: &milho, QuantidadeKg: d("700")},
			{InsumoID: &soja, QuantidadeKg: d("250")},
			{Nome: "Água", QuantidadeKg: d("50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Milho", b.IngredientesPersonalizados[0].Nome)

	require.NoError(t, f.batidas.Aprovar(ctx, tenant, b.ID, "u1"))
	assert.True(t, f.saldo(t, "i-milho").Equal(d("300")))
	assert.True(t, f.saldo(t, "i-soja").Equal(d("750")))
}

func TestAprovar_SemIngredientesResolviveis(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	dietaID := f.dieta(t, "Terminação", insumo("i-milho", "100"))

	agora := time.Now()
	b, err := f.batidas.Create(ctx, tenant, dto.CreateBatidaRequest{
		DietaID: dietaID, Quantidade: dp("100"), DataHora: &agora,
		IngredientesPersonalizados: []dto.IngredientePersonalizadoDTO{{Nome: "Água", QuantidadeKg: d("100")}},
	})
	require.NoError(t, err)

	err = f.batidas.Aprovar(ctx, tenant, b.ID, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, f.metricas.rejeitadas["sem_ingredientes"])
}

func TestTransicoes_EstadosTerminais(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	dietaID := f.dieta(t, "Só milho", insumo("i-milho", "100"))

	concluida := f.batida(t, dietaID, "100")
	require.NoError(t, f.batidas.Aprovar(ctx, tenant, concluida.ID, "u1"))
	assert.ErrorIs(t, f.batidas.Aprovar(ctx, tenant, concluida.ID, "u1"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, f.batidas.Cancelar(ctx, tenant, concluida.ID), domain.ErrInvalidTransition)
	assert.True(t, f.saldo(t, "i-milho").Equal(d("900")))

	cancelada := f.batida(t, dietaID, "100")
	require.NoError(t, f.batidas.Cancelar(ctx, tenant, cancelada.ID))
	assert.ErrorIs(t, f.batidas.Aprovar(ctx, tenant, cancelada.ID, "u1"), domain.ErrInvalidTransition)
	assert.True(t, f.saldo(t, "i-milho").Equal(d("900")))

	_, err := f.batidas.UpdateStatus(ctx, tenant, cancelada.ID, "u1", dto.UpdateBatidaRequest{Status: "PREPARANDO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, f.batidas.Aprovar(ctx, tenant, "nao-existe", "u1"), domain.ErrNotFound)
}

func TestDelete_SomentePreparando(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	dietaID := f.dieta(t, "Só milho", insumo("i-milho", "100"))

	concluida := f.batida(t, dietaID, "100")
	require.NoError(t, f.batidas.Aprovar(ctx, tenant, concluida.ID, "u1"))
	err := f.batidas.Delete(ctx, tenant, concluida.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, strings.Contains(err.Error(), "CONCLUIDA"))

	preparando := f.batida(t, dietaID, "100")
	require.NoError(t, f.batidas.Delete(ctx, tenant, preparando.ID))
	_, err = f.batidas.GetByID(ctx, tenant, preparando.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltroPorStatusEIdempotencia(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "1000", "1")
	dietaID := f.dieta(t, "Só milho", insumo("i-milho", "100"))
	a := f.batida(t, dietaID, "100")
	f.batida(t, dietaID, "200")
	require.NoError(t, f.batidas.Aprovar(ctx, tenant, a.ID, "u1"))

	todas, err := f.batidas.List(ctx, tenant, "")
	require.NoError(t, err)
	assert.Len(t, todas, 2)

	concluidas, err := f.batidas.List(ctx, tenant, "concluida")
	require.NoError(t, err)
	require.Len(t, concluidas, 1)
	assert.Equal(t, a.ID, concluidas[0].ID)

	_, err = f.batidas.List(ctx, tenant, "QUALQUER")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	denovo, err := f.batidas.List(ctx, tenant, "")
	require.NoError(t, err)
	assert.Equal(t, todas, denovo)
}

func TestAprovar_ConcorrenteNaoEstouraSaldo(t *testing.T) {
	f := novaFixture(t)
	ctx := context.Background()
	f.entrada(t, "i-milho", "100", "1")
	dietaID := f.dieta(t, "Só milho", insumo("i-milho", "100"))

	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, f.batida(t, dietaID, "60").ID)
	}

	var wg sync.WaitGroup
	erros := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			erros[i] = f.batidas.Aprovar(ctx, tenant, id, "u1")
		}(i, id)
	}
	wg.Wait()

	ok := 0
	for _, err := range erros {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 1, ok)
	assert.True(t, f.saldo(t, "i-milho").Equal(d("40")))
}
