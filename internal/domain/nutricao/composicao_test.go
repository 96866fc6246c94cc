package nutricao_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/nutricao"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func insumo(id, pct, ms, custo string) entity.IngredienteComposicao {
	return entity.IngredienteComposicao{
		Tipo:              entity.IngredienteInsumo,
		InsumoID:          &id,
		PercentualMistura: d(pct),
		PercentualMS:      d(ms),
		ValorUnitarioKg:   d(custo),
	}
}

func TestValidarDieta_Soma100(t *testing.T) {
	ok := []entity.IngredienteComposicao{
		insumo("milho", "60", "88", "1.20"),
		insumo("silagem", "39.995", "35", "0.25"),
	}
	assert.NoError(t, nutricao.ValidarDieta(ok))

	ruim := []entity.IngredienteComposicao{
		insumo("milho", "60", "88", "1.20"),
		insumo("silagem", "39.98", "35", "0.25"),
	}
	err := nutricao.ValidarDieta(ruim)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "99.98")
}

func TestValidarDieta_Vazia(t *testing.T) {
	assert.ErrorIs(t, nutricao.ValidarDieta(nil), domain.ErrInvalidInput)
}

func TestValidarDieta_AceitaPreMistura(t *testing.T) {
	pm := "nucleo"
	ings := []entity.IngredienteComposicao{
		insumo("milho", "90", "88", "1.20"),
		{Tipo: entity.IngredientePreMistura, PreMisturaID: &pm, PercentualMistura: d("10"), PercentualMS: d("95"), ValorUnitarioKg: d("3")},
	}
	assert.NoError(t, nutricao.ValidarDieta(ings))
}

func TestValidarPreMistura_QuantidadeDeIngredientes(t *testing.T) {
	um := []entity.IngredienteComposicao{insumo("a", "100", "90", "1")}
	assert.ErrorIs(t, nutricao.ValidarPreMistura(um), domain.ErrInvalidInput)

	dois := []entity.IngredienteComposicao{insumo("a", "50", "90", "1"), insumo("b", "50", "90", "1")}
	assert.NoError(t, nutricao.ValidarPreMistura(dois))

	quatro := []entity.IngredienteComposicao{
		insumo("a", "25", "90", "1"), insumo("b", "25", "90", "1"),
		insumo("c", "25", "90", "1"), insumo("d", "25", "90", "1"),
	}
	assert.NoError(t, nutricao.ValidarPreMistura(quatro))

	cinco := append(quatro, insumo("e", "0.01", "90", "1"))
	assert.ErrorIs(t, nutricao.ValidarPreMistura(cinco), domain.ErrInvalidInput)
}

func TestValidarPreMistura_RejeitaPreMisturaAninhada(t *testing.T) {
	pm := "outra"
	ings := []entity.IngredienteComposicao{
		insumo("a", "50", "90", "1"),
		{Tipo: entity.IngredientePreMistura, PreMisturaID: &pm, PercentualMistura: d("50")},
	}
	assert.ErrorIs(t, nutricao.ValidarPreMistura(ings), domain.ErrInvalidInput)
}

func TestCalcular(t *testing.T) {
	ings := []entity.IngredienteComposicao{
		insumo("milho", "60", "88", "1.20"),
		insumo("silagem", "40", "35", "0.25"),
	}
	r := nutricao.Calcular(ings)
	// ms = (60×88 + 40×35)/100 = 66.8 ; mn = (60×1.2 + 40×0.25)/100 = 0.82 ; ms_custo = 0.82/0.668
	assert.Equal(t, "66.80", r.MSMedia.StringFixed(2))
	assert.Equal(t, "0.82", r.CustoMN.StringFixed(2))
	assert.Equal(t, "1.23", r.CustoMS.StringFixed(2))
}

func TestCalcular_SemMateriaSeca(t *testing.T) {
	r := nutricao.Calcular([]entity.IngredienteComposicao{insumo("agua", "100", "0", "0.01")})
	assert.True(t, r.MSMedia.IsZero())
	assert.True(t, r.CustoMS.IsZero())
	assert.Equal(t, "0.01", r.CustoMN.StringFixed(2))
}

func TestNormalizar_Ordem(t *testing.T) {
	out := nutricao.Normalizar([]entity.IngredienteComposicao{insumo("a", "50", "1", "1"), insumo("b", "50", "1", "1")})
	assert.Equal(t, 1, out[0].Ordem)
	assert.Equal(t, 2, out[1].Ordem)
}
