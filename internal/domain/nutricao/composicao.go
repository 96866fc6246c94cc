// Package nutricao valida composições de dietas e pré-misturas e calcula seus campos derivados
// (matéria seca média, custo na matéria natural e custo na matéria seca).
package nutricao

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

var (
	cem        = decimal.NewFromInt(100)
	tolerancia = decimal.RequireFromString("0.01")
)

// Limites de ingredientes de uma pré-mistura.
const (
	MinIngredientesPreMistura = 2
	MaxIngredientesPreMistura = 4
)

// Resultado traz os campos derivados de uma composição, arredondados a 2 casas.
type Resultado struct {
	MSMedia decimal.Decimal
	CustoMN decimal.Decimal
	CustoMS decimal.Decimal
}

// SomaPercentuais soma percentual_mistura de todas as linhas.
func SomaPercentuais(ingredientes []entity.IngredienteComposicao) decimal.Decimal {
	soma := decimal.Zero
	for _, ing := range ingredientes {
		soma = soma.Add(ing.PercentualMistura)
	}
	return soma
}

// ValidarDieta exige ao menos um ingrediente, linhas bem formadas e soma de 100% (±0,01).
func ValidarDieta(ingredientes []entity.IngredienteComposicao) error {
	if len(ingredientes) == 0 {
		return domain.NewValidationError("A dieta deve ter ao menos um ingrediente")
	}
	for i, ing := range ingredientes {
		if err := validarLinha(i, ing, true); err != nil {
			return err
		}
	}
	return validarSoma(ingredientes)
}

// ValidarPreMistura exige de 2 a 4 insumos e soma de 100% (±0,01).
func ValidarPreMistura(ingredientes []entity.IngredienteComposicao) error {
	n := len(ingredientes)
	if n < MinIngredientesPreMistura || n > MaxIngredientesPreMistura {
		return domain.NewValidationError("A pré-mistura deve ter entre %d e %d ingredientes (informados: %d)",
			MinIngredientesPreMistura, MaxIngredientesPreMistura, n)
	}
	for i, ing := range ingredientes {
		if err := validarLinha(i, ing, false); err != nil {
			return err
		}
	}
	return validarSoma(ingredientes)
}

func validarLinha(i int, ing entity.IngredienteComposicao, aceitaPreMistura bool) error {
	switch ing.Tipo {
	case entity.IngredienteInsumo:
		if ing.InsumoID == nil || *ing.InsumoID == "" {
			return domain.NewValidationError("Ingrediente %d: insumo não informado", i+1)
		}
	case entity.IngredientePreMistura:
		if !aceitaPreMistura {
			return domain.NewValidationError("Ingrediente %d: pré-misturas aceitam apenas insumos", i+1)
		}
		if ing.PreMisturaID == nil || *ing.PreMisturaID == "" {
			return domain.NewValidationError("Ingrediente %d: pré-mistura não informada", i+1)
		}
	default:
		return domain.NewValidationError("Ingrediente %d: tipo inválido %q", i+1, ing.Tipo)
	}
	if ing.PercentualMistura.LessThanOrEqual(decimal.Zero) || ing.PercentualMistura.GreaterThan(cem) {
		return domain.NewValidationError("Ingrediente %d: percentual de mistura deve estar entre 0 e 100", i+1)
	}
	if ing.PercentualMS.LessThan(decimal.Zero) || ing.PercentualMS.GreaterThan(cem) {
		return domain.NewValidationError("Ingrediente %d: percentual de MS deve estar entre 0 e 100", i+1)
	}
	if ing.ValorUnitarioKg.LessThan(decimal.Zero) {
		return domain.NewValidationError("Ingrediente %d: valor unitário não pode ser negativo", i+1)
	}
	return nil
}

func validarSoma(ingredientes []entity.IngredienteComposicao) error {
	soma := SomaPercentuais(ingredientes)
	if soma.Sub(cem).Abs().GreaterThan(tolerancia) {
		return domain.NewValidationError("A soma dos percentuais de mistura deve ser 100%% (atual: %s%%)", soma.StringFixed(2))
	}
	return nil
}

// Calcular devolve ms_media, custo_mn e custo_ms.
// ms_media = Σ(pct × ms)/100; custo_mn = Σ(pct × custo)/100; custo_ms = custo_mn / (ms_media/100).
func Calcular(ingredientes []entity.IngredienteComposicao) Resultado {
	msMedia := decimal.Zero
	custoMN := decimal.Zero
	for _, ing := range ingredientes {
		msMedia = msMedia.Add(ing.PercentualMistura.Mul(ing.PercentualMS))
		custoMN = custoMN.Add(ing.PercentualMistura.Mul(ing.ValorUnitarioKg))
	}
	msMedia = msMedia.Div(cem)
	custoMN = custoMN.Div(cem)

	custoMS := decimal.Zero
	if msMedia.GreaterThan(decimal.Zero) {
		custoMS = custoMN.Div(msMedia.Div(cem))
	}
	return Resultado{
		MSMedia: msMedia.Round(2),
		CustoMN: custoMN.Round(2),
		CustoMS: custoMS.Round(2),
	}
}

// Normalizar ajusta a ordem das linhas para a posição em que foram enviadas.
func Normalizar(ingredientes []entity.IngredienteComposicao) []entity.IngredienteComposicao {
	out := make([]entity.IngredienteComposicao, len(ingredientes))
	for i, ing := range ingredientes {
		ing.Ordem = i + 1
		out[i] = ing
	}
	return out
}
