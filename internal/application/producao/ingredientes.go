package producao

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	avaliacao "github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var cem = decimal.NewFromInt(100)

// ingrediente é uma linha resolvida da batida: insumo bruto (ou item sem insumo) e quantidade em kg,
// já na escala do razão.
type ingrediente struct {
	InsumoID   *string
	Nome       string
	Percentual decimal.Decimal
	Quantidade decimal.Decimal
}

// resolvedor expande a composição de uma batida, guardando dietas e pré-misturas já lidas.
type resolvedor struct {
	dietas      repository.DietaRepository
	preMisturas repository.PreMisturaRepository
	cacheDietas map[string]*entity.Dieta
	cachePMs    map[string]*entity.PreMistura
}

func novoResolvedor(dietas repository.DietaRepository, preMisturas repository.PreMisturaRepository) *resolvedor {
	return &resolvedor{
		dietas:      dietas,
		preMisturas: preMisturas,
		cacheDietas: map[string]*entity.Dieta{},
		cachePMs:    map[string]*entity.PreMistura{},
	}
}

// resolver devolve os ingredientes da batida. A lista personalizada, quando existe, substitui a
// dieta. Linhas de pré-mistura viram os insumos que a compõem.
func (r *resolvedor) resolver(ctx context.Context, t entity.Tenant, b *entity.Batida) ([]ingrediente, error) {
	if b.TemPersonalizacao() {
		out := make([]ingrediente, 0, len(b.IngredientesPersonalizados))
		for _, p := range b.IngredientesPersonalizados {
			pct := decimal.Zero
			if b.Quantidade.IsPositive() {
				pct = p.QuantidadeKg.Mul(cem).Div(b.Quantidade).Round(2)
			}
			out = append(out, ingrediente{InsumoID: p.InsumoID, Nome: p.Nome, Percentual: pct, Quantidade: avaliacao.ArredondarKg(p.QuantidadeKg)})
		}
		return out, nil
	}

	d, err := r.dieta(ctx, t, b.DietaID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewValidationError("Dieta da batida %s não encontrada", b.Codigo)
	}
	var out []ingrediente
	for _, ing := range d.Ingredientes {
		requerido := b.Quantidade.Mul(ing.PercentualMistura).Div(cem)
		switch {
		case ing.Tipo == entity.IngredientePreMistura && ing.PreMisturaID != nil:
			pm, err := r.preMistura(ctx, t, *ing.PreMisturaID)
			if err != nil {
				return nil, err
			}
			if pm == nil {
				return nil, domain.NewValidationError("Não foi possível resolver os ingredientes da batida %s: pré-mistura %s não encontrada", b.Codigo, *ing.PreMisturaID)
			}
			for _, sub := range pm.Ingredientes {
				out = append(out, ingrediente{
					InsumoID:   sub.InsumoID,
					Nome:       sub.Nome,
					Percentual: ing.PercentualMistura.Mul(sub.PercentualMistura).Div(cem).Round(3),
					Quantidade: avaliacao.ArredondarKg(requerido.Mul(sub.PercentualMistura).Div(cem)),
				})
			}
		default:
			out = append(out, ingrediente{
				InsumoID:   ing.InsumoID,
				Nome:       ing.Nome,
				Percentual: ing.PercentualMistura,
				Quantidade: avaliacao.ArredondarKg(requerido),
			})
		}
	}
	return out, nil
}

func (r *resolvedor) dieta(ctx context.Context, t entity.Tenant, id string) (*entity.Dieta, error) {
	if d, ok := r.cacheDietas[id]; ok {
		return d, nil
	}
	d, err := r.dietas.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	r.cacheDietas[id] = d
	return d, nil
}

func (r *resolvedor) preMistura(ctx context.Context, t entity.Tenant, id string) (*entity.PreMistura, error) {
	if p, ok := r.cachePMs[id]; ok {
		return p, nil
	}
	p, err := r.preMisturas.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	r.cachePMs[id] = p
	return p, nil
}
