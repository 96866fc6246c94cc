package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var (
	_ repository.DietaRepository      = (*DietaRepo)(nil)
	_ repository.PreMisturaRepository = (*PreMisturaRepo)(nil)
)

// prepararLinhas gera IDs que faltam e preenche o nome de cada linha.
func prepararLinhas(st *state, ings []entity.IngredienteComposicao) []entity.IngredienteComposicao {
	out := copiarIngredientes(ings)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return nomearLinhas(st, out)
}

func nomearLinhas(st *state, ings []entity.IngredienteComposicao) []entity.IngredienteComposicao {
	out := copiarIngredientes(ings)
	for i := range out {
		switch {
		case out[i].InsumoID != nil:
			out[i].Nome = st.insumos[*out[i].InsumoID].Nome
		case out[i].PreMisturaID != nil:
			out[i].Nome = st.preMisturas[*out[i].PreMisturaID].Nome
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Ordem < out[b].Ordem })
	return out
}

// DietaRepo dietas em memória.
type DietaRepo struct{ base }

func dietaDuplicada(st *state, d *entity.Dieta) bool {
	for id, o := range st.dietas {
		if id != d.ID && o.ClienteID == d.ClienteID && o.EmpresaID == d.EmpresaID && strings.EqualFold(o.Nome, d.Nome) {
			return true
		}
	}
	return false
}

func (r *DietaRepo) Create(_ context.Context, d *entity.Dieta) error {
	return r.read(func(st *state) error {
		if dietaDuplicada(st, d) {
			return domain.ErrDuplicate
		}
		v := *d
		v.Ingredientes = prepararLinhas(st, d.Ingredientes)
		st.dietas[d.ID] = v
		st.registrar(d.ID)
		return nil
	})
}

func (r *DietaRepo) GetByID(_ context.Context, t entity.Tenant, id string) (*entity.Dieta, error) {
	var out *entity.Dieta
	err := r.read(func(st *state) error {
		if d, ok := st.dietas[id]; ok && doTenant(t, d.ClienteID, d.EmpresaID) {
			d.Ingredientes = nomearLinhas(st, d.Ingredientes)
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *DietaRepo) List(_ context.Context, t entity.Tenant) ([]*entity.Dieta, error) {
	var list []*entity.Dieta
	err := r.read(func(st *state) error {
		for _, d := range st.dietas {
			if doTenant(t, d.ClienteID, d.EmpresaID) {
				d := d
				d.Ingredientes = nomearLinhas(st, d.Ingredientes)
				list = append(list, &d)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nome < list[j].Nome })
	return list, err
}

func (r *DietaRepo) Update(_ context.Context, d *entity.Dieta) error {
	return r.read(func(st *state) error {
		atual, ok := st.dietas[d.ID]
		if !ok || !doTenant(entity.Tenant{ClienteID: d.ClienteID, EmpresaID: d.EmpresaID}, atual.ClienteID, atual.EmpresaID) {
			return domain.ErrNotFound
		}
		if dietaDuplicada(st, d) {
			return domain.ErrDuplicate
		}
		v := *d
		v.CriadoEm = atual.CriadoEm
		v.Ingredientes = prepararLinhas(st, d.Ingredientes)
		st.dietas[d.ID] = v
		return nil
	})
}

func (r *DietaRepo) Delete(_ context.Context, t entity.Tenant, id string) error {
	return r.read(func(st *state) error {
		if d, ok := st.dietas[id]; ok && doTenant(t, d.ClienteID, d.EmpresaID) {
			delete(st.dietas, id)
		}
		return nil
	})
}

func (r *DietaRepo) EmUsoPorBatidas(_ context.Context, t entity.Tenant, id string) (bool, error) {
	var usado bool
	err := r.read(func(st *state) error {
		for _, b := range st.batidas {
			if doTenant(t, b.ClienteID, b.EmpresaID) && b.DietaID == id {
				usado = true
				return nil
			}
		}
		return nil
	})
	return usado, err
}

// PreMisturaRepo pré-misturas em memória.
type PreMisturaRepo struct{ base }

func preMisturaDuplicada(st *state, p *entity.PreMistura) bool {
	for id, o := range st.preMisturas {
		if id != p.ID && o.ClienteID == p.ClienteID && o.EmpresaID == p.EmpresaID && strings.EqualFold(o.Nome, p.Nome) {
			return true
		}
	}
	return false
}

func (r *PreMisturaRepo) Create(_ context.Context, p *entity.PreMistura) error {
	return r.read(func(st *state) error {
		if preMisturaDuplicada(st, p) {
			return domain.ErrDuplicate
		}
		v := *p
		v.Ingredientes = prepararLinhas(st, p.Ingredientes)
		st.preMisturas[p.ID] = v
		st.registrar(p.ID)
		return nil
	})
}

func (r *PreMisturaRepo) GetByID(_ context.Context, t entity.Tenant, id string) (*entity.PreMistura, error) {
	var out *entity.PreMistura
	err := r.read(func(st *state) error {
		if p, ok := st.preMisturas[id]; ok && doTenant(t, p.ClienteID, p.EmpresaID) {
			p.Ingredientes = nomearLinhas(st, p.Ingredientes)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PreMisturaRepo) List(_ context.Context, t entity.Tenant) ([]*entity.PreMistura, error) {
	var list []*entity.PreMistura
	err := r.read(func(st *state) error {
		for _, p := range st.preMisturas {
			if doTenant(t, p.ClienteID, p.EmpresaID) {
				p := p
				p.Ingredientes = nomearLinhas(st, p.Ingredientes)
				list = append(list, &p)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nome < list[j].Nome })
	return list, err
}

func (r *PreMisturaRepo) Update(_ context.Context, p *entity.PreMistura) error {
	return r.read(func(st *state) error {
		atual, ok := st.preMisturas[p.ID]
		if !ok || !doTenant(entity.Tenant{ClienteID: p.ClienteID, EmpresaID: p.EmpresaID}, atual.ClienteID, atual.EmpresaID) {
			return domain.ErrNotFound
		}
		if preMisturaDuplicada(st, p) {
			return domain.ErrDuplicate
		}
		v := *p
		v.CriadoEm = atual.CriadoEm
		v.Ingredientes = prepararLinhas(st, p.Ingredientes)
		st.preMisturas[p.ID] = v
		return nil
	})
}

func (r *PreMisturaRepo) Delete(_ context.Context, t entity.Tenant, id string) error {
	return r.read(func(st *state) error {
		if p, ok := st.preMisturas[id]; ok && doTenant(t, p.ClienteID, p.EmpresaID) {
			delete(st.preMisturas, id)
		}
		return nil
	})
}

func (r *PreMisturaRepo) EmUsoPorDietas(_ context.Context, t entity.Tenant, id string) (bool, error) {
	var usado bool
	err := r.read(func(st *state) error {
		for _, d := range st.dietas {
			if !doTenant(t, d.ClienteID, d.EmpresaID) {
				continue
			}
			for _, ing := range d.Ingredientes {
				if ing.PreMisturaID != nil && *ing.PreMisturaID == id {
					usado = true
					return nil
				}
			}
		}
		return nil
	})
	return usado, err
}
