package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var (
	_ repository.UsuarioRepository       = (*UsuarioRepo)(nil)
	_ repository.UnidadeMedidaRepository = (*UnidadeMedidaRepo)(nil)
	_ repository.InsumoRepository        = (*InsumoRepo)(nil)
)

// UsuarioRepo usuários em memória.
type UsuarioRepo struct{ base }

func (r *UsuarioRepo) FindByEmail(_ context.Context, email string) (*entity.Usuario, error) {
	var out *entity.Usuario
	err := r.read(func(st *state) error {
		for _, u := range st.usuarios {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// UnidadeMedidaRepo unidades de medida em memória.
type UnidadeMedidaRepo struct{ base }

func (r *UnidadeMedidaRepo) Create(_ context.Context, u *entity.UnidadeMedida) error {
	return r.read(func(st *state) error {
		for _, o := range st.unidades {
			if doTenant(entity.Tenant{ClienteID: u.ClienteID, EmpresaID: u.EmpresaID}, o.ClienteID, o.EmpresaID) &&
				strings.EqualFold(o.Nome, u.Nome) {
				return domain.ErrDuplicate
			}
		}
		st.unidades[u.ID] = *u
		st.registrar(u.ID)
		return nil
	})
}

func (r *UnidadeMedidaRepo) GetByID(_ context.Context, t entity.Tenant, id string) (*entity.UnidadeMedida, error) {
	var out *entity.UnidadeMedida
	err := r.read(func(st *state) error {
		if u, ok := st.unidades[id]; ok && doTenant(t, u.ClienteID, u.EmpresaID) {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UnidadeMedidaRepo) List(_ context.Context, t entity.Tenant) ([]*entity.UnidadeMedida, error) {
	var list []*entity.UnidadeMedida
	err := r.read(func(st *state) error {
		for _, u := range st.unidades {
			if doTenant(t, u.ClienteID, u.EmpresaID) {
				u := u
				list = append(list, &u)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nome < list[j].Nome })
	return list, err
}

func (r *UnidadeMedidaRepo) Delete(_ context.Context, t entity.Tenant, id string) error {
	return r.read(func(st *state) error {
		if u, ok := st.unidades[id]; ok && doTenant(t, u.ClienteID, u.EmpresaID) {
			delete(st.unidades, id)
		}
		return nil
	})
}

func (r *UnidadeMedidaRepo) EmUso(_ context.Context, t entity.Tenant, id string) (bool, error) {
	emUso := false
	err := r.read(func(st *state) error {
		for _, i := range st.insumos {
			if doTenant(t, i.ClienteID, i.EmpresaID) && i.UnidadeMedidaID != nil && *i.UnidadeMedidaID == id {
				emUso = true
				return nil
			}
		}
		for _, e := range st.entradas {
			if doTenant(t, e.ClienteID, e.EmpresaID) && e.UnidadeMedidaID != nil && *e.UnidadeMedidaID == id {
				emUso = true
				return nil
			}
		}
		return nil
	})
	return emUso, err
}

// InsumoRepo insumos em memória.
type InsumoRepo struct{ base }

func (r *InsumoRepo) Create(_ context.Context, i *entity.Insumo) error {
	return r.read(func(st *state) error {
		if nomeEmUso(st, i) {
			return domain.ErrDuplicate
		}
		st.insumos[i.ID] = *i
		st.registrar(i.ID)
		return nil
	})
}

func nomeEmUso(st *state, i *entity.Insumo) bool {
	for _, o := range st.insumos {
		if o.ID != i.ID && o.ClienteID == i.ClienteID && o.EmpresaID == i.EmpresaID && strings.EqualFold(o.Nome, i.Nome) {
			return true
		}
	}
	return false
}

func (r *InsumoRepo) GetByID(_ context.Context, t entity.Tenant, id string) (*entity.Insumo, error) {
	var out *entity.Insumo
	err := r.read(func(st *state) error {
		if i, ok := st.insumos[id]; ok && doTenant(t, i.ClienteID, i.EmpresaID) {
			out = &i
		}
		return nil
	})
	return out, err
}

func (r *InsumoRepo) List(_ context.Context, t entity.Tenant, somenteAtivos bool) ([]*entity.Insumo, error) {
	var list []*entity.Insumo
	err := r.read(func(st *state) error {
		for _, i := range st.insumos {
			if !doTenant(t, i.ClienteID, i.EmpresaID) || (somenteAtivos && !i.Ativo) {
				continue
			}
			i := i
			list = append(list, &i)
		}
		return nil
	})
	sort.Slice(list, func(a, b int) bool { return list[a].Nome < list[b].Nome })
	return list, err
}

func (r *InsumoRepo) Update(_ context.Context, i *entity.Insumo) error {
	return r.read(func(st *state) error {
		cur, ok := st.insumos[i.ID]
		if !ok || cur.ClienteID != i.ClienteID || cur.EmpresaID != i.EmpresaID {
			return domain.ErrNotFound
		}
		if nomeEmUso(st, i) {
			return domain.ErrDuplicate
		}
		st.insumos[i.ID] = *i
		return nil
	})
}

func (r *InsumoRepo) Delete(_ context.Context, t entity.Tenant, id string) error {
	return r.read(func(st *state) error {
		if i, ok := st.insumos[id]; ok && doTenant(t, i.ClienteID, i.EmpresaID) {
			delete(st.insumos, id)
			delete(st.saldos, id)
		}
		return nil
	})
}

func (r *InsumoRepo) TemLancamentos(_ context.Context, t entity.Tenant, id string) (bool, error) {
	tem := false
	err := r.read(func(st *state) error {
		for _, e := range st.entradas {
			if e.InsumoID == id && doTenant(t, e.ClienteID, e.EmpresaID) {
				tem = true
				return nil
			}
		}
		for _, s := range st.saidas {
			if s.InsumoID == id && doTenant(t, s.ClienteID, s.EmpresaID) {
				tem = true
				return nil
			}
		}
		return nil
	})
	return tem, err
}

func (r *InsumoRepo) EmComposicao(_ context.Context, t entity.Tenant, id string) (bool, error) {
	usa := func(ings []entity.IngredienteComposicao) bool {
		for _, ing := range ings {
			if ing.InsumoID != nil && *ing.InsumoID == id {
				return true
			}
		}
		return false
	}
	em := false
	err := r.read(func(st *state) error {
		for _, d := range st.dietas {
			if doTenant(t, d.ClienteID, d.EmpresaID) && usa(d.Ingredientes) {
				em = true
				return nil
			}
		}
		for _, p := range st.preMisturas {
			if doTenant(t, p.ClienteID, p.EmpresaID) && usa(p.Ingredientes) {
				em = true
				return nil
			}
		}
		return nil
	})
	return em, err
}
