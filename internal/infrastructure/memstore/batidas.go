package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var _ repository.BatidaRepository = (*BatidaRepo)(nil)

// BatidaRepo batidas em memória.
type BatidaRepo struct{ base }

func (r *BatidaRepo) Create(_ context.Context, b *entity.Batida) error {
	return r.read(func(st *state) error {
		for _, o := range st.batidas {
			if o.ClienteID == b.ClienteID && o.EmpresaID == b.EmpresaID && o.Codigo == b.Codigo {
				return domain.ErrDuplicate
			}
		}
		v := *b
		v.VagaoNome, v.DietaNome = "", ""
		v.IngredientesPersonalizados = append([]entity.IngredientePersonalizado(nil), b.IngredientesPersonalizados...)
		st.batidas[b.ID] = v
		st.registrar(b.ID)
		return nil
	})
}

func comNomes(st *state, b entity.Batida) *entity.Batida {
	if b.VagaoID != nil {
		b.VagaoNome = st.vagoes[*b.VagaoID].nome
	}
	b.DietaNome = st.dietas[b.DietaID].Nome
	b.IngredientesPersonalizados = append([]entity.IngredientePersonalizado(nil), b.IngredientesPersonalizados...)
	return &b
}

func (r *BatidaRepo) GetByID(_ context.Context, t entity.Tenant, id string) (*entity.Batida, error) {
	var out *entity.Batida
	err := r.read(func(st *state) error {
		if b, ok := st.batidas[id]; ok && doTenant(t, b.ClienteID, b.EmpresaID) {
			out = comNomes(st, b)
		}
		return nil
	})
	return out, err
}

func (r *BatidaRepo) GetForUpdate(ctx context.Context, t entity.Tenant, id string) (*entity.Batida, error) {
	return r.GetByID(ctx, t, id)
}

func (r *BatidaRepo) List(_ context.Context, t entity.Tenant, status string) ([]*entity.Batida, error) {
	var list []*entity.Batida
	err := r.read(func(st *state) error {
		for _, b := range st.batidas {
			if doTenant(t, b.ClienteID, b.EmpresaID) && (status == "" || b.Status == status) {
				list = append(list, comNomes(st, b))
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].DataHora.Equal(list[j].DataHora) {
				return list[i].DataHora.After(list[j].DataHora)
			}
			return st.ordem[list[i].ID] > st.ordem[list[j].ID]
		})
		return nil
	})
	return list, err
}

func (r *BatidaRepo) UpdateStatus(_ context.Context, t entity.Tenant, id, de, para string, concluidaEm *time.Time) (bool, error) {
	var mudou bool
	err := r.read(func(st *state) error {
		b, ok := st.batidas[id]
		if !ok || !doTenant(t, b.ClienteID, b.EmpresaID) || b.Status != de {
			return nil
		}
		b.Status = para
		b.ConcluidaEm = concluidaEm
		st.batidas[id] = b
		mudou = true
		return nil
	})
	return mudou, err
}

func (r *BatidaRepo) Delete(_ context.Context, t entity.Tenant, id string) (bool, error) {
	var removida bool
	err := r.read(func(st *state) error {
		b, ok := st.batidas[id]
		if !ok || !doTenant(t, b.ClienteID, b.EmpresaID) || b.Status != entity.BatidaPreparando {
			return nil
		}
		delete(st.batidas, id)
		removida = true
		return nil
	})
	return removida, err
}
