package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var (
	_ repository.SaldoRepository          = (*SaldoRepo)(nil)
	_ repository.RazaoRepository          = (*RazaoRepo)(nil)
	_ repository.EntradaEstoqueRepository = (*EntradaRepo)(nil)
	_ repository.SaidaEstoqueRepository   = (*SaidaRepo)(nil)
)

// SaldoRepo saldos materializados em memória.
type SaldoRepo struct{ base }

func saldoZero(t entity.Tenant, insumoID string) entity.SaldoInsumo {
	return entity.SaldoInsumo{
		InsumoID:             insumoID,
		ClienteID:            t.ClienteID,
		EmpresaID:            t.EmpresaID,
		QuantidadeEntradasKg: decimal.Zero,
		ValorEntradas:        decimal.Zero,
		QuantidadeSaidasKg:   decimal.Zero,
	}
}

func (r *SaldoRepo) Get(_ context.Context, t entity.Tenant, insumoID string) (*entity.SaldoInsumo, error) {
	out := saldoZero(t, insumoID)
	err := r.read(func(st *state) error {
		if s, ok := st.saldos[insumoID]; ok && doTenant(t, s.ClienteID, s.EmpresaID) {
			out = s
		}
		return nil
	})
	return &out, err
}

// GetForUpdate: fora de transação equivale a Get; dentro dela o lock global já serializa.
func (r *SaldoRepo) GetForUpdate(ctx context.Context, t entity.Tenant, insumoID string) (*entity.SaldoInsumo, error) {
	return r.Get(ctx, t, insumoID)
}

func (r *SaldoRepo) Upsert(_ context.Context, s *entity.SaldoInsumo) error {
	return r.read(func(st *state) error {
		v := *s
		v.AtualizadoEm = time.Now()
		st.saldos[s.InsumoID] = v
		return nil
	})
}

func (r *SaldoRepo) ListByTenant(_ context.Context, t entity.Tenant) (map[string]*entity.SaldoInsumo, error) {
	out := map[string]*entity.SaldoInsumo{}
	err := r.read(func(st *state) error {
		for id, s := range st.saldos {
			if doTenant(t, s.ClienteID, s.EmpresaID) {
				s := s
				out[id] = &s
			}
		}
		return nil
	})
	return out, err
}

func (r *SaldoRepo) ListTenants(_ context.Context) ([]entity.Tenant, error) {
	seen := map[entity.Tenant]bool{}
	var out []entity.Tenant
	err := r.read(func(st *state) error {
		add := func(t entity.Tenant) {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
		for _, s := range st.saldos {
			add(entity.Tenant{ClienteID: s.ClienteID, EmpresaID: s.EmpresaID})
		}
		for _, i := range st.insumos {
			add(entity.Tenant{ClienteID: i.ClienteID, EmpresaID: i.EmpresaID})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClienteID != out[j].ClienteID {
			return out[i].ClienteID < out[j].ClienteID
		}
		return out[i].EmpresaID < out[j].EmpresaID
	})
	return out, err
}

// RazaoRepo recalcula posições varrendo entradas e saídas.
type RazaoRepo struct{ base }

func (r *RazaoRepo) PosicoesDoHistorico(_ context.Context, t entity.Tenant) (map[string]estoque.Posicao, error) {
	out := map[string]estoque.Posicao{}
	err := r.read(func(st *state) error {
		for id, i := range st.insumos {
			if doTenant(t, i.ClienteID, i.EmpresaID) {
				out[id] = estoque.Posicao{}
			}
		}
		for _, e := range st.entradas {
			if doTenant(t, e.ClienteID, e.EmpresaID) {
				out[e.InsumoID] = out[e.InsumoID].ComEntrada(e.QuantidadeKg, e.ValorTotal)
			}
		}
		for _, s := range st.saidas {
			if doTenant(t, s.ClienteID, s.EmpresaID) {
				out[s.InsumoID] = out[s.InsumoID].ComSaida(s.Quantidade)
			}
		}
		return nil
	})
	return out, err
}

// SetSaldo sobrescreve o saldo materializado sem passar pelo razão (testes de conciliação).
func (s *Store) SetSaldo(v entity.SaldoInsumo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.saldos[v.InsumoID] = v
}

// EntradaRepo entradas de estoque em memória.
type EntradaRepo struct{ base }

func (r *EntradaRepo) Create(_ context.Context, e *entity.EntradaEstoque) error {
	return r.read(func(st *state) error {
		st.entradas[e.ID] = *e
		st.registrar(e.ID)
		return nil
	})
}

func (r *EntradaRepo) GetByID(_ context.Context, t entity.Tenant, id string) (*entity.EntradaEstoque, error) {
	var out *entity.EntradaEstoque
	err := r.read(func(st *state) error {
		if e, ok := st.entradas[id]; ok && doTenant(t, e.ClienteID, e.EmpresaID) {
			out = &e
		}
		return nil
	})
	return out, err
}

func dentro(f repository.FiltroLancamentos, insumoID string, quando time.Time) bool {
	if f.InsumoID != "" && f.InsumoID != insumoID {
		return false
	}
	if f.De != nil && quando.Before(*f.De) {
		return false
	}
	if f.Ate != nil && quando.After(*f.Ate) {
		return false
	}
	return true
}

func paginar[T any](list []T, p repository.Pagina) []T {
	if p.Offset >= len(list) {
		return []T{}
	}
	list = list[p.Offset:]
	if p.Limit > 0 && p.Limit < len(list) {
		list = list[:p.Limit]
	}
	return list
}

func (r *EntradaRepo) List(_ context.Context, t entity.Tenant, f repository.FiltroLancamentos) ([]*entity.EntradaEstoque, error) {
	var list []*entity.EntradaEstoque
	var ordem map[string]int64
	err := r.read(func(st *state) error {
		ordem = st.ordem
		for _, e := range st.entradas {
			if doTenant(t, e.ClienteID, e.EmpresaID) && dentro(f, e.InsumoID, e.Data) {
				e := e
				list = append(list, &e)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Data.Equal(list[j].Data) {
				return list[i].Data.After(list[j].Data)
			}
			return ordem[list[i].ID] > ordem[list[j].ID]
		})
		return nil
	})
	return paginar(list, f.Pagina), err
}

func (r *EntradaRepo) Delete(_ context.Context, t entity.Tenant, id string) error {
	return r.read(func(st *state) error {
		if e, ok := st.entradas[id]; ok && doTenant(t, e.ClienteID, e.EmpresaID) {
			delete(st.entradas, id)
		}
		return nil
	})
}

// SaidaRepo saídas de estoque em memória.
type SaidaRepo struct{ base }

func (r *SaidaRepo) Create(_ context.Context, s *entity.SaidaEstoque) error {
	return r.read(func(st *state) error {
		st.saidas[s.ID] = *s
		st.registrar(s.ID)
		return nil
	})
}

func (r *SaidaRepo) list(t entity.Tenant, keep func(s entity.SaidaEstoque) bool) ([]*entity.SaidaEstoque, error) {
	var list []*entity.SaidaEstoque
	err := r.read(func(st *state) error {
		for _, s := range st.saidas {
			if doTenant(t, s.ClienteID, s.EmpresaID) && keep(s) {
				s := s
				list = append(list, &s)
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

func (r *SaidaRepo) List(_ context.Context, t entity.Tenant, f repository.FiltroLancamentos) ([]*entity.SaidaEstoque, error) {
	list, err := r.list(t, func(s entity.SaidaEstoque) bool { return dentro(f, s.InsumoID, s.DataHora) })
	return paginar(list, f.Pagina), err
}

func (r *SaidaRepo) ListByBatida(_ context.Context, t entity.Tenant, batidaID string) ([]*entity.SaidaEstoque, error) {
	return r.list(t, func(s entity.SaidaEstoque) bool { return s.BatidaID != nil && *s.BatidaID == batidaID })
}
