// Package memstore implementa os repositórios em memória, com transações por snapshot.
// Serve para testes e para rodar a API localmente sem PostgreSQL (STORAGE_DRIVER=memory).
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

type vagao struct {
	tenant entity.Tenant
	nome   string
}

type state struct {
	seq         int64
	ordem       map[string]int64
	usuarios    map[string]entity.Usuario
	unidades    map[string]entity.UnidadeMedida
	insumos     map[string]entity.Insumo
	saldos      map[string]entity.SaldoInsumo
	entradas    map[string]entity.EntradaEstoque
	saidas      map[string]entity.SaidaEstoque
	dietas      map[string]entity.Dieta
	preMisturas map[string]entity.PreMistura
	batidas     map[string]entity.Batida
	vagoes      map[string]vagao
}

func newState() *state {
	return &state{
		ordem:       map[string]int64{},
		usuarios:    map[string]entity.Usuario{},
		unidades:    map[string]entity.UnidadeMedida{},
		insumos:     map[string]entity.Insumo{},
		saldos:      map[string]entity.SaldoInsumo{},
		entradas:    map[string]entity.EntradaEstoque{},
		saidas:      map[string]entity.SaidaEstoque{},
		dietas:      map[string]entity.Dieta{},
		preMisturas: map[string]entity.PreMistura{},
		batidas:     map[string]entity.Batida{},
		vagoes:      map[string]vagao{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.ordem {
		c.ordem[k] = v
	}
	for k, v := range s.usuarios {
		c.usuarios[k] = v
	}
	for k, v := range s.unidades {
		c.unidades[k] = v
	}
	for k, v := range s.insumos {
		c.insumos[k] = v
	}
	for k, v := range s.saldos {
		c.saldos[k] = v
	}
	for k, v := range s.entradas {
		c.entradas[k] = v
	}
	for k, v := range s.saidas {
		c.saidas[k] = v
	}
	for k, v := range s.dietas {
		v.Ingredientes = copiarIngredientes(v.Ingredientes)
		c.dietas[k] = v
	}
	for k, v := range s.preMisturas {
		v.Ingredientes = copiarIngredientes(v.Ingredientes)
		c.preMisturas[k] = v
	}
	for k, v := range s.batidas {
		v.IngredientesPersonalizados = append([]entity.IngredientePersonalizado(nil), v.IngredientesPersonalizados...)
		c.batidas[k] = v
	}
	for k, v := range s.vagoes {
		c.vagoes[k] = v
	}
	return c
}

// registrar guarda a ordem de criação para listagens determinísticas.
func (s *state) registrar(id string) {
	if _, ok := s.ordem[id]; ok {
		return
	}
	s.seq++
	s.ordem[id] = s.seq
}

func copiarIngredientes(in []entity.IngredienteComposicao) []entity.IngredienteComposicao {
	if in == nil {
		return nil
	}
	out := make([]entity.IngredienteComposicao, len(in))
	copy(out, in)
	return out
}

// Store guarda todo o estado. Transações serializam o acesso (equivalente a bloquear as linhas).
type Store struct {
	mu sync.Mutex
	st *state
}

// New cria um store vazio.
func New() *Store {
	return &Store{st: newState()}
}

// base é embutido por todos os repositórios; fora de transação cada chamada toma o lock.
type base struct {
	s    *Store
	inTx bool
}

func (b base) read(fn func(st *state) error) error {
	if !b.inTx {
		b.s.mu.Lock()
		defer b.s.mu.Unlock()
	}
	return fn(b.s.st)
}

// Run executa fn sobre um snapshot: em caso de erro o estado anterior é restaurado.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	b := base{s: s, inTx: true}
	repos := repository.TxRepos{
		Saldos:      &SaldoRepo{b},
		Entradas:    &EntradaRepo{b},
		Saidas:      &SaidaRepo{b},
		Insumos:     &InsumoRepo{b},
		Dietas:      &DietaRepo{b},
		PreMisturas: &PreMisturaRepo{b},
		Batidas:     &BatidaRepo{b},
		Razao:       &RazaoRepo{b},
	}
	if err := fn(repos); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

var _ repository.TxRunner = (*Store)(nil)

func (s *Store) b() base { return base{s: s} }

func (s *Store) Usuarios() *UsuarioRepo       { return &UsuarioRepo{s.b()} }
func (s *Store) Unidades() *UnidadeMedidaRepo { return &UnidadeMedidaRepo{s.b()} }
func (s *Store) Insumos() *InsumoRepo         { return &InsumoRepo{s.b()} }
func (s *Store) Saldos() *SaldoRepo           { return &SaldoRepo{s.b()} }
func (s *Store) Razao() *RazaoRepo            { return &RazaoRepo{s.b()} }
func (s *Store) Entradas() *EntradaRepo       { return &EntradaRepo{s.b()} }
func (s *Store) Saidas() *SaidaRepo           { return &SaidaRepo{s.b()} }
func (s *Store) Dietas() *DietaRepo           { return &DietaRepo{s.b()} }
func (s *Store) PreMisturas() *PreMisturaRepo { return &PreMisturaRepo{s.b()} }
func (s *Store) Batidas() *BatidaRepo         { return &BatidaRepo{s.b()} }

// AddVagao cadastra um vagão (o CRUD de vagões fica fora desta API).
func (s *Store) AddVagao(t entity.Tenant, id, nome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.vagoes[id] = vagao{tenant: t, nome: nome}
}

// AddUsuario cadastra um usuário já com hash de senha.
func (s *Store) AddUsuario(u entity.Usuario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.usuarios[u.ID] = u
	s.st.registrar(u.ID)
}

func doTenant(t entity.Tenant, clienteID, empresaID string) bool {
	return t.ClienteID == clienteID && t.EmpresaID == empresaID
}
