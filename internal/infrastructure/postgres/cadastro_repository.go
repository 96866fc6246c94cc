package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var (
	_ repository.UsuarioRepository       = (*UsuarioRepo)(nil)
	_ repository.UnidadeMedidaRepository = (*UnidadeMedidaRepo)(nil)
	_ repository.InsumoRepository        = (*InsumoRepo)(nil)
)

// UsuarioRepo implementa UsuarioRepository sobre PostgreSQL.
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository constrói o adaptador de usuários.
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

func (r *UsuarioRepo) FindByEmail(ctx context.Context, email string) (*entity.Usuario, error) {
	query := `
		SELECT id, cliente_id, empresa_id, email, password_hash, nome, role, ativo, criado_em
		FROM usuarios WHERE lower(email) = lower($1)`
	var u entity.Usuario
	err := r.q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.ClienteID, &u.EmpresaID, &u.Email, &u.PasswordHash, &u.Nome, &u.Role, &u.Ativo, &u.CriadoEm,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by email: %w", err)
	}
	return &u, nil
}

// UnidadeMedidaRepo implementa UnidadeMedidaRepository sobre PostgreSQL.
type UnidadeMedidaRepo struct {
	q Querier
}

// NewUnidadeMedidaRepository constrói o adaptador de unidades de medida.
func NewUnidadeMedidaRepository(q Querier) *UnidadeMedidaRepo {
	return &UnidadeMedidaRepo{q: q}
}

func (r *UnidadeMedidaRepo) Create(ctx context.Context, u *entity.UnidadeMedida) error {
	query := `
		INSERT INTO unidades_medida (id, cliente_id, empresa_id, nome, sigla, fator_conversao, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, u.ID, u.ClienteID, u.EmpresaID, u.Nome, u.Sigla, u.FatorConversao, u.CriadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unidade_medida: %w", err)
	}
	return nil
}

const selectUnidade = `
	SELECT id, cliente_id, empresa_id, nome, sigla, fator_conversao, criado_em
	FROM unidades_medida`

func (r *UnidadeMedidaRepo) GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.UnidadeMedida, error) {
	var u entity.UnidadeMedida
	err := r.q.QueryRow(ctx, selectUnidade+` WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id,
	).Scan(&u.ID, &u.ClienteID, &u.EmpresaID, &u.Nome, &u.Sigla, &u.FatorConversao, &u.CriadoEm)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unidade_medida: %w", err)
	}
	return &u, nil
}

func (r *UnidadeMedidaRepo) List(ctx context.Context, t entity.Tenant) ([]*entity.UnidadeMedida, error) {
	rows, err := r.q.Query(ctx, selectUnidade+` WHERE cliente_id = $1 AND empresa_id = $2 ORDER BY nome`,
		t.ClienteID, t.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("list unidades_medida: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnidadeMedida
	for rows.Next() {
		var u entity.UnidadeMedida
		if err := rows.Scan(&u.ID, &u.ClienteID, &u.EmpresaID, &u.Nome, &u.Sigla, &u.FatorConversao, &u.CriadoEm); err != nil {
			return nil, fmt.Errorf("scan unidade_medida: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UnidadeMedidaRepo) Delete(ctx context.Context, t entity.Tenant, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM unidades_medida WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewConflictError("Unidade de medida em uso")
		}
		return fmt.Errorf("delete unidade_medida: %w", err)
	}
	return nil
}

func (r *UnidadeMedidaRepo) EmUso(ctx context.Context, t entity.Tenant, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM insumos WHERE cliente_id = $1 AND empresa_id = $2 AND unidade_medida_id = $3)
		    OR EXISTS (SELECT 1 FROM entradas_estoque WHERE cliente_id = $1 AND empresa_id = $2 AND unidade_medida_id = $3)`
	var usado bool
	if err := r.q.QueryRow(ctx, query, t.ClienteID, t.EmpresaID, id).Scan(&usado); err != nil {
		return false, fmt.Errorf("unidade_medida em uso: %w", err)
	}
	return usado, nil
}

// InsumoRepo implementa InsumoRepository sobre PostgreSQL (pool ou tx).
type InsumoRepo struct {
	q Querier
}

// NewInsumoRepository constrói o adaptador de insumos.
func NewInsumoRepository(q Querier) *InsumoRepo {
	return &InsumoRepo{q: q}
}

const selectInsumo = `
	SELECT id, cliente_id, empresa_id, nome, unidade_medida_id, estoque_minimo, ativo, criado_em, atualizado_em
	FROM insumos`

type scanner interface {
	Scan(dest ...any) error
}

func scanInsumo(s scanner) (*entity.Insumo, error) {
	var i entity.Insumo
	err := s.Scan(&i.ID, &i.ClienteID, &i.EmpresaID, &i.Nome, &i.UnidadeMedidaID, &i.EstoqueMinimo,
		&i.Ativo, &i.CriadoEm, &i.AtualizadoEm)
	return &i, err
}

func (r *InsumoRepo) Create(ctx context.Context, i *entity.Insumo) error {
	query := `
		INSERT INTO insumos (id, cliente_id, empresa_id, nome, unidade_medida_id, estoque_minimo, ativo, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, i.ID, i.ClienteID, i.EmpresaID, i.Nome, i.UnidadeMedidaID, i.EstoqueMinimo,
		i.Ativo, i.CriadoEm, i.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert insumo: %w", err)
	}
	return nil
}

func (r *InsumoRepo) GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.Insumo, error) {
	i, err := scanInsumo(r.q.QueryRow(ctx, selectInsumo+` WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get insumo: %w", err)
	}
	return i, nil
}

func (r *InsumoRepo) List(ctx context.Context, t entity.Tenant, somenteAtivos bool) ([]*entity.Insumo, error) {
	query := selectInsumo + ` WHERE cliente_id = $1 AND empresa_id = $2 AND (NOT $3::boolean OR ativo) ORDER BY nome`
	rows, err := r.q.Query(ctx, query, t.ClienteID, t.EmpresaID, somenteAtivos)
	if err != nil {
		return nil, fmt.Errorf("list insumos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Insumo
	for rows.Next() {
		i, err := scanInsumo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insumo: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func (r *InsumoRepo) Update(ctx context.Context, i *entity.Insumo) error {
	query := `
		UPDATE insumos SET nome = $4, unidade_medida_id = $5, estoque_minimo = $6, ativo = $7, atualizado_em = $8
		WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`
	cmd, err := r.q.Exec(ctx, query, i.ClienteID, i.EmpresaID, i.ID, i.Nome, i.UnidadeMedidaID, i.EstoqueMinimo,
		i.Ativo, i.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update insumo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete remove o insumo; o saldo materializado cai junto (ON DELETE CASCADE).
func (r *InsumoRepo) Delete(ctx context.Context, t entity.Tenant, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM insumos WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewConflictError("Insumo possui lançamentos ou composições e não pode ser excluído")
		}
		return fmt.Errorf("delete insumo: %w", err)
	}
	return nil
}

func (r *InsumoRepo) TemLancamentos(ctx context.Context, t entity.Tenant, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM entradas_estoque WHERE cliente_id = $1 AND empresa_id = $2 AND insumo_id = $3)
		    OR EXISTS (SELECT 1 FROM saidas_estoque WHERE cliente_id = $1 AND empresa_id = $2 AND insumo_id = $3)`
	var tem bool
	if err := r.q.QueryRow(ctx, query, t.ClienteID, t.EmpresaID, id).Scan(&tem); err != nil {
		return false, fmt.Errorf("insumo tem lancamentos: %w", err)
	}
	return tem, nil
}

func (r *InsumoRepo) EmComposicao(ctx context.Context, t entity.Tenant, id string) (bool, error) {
	query := `
		SELECT EXISTS (
		         SELECT 1 FROM dieta_ingredientes di JOIN dietas d ON d.id = di.dieta_id
		         WHERE d.cliente_id = $1 AND d.empresa_id = $2 AND di.insumo_id = $3)
		    OR EXISTS (
		         SELECT 1 FROM pre_mistura_ingredientes pi JOIN pre_misturas p ON p.id = pi.pre_mistura_id
		         WHERE p.cliente_id = $1 AND p.empresa_id = $2 AND pi.insumo_id = $3)`
	var usado bool
	if err := r.q.QueryRow(ctx, query, t.ClienteID, t.EmpresaID, id).Scan(&usado); err != nil {
		return false, fmt.Errorf("insumo em composicao: %w", err)
	}
	return usado, nil
}
