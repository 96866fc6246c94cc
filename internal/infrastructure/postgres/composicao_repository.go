package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var (
	_ repository.DietaRepository      = (*DietaRepo)(nil)
	_ repository.PreMisturaRepository = (*PreMisturaRepo)(nil)
)

// DietaRepo implementa DietaRepository (cabeçalho em dietas, linhas em dieta_ingredientes).
// Update substitui todas as linhas; deve rodar dentro de TxRunner.
type DietaRepo struct {
	q Querier
}

// NewDietaRepository constrói o adaptador de dietas.
func NewDietaRepository(q Querier) *DietaRepo {
	return &DietaRepo{q: q}
}

func (r *DietaRepo) Create(ctx context.Context, d *entity.Dieta) error {
	query := `
		INSERT INTO dietas (id, cliente_id, empresa_id, nome, fase, ativo, ms_media, custo_mn, custo_ms, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, d.ID, d.ClienteID, d.EmpresaID, d.Nome, d.Fase, d.Ativo,
		d.MSMedia, d.CustoMN, d.CustoMS, d.CriadoEm, d.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dieta: %w", err)
	}
	return r.inserirLinhas(ctx, d.ID, d.Ingredientes)
}

func (r *DietaRepo) inserirLinhas(ctx context.Context, dietaID string, ings []entity.IngredienteComposicao) error {
	query := `
		INSERT INTO dieta_ingredientes (id, dieta_id, tipo, insumo_id, pre_mistura_id, ordem, percentual_mistura, percentual_ms, valor_unitario_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range ings {
		ing := &ings[i]
		if ing.ID == "" {
			ing.ID = uuid.NewString()
		}
		_, err := r.q.Exec(ctx, query, ing.ID, dietaID, ing.Tipo, ing.InsumoID, ing.PreMisturaID, ing.Ordem,
			ing.PercentualMistura, ing.PercentualMS, ing.ValorUnitarioKg)
		if err != nil {
			return fmt.Errorf("insert dieta_ingrediente: %w", err)
		}
	}
	return nil
}

const selectDieta = `
	SELECT id, cliente_id, empresa_id, nome, fase, ativo, ms_media, custo_mn, custo_ms, criado_em, atualizado_em
	FROM dietas`

func scanDieta(s scanner) (*entity.Dieta, error) {
	var d entity.Dieta
	err := s.Scan(&d.ID, &d.ClienteID, &d.EmpresaID, &d.Nome, &d.Fase, &d.Ativo, &d.MSMedia, &d.CustoMN, &d.CustoMS,
		&d.CriadoEm, &d.AtualizadoEm)
	return &d, err
}

// linhasDieta carrega as linhas das dietas indicadas, agrupadas por dieta_id.
func (r *DietaRepo) linhasDieta(ctx context.Context, ids []string) (map[string][]entity.IngredienteComposicao, error) {
	query := `
		SELECT di.dieta_id, di.id, di.tipo, di.insumo_id, di.pre_mistura_id, COALESCE(i.nome, p.nome, ''),
		       di.ordem, di.percentual_mistura, di.percentual_ms, di.valor_unitario_kg
		FROM dieta_ingredientes di
		LEFT JOIN insumos i ON i.id = di.insumo_id
		LEFT JOIN pre_misturas p ON p.id = di.pre_mistura_id
		WHERE di.dieta_id = ANY($1)
		ORDER BY di.dieta_id, di.ordem`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list dieta_ingredientes: %w", err)
	}
	defer rows.Close()
	out := map[string][]entity.IngredienteComposicao{}
	for rows.Next() {
		var dietaID string
		var ing entity.IngredienteComposicao
		if err := rows.Scan(&dietaID, &ing.ID, &ing.Tipo, &ing.InsumoID, &ing.PreMisturaID, &ing.Nome, &ing.Ordem,
			&ing.PercentualMistura, &ing.PercentualMS, &ing.ValorUnitarioKg); err != nil {
			return nil, fmt.Errorf("scan dieta_ingrediente: %w", err)
		}
		out[dietaID] = append(out[dietaID], ing)
	}
	return out, rows.Err()
}

func (r *DietaRepo) GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.Dieta, error) {
	d, err := scanDieta(r.q.QueryRow(ctx, selectDieta+` WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dieta: %w", err)
	}
	linhas, err := r.linhasDieta(ctx, []string{d.ID})
	if err != nil {
		return nil, err
	}
	d.Ingredientes = linhas[d.ID]
	return d, nil
}

func (r *DietaRepo) List(ctx context.Context, t entity.Tenant) ([]*entity.Dieta, error) {
	rows, err := r.q.Query(ctx, selectDieta+` WHERE cliente_id = $1 AND empresa_id = $2 ORDER BY nome`,
		t.ClienteID, t.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("list dietas: %w", err)
	}
	var list []*entity.Dieta
	var ids []string
	for rows.Next() {
		d, err := scanDieta(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan dieta: %w", err)
		}
		list = append(list, d)
		ids = append(ids, d.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	linhas, err := r.linhasDieta(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		d.Ingredientes = linhas[d.ID]
	}
	return list, nil
}

func (r *DietaRepo) Update(ctx context.Context, d *entity.Dieta) error {
	query := `
		UPDATE dietas SET nome = $4, fase = $5, ativo = $6, ms_media = $7, custo_mn = $8, custo_ms = $9, atualizado_em = $10
		WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`
	cmd, err := r.q.Exec(ctx, query, d.ClienteID, d.EmpresaID, d.ID, d.Nome, d.Fase, d.Ativo,
		d.MSMedia, d.CustoMN, d.CustoMS, d.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update dieta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM dieta_ingredientes WHERE dieta_id = $1`, d.ID); err != nil {
		return fmt.Errorf("delete dieta_ingredientes: %w", err)
	}
	return r.inserirLinhas(ctx, d.ID, d.Ingredientes)
}

func (r *DietaRepo) Delete(ctx context.Context, t entity.Tenant, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM dietas WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewConflictError("Dieta está em uso por batidas e não pode ser excluída")
		}
		return fmt.Errorf("delete dieta: %w", err)
	}
	return nil
}

func (r *DietaRepo) EmUsoPorBatidas(ctx context.Context, t entity.Tenant, id string) (bool, error) {
	var usado bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM batidas WHERE cliente_id = $1 AND empresa_id = $2 AND dieta_id = $3)`,
		t.ClienteID, t.EmpresaID, id).Scan(&usado)
	if err != nil {
		return false, fmt.Errorf("dieta em uso: %w", err)
	}
	return usado, nil
}

// PreMisturaRepo implementa PreMisturaRepository (linhas em pre_mistura_ingredientes, somente insumos).
type PreMisturaRepo struct {
	q Querier
}

// NewPreMisturaRepository constrói o adaptador de pré-misturas.
func NewPreMisturaRepository(q Querier) *PreMisturaRepo {
	return &PreMisturaRepo{q: q}
}

func (r *PreMisturaRepo) Create(ctx context.Context, p *entity.PreMistura) error {
	query := `
		INSERT INTO pre_misturas (id, cliente_id, empresa_id, nome, ativo, ms_media, custo_mn, custo_ms, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, p.ID, p.ClienteID, p.EmpresaID, p.Nome, p.Ativo,
		p.MSMedia, p.CustoMN, p.CustoMS, p.CriadoEm, p.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pre_mistura: %w", err)
	}
	return r.inserirLinhas(ctx, p.ID, p.Ingredientes)
}

func (r *PreMisturaRepo) inserirLinhas(ctx context.Context, preMisturaID string, ings []entity.IngredienteComposicao) error {
	query := `
		INSERT INTO pre_mistura_ingredientes (id, pre_mistura_id, insumo_id, ordem, percentual_mistura, percentual_ms, valor_unitario_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range ings {
		ing := &ings[i]
		if ing.ID == "" {
			ing.ID = uuid.NewString()
		}
		_, err := r.q.Exec(ctx, query, ing.ID, preMisturaID, ing.InsumoID, ing.Ordem,
			ing.PercentualMistura, ing.PercentualMS, ing.ValorUnitarioKg)
		if err != nil {
			return fmt.Errorf("insert pre_mistura_ingrediente: %w", err)
		}
	}
	return nil
}

const selectPreMistura = `
	SELECT id, cliente_id, empresa_id, nome, ativo, ms_media, custo_mn, custo_ms, criado_em, atualizado_em
	FROM pre_misturas`

func scanPreMistura(s scanner) (*entity.PreMistura, error) {
	var p entity.PreMistura
	err := s.Scan(&p.ID, &p.ClienteID, &p.EmpresaID, &p.Nome, &p.Ativo, &p.MSMedia, &p.CustoMN, &p.CustoMS,
		&p.CriadoEm, &p.AtualizadoEm)
	return &p, err
}

func (r *PreMisturaRepo) linhas(ctx context.Context, ids []string) (map[string][]entity.IngredienteComposicao, error) {
	query := `
		SELECT pi.pre_mistura_id, pi.id, pi.insumo_id, COALESCE(i.nome, ''), pi.ordem,
		       pi.percentual_mistura, pi.percentual_ms, pi.valor_unitario_kg
		FROM pre_mistura_ingredientes pi
		LEFT JOIN insumos i ON i.id = pi.insumo_id
		WHERE pi.pre_mistura_id = ANY($1)
		ORDER BY pi.pre_mistura_id, pi.ordem`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list pre_mistura_ingredientes: %w", err)
	}
	defer rows.Close()
	out := map[string][]entity.IngredienteComposicao{}
	for rows.Next() {
		var pmID string
		ing := entity.IngredienteComposicao{Tipo: entity.IngredienteInsumo}
		if err := rows.Scan(&pmID, &ing.ID, &ing.InsumoID, &ing.Nome, &ing.Ordem,
			&ing.PercentualMistura, &ing.PercentualMS, &ing.ValorUnitarioKg); err != nil {
			return nil, fmt.Errorf("scan pre_mistura_ingrediente: %w", err)
		}
		out[pmID] = append(out[pmID], ing)
	}
	return out, rows.Err()
}

func (r *PreMisturaRepo) GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.PreMistura, error) {
	p, err := scanPreMistura(r.q.QueryRow(ctx, selectPreMistura+` WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pre_mistura: %w", err)
	}
	linhas, err := r.linhas(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Ingredientes = linhas[p.ID]
	return p, nil
}

func (r *PreMisturaRepo) List(ctx context.Context, t entity.Tenant) ([]*entity.PreMistura, error) {
	rows, err := r.q.Query(ctx, selectPreMistura+` WHERE cliente_id = $1 AND empresa_id = $2 ORDER BY nome`,
		t.ClienteID, t.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("list pre_misturas: %w", err)
	}
	var list []*entity.PreMistura
	var ids []string
	for rows.Next() {
		p, err := scanPreMistura(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pre_mistura: %w", err)
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	linhas, err := r.linhas(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.Ingredientes = linhas[p.ID]
	}
	return list, nil
}

func (r *PreMisturaRepo) Update(ctx context.Context, p *entity.PreMistura) error {
	query := `
		UPDATE pre_misturas SET nome = $4, ativo = $5, ms_media = $6, custo_mn = $7, custo_ms = $8, atualizado_em = $9
		WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`
	cmd, err := r.q.Exec(ctx, query, p.ClienteID, p.EmpresaID, p.ID, p.Nome, p.Ativo,
		p.MSMedia, p.CustoMN, p.CustoMS, p.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update pre_mistura: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM pre_mistura_ingredientes WHERE pre_mistura_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete pre_mistura_ingredientes: %w", err)
	}
	return r.inserirLinhas(ctx, p.ID, p.Ingredientes)
}

func (r *PreMisturaRepo) Delete(ctx context.Context, t entity.Tenant, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM pre_misturas WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewConflictError("Pré-mistura está em uso por dietas e não pode ser excluída")
		}
		return fmt.Errorf("delete pre_mistura: %w", err)
	}
	return nil
}

func (r *PreMisturaRepo) EmUsoPorDietas(ctx context.Context, t entity.Tenant, id string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM dieta_ingredientes di JOIN dietas d ON d.id = di.dieta_id
			WHERE d.cliente_id = $1 AND d.empresa_id = $2 AND di.pre_mistura_id = $3)`
	var usado bool
	if err := r.q.QueryRow(ctx, query, t.ClienteID, t.EmpresaID, id).Scan(&usado); err != nil {
		return false, fmt.Errorf("pre_mistura em uso: %w", err)
	}
	return usado, nil
}
