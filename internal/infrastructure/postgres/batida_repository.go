package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var _ repository.BatidaRepository = (*BatidaRepo)(nil)

// BatidaRepo implementa BatidaRepository; a lista personalizada vai em JSONB.
type BatidaRepo struct {
	q Querier
}

// NewBatidaRepository constrói o adaptador de batidas.
func NewBatidaRepository(q Querier) *BatidaRepo {
	return &BatidaRepo{q: q}
}

func (r *BatidaRepo) Create(ctx context.Context, b *entity.Batida) error {
	var personalizados []byte
	if b.TemPersonalizacao() {
		raw, err := json.Marshal(b.IngredientesPersonalizados)
		if err != nil {
			return fmt.Errorf("marshal ingredientes_personalizados: %w", err)
		}
		personalizados = raw
	}
	query := `
		INSERT INTO batidas (id, cliente_id, empresa_id, codigo, vagao_id, dieta_id, quantidade, data_hora, status,
			observacoes, ingredientes_personalizados, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, b.ID, b.ClienteID, b.EmpresaID, b.Codigo, b.VagaoID, b.DietaID, b.Quantidade,
		b.DataHora, b.Status, nullIfEmpty(b.Observacoes), personalizados, b.CriadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("Dieta ou vagão inexistente")
		}
		return fmt.Errorf("insert batida: %w", err)
	}
	return nil
}

const selectBatida = `
	SELECT b.id, b.cliente_id, b.empresa_id, b.codigo, b.vagao_id, b.dieta_id, b.quantidade, b.data_hora, b.status,
	       COALESCE(b.observacoes, ''), b.ingredientes_personalizados, b.criado_em, b.concluida_em,
	       COALESCE(v.nome, ''), COALESCE(d.nome, '')
	FROM batidas b
	LEFT JOIN vagoes v ON v.id = b.vagao_id
	LEFT JOIN dietas d ON d.id = b.dieta_id`

func scanBatida(s scanner) (*entity.Batida, error) {
	var b entity.Batida
	var personalizados []byte
	err := s.Scan(&b.ID, &b.ClienteID, &b.EmpresaID, &b.Codigo, &b.VagaoID, &b.DietaID, &b.Quantidade, &b.DataHora,
		&b.Status, &b.Observacoes, &personalizados, &b.CriadoEm, &b.ConcluidaEm, &b.VagaoNome, &b.DietaNome)
	if err != nil {
		return nil, err
	}
	if len(personalizados) > 0 {
		if err := json.Unmarshal(personalizados, &b.IngredientesPersonalizados); err != nil {
			return nil, fmt.Errorf("unmarshal ingredientes_personalizados: %w", err)
		}
	}
	return &b, nil
}

func (r *BatidaRepo) get(ctx context.Context, t entity.Tenant, id, suffix string) (*entity.Batida, error) {
	b, err := scanBatida(r.q.QueryRow(ctx,
		selectBatida+` WHERE b.cliente_id = $1 AND b.empresa_id = $2 AND b.id = $3`+suffix,
		t.ClienteID, t.EmpresaID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batida: %w", err)
	}
	return b, nil
}

func (r *BatidaRepo) GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.Batida, error) {
	return r.get(ctx, t, id, "")
}

// GetForUpdate bloqueia apenas a linha da batida (FOR UPDATE OF b; os joins não são travados).
func (r *BatidaRepo) GetForUpdate(ctx context.Context, t entity.Tenant, id string) (*entity.Batida, error) {
	return r.get(ctx, t, id, " FOR UPDATE OF b")
}

func (r *BatidaRepo) List(ctx context.Context, t entity.Tenant, status string) ([]*entity.Batida, error) {
	query := selectBatida + `
		WHERE b.cliente_id = $1 AND b.empresa_id = $2 AND ($3::text = '' OR b.status = $3::text)
		ORDER BY b.data_hora DESC, b.criado_em DESC`
	rows, err := r.q.Query(ctx, query, t.ClienteID, t.EmpresaID, status)
	if err != nil {
		return nil, fmt.Errorf("list batidas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batida
	for rows.Next() {
		b, err := scanBatida(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batida: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BatidaRepo) UpdateStatus(ctx context.Context, t entity.Tenant, id, de, para string, concluidaEm *time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE batidas SET status = $5, concluida_em = $6
		WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3 AND status = $4`,
		t.ClienteID, t.EmpresaID, id, de, para, concluidaEm)
	if err != nil {
		return false, fmt.Errorf("update status batida: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *BatidaRepo) Delete(ctx context.Context, t entity.Tenant, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM batidas WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3 AND status = $4`,
		t.ClienteID, t.EmpresaID, id, entity.BatidaPreparando)
	if err != nil {
		return false, fmt.Errorf("delete batida: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
