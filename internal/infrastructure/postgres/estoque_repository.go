package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

var (
	_ repository.SaldoRepository          = (*SaldoRepo)(nil)
	_ repository.RazaoRepository          = (*RazaoRepo)(nil)
	_ repository.EntradaEstoqueRepository = (*EntradaEstoqueRepo)(nil)
	_ repository.SaidaEstoqueRepository   = (*SaidaEstoqueRepo)(nil)
)

// SaldoRepo implementa SaldoRepository sobre a tabela saldos_insumo.
type SaldoRepo struct {
	q Querier
}

// NewSaldoRepository constrói o adaptador de saldos. Passar pool ou tx.
func NewSaldoRepository(q Querier) *SaldoRepo {
	return &SaldoRepo{q: q}
}

const selectSaldo = `
	SELECT insumo_id, cliente_id, empresa_id, quantidade_entradas_kg, valor_entradas, quantidade_saidas_kg, atualizado_em
	FROM saldos_insumo`

func scanSaldo(s scanner) (*entity.SaldoInsumo, error) {
	var v entity.SaldoInsumo
	err := s.Scan(&v.InsumoID, &v.ClienteID, &v.EmpresaID, &v.QuantidadeEntradasKg, &v.ValorEntradas,
		&v.QuantidadeSaidasKg, &v.AtualizadoEm)
	return &v, err
}

func saldoVazio(t entity.Tenant, insumoID string) *entity.SaldoInsumo {
	return &entity.SaldoInsumo{
		InsumoID:             insumoID,
		ClienteID:            t.ClienteID,
		EmpresaID:            t.EmpresaID,
		QuantidadeEntradasKg: decimal.Zero,
		ValorEntradas:        decimal.Zero,
		QuantidadeSaidasKg:   decimal.Zero,
	}
}

func (r *SaldoRepo) Get(ctx context.Context, t entity.Tenant, insumoID string) (*entity.SaldoInsumo, error) {
	s, err := scanSaldo(r.q.QueryRow(ctx, selectSaldo+` WHERE cliente_id = $1 AND empresa_id = $2 AND insumo_id = $3`,
		t.ClienteID, t.EmpresaID, insumoID))
	if err != nil {
		if isNoRows(err) {
			return saldoVazio(t, insumoID), nil
		}
		return nil, fmt.Errorf("get saldo: %w", err)
	}
	return s, nil
}

// GetForUpdate cria a linha zerada se ainda não existir e a bloqueia até o fim da transação.
func (r *SaldoRepo) GetForUpdate(ctx context.Context, t entity.Tenant, insumoID string) (*entity.SaldoInsumo, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO saldos_insumo (insumo_id, cliente_id, empresa_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (insumo_id) DO NOTHING`, insumoID, t.ClienteID, t.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("ensure saldo: %w", err)
	}
	s, err := scanSaldo(r.q.QueryRow(ctx,
		selectSaldo+` WHERE cliente_id = $1 AND empresa_id = $2 AND insumo_id = $3 FOR UPDATE`,
		t.ClienteID, t.EmpresaID, insumoID))
	if err != nil {
		return nil, fmt.Errorf("get saldo for update: %w", err)
	}
	return s, nil
}

func (r *SaldoRepo) Upsert(ctx context.Context, s *entity.SaldoInsumo) error {
	query := `
		INSERT INTO saldos_insumo (insumo_id, cliente_id, empresa_id, quantidade_entradas_kg, valor_entradas, quantidade_saidas_kg, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (insumo_id) DO UPDATE SET
			quantidade_entradas_kg = EXCLUDED.quantidade_entradas_kg,
			valor_entradas = EXCLUDED.valor_entradas,
			quantidade_saidas_kg = EXCLUDED.quantidade_saidas_kg,
			atualizado_em = now()`
	_, err := r.q.Exec(ctx, query, s.InsumoID, s.ClienteID, s.EmpresaID,
		s.QuantidadeEntradasKg, s.ValorEntradas, s.QuantidadeSaidasKg)
	if err != nil {
		return fmt.Errorf("upsert saldo: %w", err)
	}
	return nil
}

func (r *SaldoRepo) ListByTenant(ctx context.Context, t entity.Tenant) (map[string]*entity.SaldoInsumo, error) {
	rows, err := r.q.Query(ctx, selectSaldo+` WHERE cliente_id = $1 AND empresa_id = $2`, t.ClienteID, t.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("list saldos: %w", err)
	}
	defer rows.Close()
	out := map[string]*entity.SaldoInsumo{}
	for rows.Next() {
		s, err := scanSaldo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saldo: %w", err)
		}
		out[s.InsumoID] = s
	}
	return out, rows.Err()
}

func (r *SaldoRepo) ListTenants(ctx context.Context) ([]entity.Tenant, error) {
	rows, err := r.q.Query(ctx, `
		SELECT cliente_id, empresa_id FROM insumos
		UNION
		SELECT cliente_id, empresa_id FROM saldos_insumo
		ORDER BY 1, 2`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var out []entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ClienteID, &t.EmpresaID); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RazaoRepo soma o histórico completo de lançamentos (usado pela conciliação).
type RazaoRepo struct {
	q Querier
}

// NewRazaoRepository constrói o adaptador de leitura do razão.
func NewRazaoRepository(q Querier) *RazaoRepo {
	return &RazaoRepo{q: q}
}

func (r *RazaoRepo) PosicoesDoHistorico(ctx context.Context, t entity.Tenant) (map[string]estoque.Posicao, error) {
	query := `
		SELECT i.id,
		       COALESCE((SELECT SUM(e.quantidade_kg) FROM entradas_estoque e WHERE e.insumo_id = i.id), 0),
		       COALESCE((SELECT SUM(e.valor_total) FROM entradas_estoque e WHERE e.insumo_id = i.id), 0),
		       COALESCE((SELECT SUM(s.quantidade) FROM saidas_estoque s WHERE s.insumo_id = i.id), 0)
		FROM insumos i
		WHERE i.cliente_id = $1 AND i.empresa_id = $2`
	rows, err := r.q.Query(ctx, query, t.ClienteID, t.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("posicoes do historico: %w", err)
	}
	defer rows.Close()
	out := map[string]estoque.Posicao{}
	for rows.Next() {
		var id string
		var p estoque.Posicao
		if err := rows.Scan(&id, &p.QuantidadeEntradasKg, &p.ValorEntradas, &p.QuantidadeSaidasKg); err != nil {
			return nil, fmt.Errorf("scan posicao: %w", err)
		}
		out[id] = p
	}
	return out, rows.Err()
}

// EntradaEstoqueRepo implementa EntradaEstoqueRepository.
type EntradaEstoqueRepo struct {
	q Querier
}

// NewEntradaEstoqueRepository constrói o adaptador de entradas de estoque.
func NewEntradaEstoqueRepository(q Querier) *EntradaEstoqueRepo {
	return &EntradaEstoqueRepo{q: q}
}

const selectEntrada = `
	SELECT id, cliente_id, empresa_id, insumo_id, data, unidade_medida_id, quantidade, fator_conversao,
	       quantidade_kg, valor_unitario, valor_total, COALESCE(fornecedor, ''), COALESCE(nota_fiscal, ''),
	       COALESCE(observacoes, ''), criado_em, COALESCE(criado_por::text, '')
	FROM entradas_estoque`

func scanEntrada(s scanner) (*entity.EntradaEstoque, error) {
	var e entity.EntradaEstoque
	err := s.Scan(&e.ID, &e.ClienteID, &e.EmpresaID, &e.InsumoID, &e.Data, &e.UnidadeMedidaID, &e.Quantidade,
		&e.FatorConversao, &e.QuantidadeKg, &e.ValorUnitario, &e.ValorTotal, &e.Fornecedor, &e.NotaFiscal,
		&e.Observacoes, &e.CriadoEm, &e.CriadoPor)
	return &e, err
}

func (r *EntradaEstoqueRepo) Create(ctx context.Context, e *entity.EntradaEstoque) error {
	query := `
		INSERT INTO entradas_estoque (id, cliente_id, empresa_id, insumo_id, data, unidade_medida_id, quantidade,
			fator_conversao, quantidade_kg, valor_unitario, valor_total, fornecedor, nota_fiscal, observacoes, criado_em, criado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ClienteID, e.EmpresaID, e.InsumoID, e.Data, e.UnidadeMedidaID,
		e.Quantidade, e.FatorConversao, e.QuantidadeKg, e.ValorUnitario, e.ValorTotal,
		nullIfEmpty(e.Fornecedor), nullIfEmpty(e.NotaFiscal), nullIfEmpty(e.Observacoes), e.CriadoEm, nullIfEmpty(e.CriadoPor))
	if err != nil {
		return fmt.Errorf("insert entrada_estoque: %w", err)
	}
	return nil
}

func (r *EntradaEstoqueRepo) GetByID(ctx context.Context, t entity.Tenant, id string) (*entity.EntradaEstoque, error) {
	e, err := scanEntrada(r.q.QueryRow(ctx, selectEntrada+` WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entrada_estoque: %w", err)
	}
	return e, nil
}

// filtroSQL monta o WHERE comum às listagens do razão; col é a coluna de data.
func filtroSQL(t entity.Tenant, f repository.FiltroLancamentos, col string) (string, []any) {
	where := ` WHERE cliente_id = $1 AND empresa_id = $2`
	args := []any{t.ClienteID, t.EmpresaID}
	if f.InsumoID != "" {
		args = append(args, f.InsumoID)
		where += fmt.Sprintf(" AND insumo_id = $%d", len(args))
	}
	if f.De != nil {
		args = append(args, *f.De)
		where += fmt.Sprintf(" AND %s >= $%d", col, len(args))
	}
	if f.Ate != nil {
		args = append(args, *f.Ate)
		where += fmt.Sprintf(" AND %s <= $%d", col, len(args))
	}
	args = append(args, limitOrAll(f.Pagina.Limit), f.Pagina.Offset)
	where += fmt.Sprintf(" ORDER BY %s DESC, criado_em DESC LIMIT $%d OFFSET $%d", col, len(args)-1, len(args))
	return where, args
}

func (r *EntradaEstoqueRepo) List(ctx context.Context, t entity.Tenant, f repository.FiltroLancamentos) ([]*entity.EntradaEstoque, error) {
	where, args := filtroSQL(t, f, "data")
	rows, err := r.q.Query(ctx, selectEntrada+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list entradas_estoque: %w", err)
	}
	defer rows.Close()
	var list []*entity.EntradaEstoque
	for rows.Next() {
		e, err := scanEntrada(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entrada_estoque: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EntradaEstoqueRepo) Delete(ctx context.Context, t entity.Tenant, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM entradas_estoque WHERE cliente_id = $1 AND empresa_id = $2 AND id = $3`,
		t.ClienteID, t.EmpresaID, id)
	if err != nil {
		return fmt.Errorf("delete entrada_estoque: %w", err)
	}
	return nil
}

// SaidaEstoqueRepo implementa SaidaEstoqueRepository.
type SaidaEstoqueRepo struct {
	q Querier
}

// NewSaidaEstoqueRepository constrói o adaptador de saídas de estoque.
func NewSaidaEstoqueRepository(q Querier) *SaidaEstoqueRepo {
	return &SaidaEstoqueRepo{q: q}
}

const selectSaida = `
	SELECT id, cliente_id, empresa_id, insumo_id, batida_id, data_hora, quantidade, valor_estimado, saldo_apos,
	       COALESCE(observacoes, ''), criado_em, COALESCE(criado_por::text, '')
	FROM saidas_estoque`

func scanSaida(s scanner) (*entity.SaidaEstoque, error) {
	var v entity.SaidaEstoque
	err := s.Scan(&v.ID, &v.ClienteID, &v.EmpresaID, &v.InsumoID, &v.BatidaID, &v.DataHora, &v.Quantidade,
		&v.ValorEstimado, &v.SaldoApos, &v.Observacoes, &v.CriadoEm, &v.CriadoPor)
	return &v, err
}

func (r *SaidaEstoqueRepo) Create(ctx context.Context, s *entity.SaidaEstoque) error {
	query := `
		INSERT INTO saidas_estoque (id, cliente_id, empresa_id, insumo_id, batida_id, data_hora, quantidade,
			valor_estimado, saldo_apos, observacoes, criado_em, criado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, s.ID, s.ClienteID, s.EmpresaID, s.InsumoID, s.BatidaID, s.DataHora,
		s.Quantidade, s.ValorEstimado, s.SaldoApos, nullIfEmpty(s.Observacoes), s.CriadoEm, nullIfEmpty(s.CriadoPor))
	if err != nil {
		return fmt.Errorf("insert saida_estoque: %w", err)
	}
	return nil
}

func (r *SaidaEstoqueRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.SaidaEstoque, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list saidas_estoque: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaidaEstoque
	for rows.Next() {
		s, err := scanSaida(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saida_estoque: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SaidaEstoqueRepo) List(ctx context.Context, t entity.Tenant, f repository.FiltroLancamentos) ([]*entity.SaidaEstoque, error) {
	where, args := filtroSQL(t, f, "data_hora")
	return r.query(ctx, selectSaida+where, args...)
}

func (r *SaidaEstoqueRepo) ListByBatida(ctx context.Context, t entity.Tenant, batidaID string) ([]*entity.SaidaEstoque, error) {
	return r.query(ctx, selectSaida+` WHERE cliente_id = $1 AND empresa_id = $2 AND batida_id = $3 ORDER BY data_hora, criado_em`,
		t.ClienteID, t.EmpresaID, batidaID)
}
