package estoque

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	avaliacao "github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

// ItemBaixa é a quantidade (kg) a baixar de um insumo.
type ItemBaixa struct {
	InsumoID   string
	Nome       string // usado na mensagem de estoque insuficiente; buscado quando vazio
	Quantidade decimal.Decimal
}

// Baixa descreve um lote de saídas lançado de uma só vez.
type Baixa struct {
	Tenant      entity.Tenant
	Itens       []ItemBaixa
	BatidaID    *string
	DataHora    time.Time
	Observacoes string
	CriadoPor   string
}

// LancarBaixa lança as saídas de estoque dentro da transação de repos, com a regra de
// tudo-ou-nada: bloqueia os saldos em ordem crescente de insumo, confere todos e só então grava.
// Qualquer item sem saldo aborta com InsufficientStockError antes de qualquer escrita.
func LancarBaixa(ctx context.Context, repos repository.TxRepos, b Baixa) ([]*entity.SaidaEstoque, error) {
	itens := agrupar(b.Itens)
	if len(itens) == 0 {
		return nil, domain.NewValidationError("Nenhum ingrediente a baixar")
	}

	saldos := make([]*entity.SaldoInsumo, len(itens))
	for i, it := range itens {
		s, err := repos.Saldos.GetForUpdate(ctx, b.Tenant, it.InsumoID)
		if err != nil {
			return nil, fmt.Errorf("bloquear saldo %s: %w", it.InsumoID, err)
		}
		saldos[i] = s
	}

	for i, it := range itens {
		disponivel := avaliacao.PosicaoDoSaldo(saldos[i]).Saldo()
		if it.Quantidade.GreaterThan(disponivel) {
			nome, err := nomeDoInsumo(ctx, repos, b.Tenant, it)
			if err != nil {
				return nil, err
			}
			return nil, &domain.InsufficientStockError{Insumo: nome, Disponivel: disponivel, Necessario: it.Quantidade}
		}
	}

	now := time.Now()
	out := make([]*entity.SaidaEstoque, 0, len(itens))
	for i, it := range itens {
		pos := avaliacao.PosicaoDoSaldo(saldos[i])
		depois := pos.ComSaida(it.Quantidade)
		s := &entity.SaidaEstoque{
			ID:            uuid.New().String(),
			ClienteID:     b.Tenant.ClienteID,
			EmpresaID:     b.Tenant.EmpresaID,
			InsumoID:      it.InsumoID,
			BatidaID:      b.BatidaID,
			DataHora:      b.DataHora,
			Quantidade:    it.Quantidade,
			ValorEstimado: it.Quantidade.Mul(pos.CustoMedio()).Round(2),
			SaldoApos:     depois.Saldo(),
			Observacoes:   b.Observacoes,
			CriadoEm:      now,
			CriadoPor:     b.CriadoPor,
		}
		if err := repos.Saidas.Create(ctx, s); err != nil {
			return nil, fmt.Errorf("gravar saída %s: %w", it.InsumoID, err)
		}
		saldos[i].QuantidadeSaidasKg = depois.QuantidadeSaidasKg
		if err := repos.Saldos.Upsert(ctx, saldos[i]); err != nil {
			return nil, fmt.Errorf("atualizar saldo %s: %w", it.InsumoID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// agrupar arredonda cada item à escala do razão, soma itens do mesmo insumo, descarta
// quantidades não positivas e ordena por id, que é a ordem de bloqueio.
func agrupar(itens []ItemBaixa) []ItemBaixa {
	idx := map[string]int{}
	var out []ItemBaixa
	for _, it := range itens {
		it.Quantidade = avaliacao.ArredondarKg(it.Quantidade)
		if it.InsumoID == "" || !it.Quantidade.IsPositive() {
			continue
		}
		if i, ok := idx[it.InsumoID]; ok {
			out[i].Quantidade = out[i].Quantidade.Add(it.Quantidade)
			if out[i].Nome == "" {
				out[i].Nome = it.Nome
			}
			continue
		}
		idx[it.InsumoID] = len(out)
		out = append(out, it)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].InsumoID < out[b].InsumoID })
	return out
}

func nomeDoInsumo(ctx context.Context, repos repository.TxRepos, t entity.Tenant, it ItemBaixa) (string, error) {
	if it.Nome != "" {
		return it.Nome, nil
	}
	i, err := repos.Insumos.GetByID(ctx, t, it.InsumoID)
	if err != nil {
		return "", err
	}
	if i == nil {
		return it.InsumoID, nil
	}
	return i.Nome, nil
}
