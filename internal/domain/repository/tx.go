package repository

import "context"

// TxRepos agrupa os repositórios atados a uma mesma transação.
type TxRepos struct {
	Saldos      SaldoRepository
	Entradas    EntradaEstoqueRepository
	Saidas      SaidaEstoqueRepository
	Insumos     InsumoRepository
	Dietas      DietaRepository
	PreMisturas PreMisturaRepository
	Batidas     BatidaRepository
	Razao       RazaoRepository
}

// TxRunner executa fn numa transação: Commit se fn devolver nil, Rollback caso contrário.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
