package store

import (
	"context"

	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

// Repositories agrupa os repositórios que compartilham a mesma conexão
// ou transação
type Repositories interface {
	Companies() company.Repository
	Branches() branch.Repository
	Memberships() membership.Repository
	Categories() category.Repository
	Users() user.Repository
	Items() item.Repository
	Transactions() transaction.Repository
}

// Store dá acesso aos repositórios fora de transação e abre unidades
// atômicas de trabalho
type Store interface {
	Repositories

	// WithTx executa fn em uma transação. Se fn retornar erro, nada do que
	// foi escrito pelos repositórios recebidos é persistido.
	WithTx(ctx context.Context, fn func(tx Repositories) error) error
}
