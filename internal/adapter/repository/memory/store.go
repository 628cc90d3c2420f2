// Package memory implementa o store em memória. Transações são serializadas
// por um único mutex e aplicadas sobre uma cópia dos dados, que só substitui
// o estado publicado quando a função termina sem erro.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

type data struct {
	companies    map[string]company.Company
	branches     map[string]branch.Branch
	memberships  map[string]membership.Membership
	categories   map[string]category.Category
	users        map[string]user.User
	items        map[string]item.Item
	transactions []transaction.Transaction
}

func newData() *data {
	return &data{
		companies:   make(map[string]company.Company),
		branches:    make(map[string]branch.Branch),
		memberships: make(map[string]membership.Membership),
		categories:  make(map[string]category.Category),
		users:       make(map[string]user.User),
		items:       make(map[string]item.Item),
	}
}

func (d *data) clone() *data {
	return &data{
		companies:    maps.Clone(d.companies),
		branches:     maps.Clone(d.branches),
		memberships:  maps.Clone(d.memberships),
		categories:   maps.Clone(d.categories),
		users:        maps.Clone(d.users),
		items:        maps.Clone(d.items),
		transactions: slices.Clone(d.transactions),
	}
}

// Store é o store em memória
type Store struct {
	mu   sync.Mutex
	data *data
	view
}

// NewStore cria um store vazio
func NewStore() *Store {
	s := &Store{data: newData()}
	s.view = view{st: s}
	return s
}

// WithTx implementa store.Store.WithTx
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.data.clone()
	if err := fn(&view{st: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.data = tx
	return nil
}

// view resolve onde ler e escrever: direto no estado publicado, sob o
// mutex, ou na cópia de uma transação em andamento
type view struct {
	st *Store
	tx *data
}

func (v *view) with(fn func(d *data) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.st.mu.Lock()
	defer v.st.mu.Unlock()
	return fn(v.st.data)
}

func (v *view) Companies() company.Repository { return companyRepo{v} }
func (v *view) Branches() branch.Repository { return branchRepo{v} }
func (v *view) Memberships() membership.Repository { return membershipRepo{v} }
func (v *view) Categories() category.Repository { return categoryRepo{v} }
func (v *view) Users() user.Repository { return userRepo{v} }
func (v *view) Items() item.Repository { return itemRepo{v} }
func (v *view) Transactions() transaction.Repository { return transactionRepo{v} }

var _ store.Store = (*Store)(nil)

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
