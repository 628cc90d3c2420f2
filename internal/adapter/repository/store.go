// Package repository implementa o store sobre PostgreSQL com pgx. Os mesmos
// repositórios funcionam sobre o pool ou sobre uma transação aberta.
package repository

import (
	"context"
	"errors"

	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// querier é o subconjunto comum a *pgxpool.Pool e pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// repositories liga cada repositório ao mesmo querier
type repositories struct {
	q querier
}

func (r repositories) Companies() company.Repository       { return &CompanyRepository{q: r.q} }
func (r repositories) Branches() branch.Repository         { return &BranchRepository{q: r.q} }
func (r repositories) Memberships() membership.Repository  { return &MembershipRepository{q: r.q} }
func (r repositories) Categories() category.Repository     { return &CategoryRepository{q: r.q} }
func (r repositories) Users() user.Repository              { return &UserRepository{q: r.q} }
func (r repositories) Items() item.Repository              { return &ItemRepository{q: r.q} }
func (r repositories) Transactions() transaction.Repository { return &TransactionRepository{q: r.q} }

// PostgresStore implementa store.Store
type PostgresStore struct {
	repositories
	db *database.PostgresDB
}

// NewPostgresStore cria o store sobre o pool do banco
func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{
		repositories: repositories{q: db.Pool()},
		db:           db,
	}
}

// WithTx implementa store.Store.WithTx
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx store.Repositories) error) error {
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		return fn(repositories{q: tx})
	})
}

var _ store.Store = (*PostgresStore)(nil)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeOutOfRange      = "22003"
	codeInvalidText     = "22P02"
)

// pgError extrai o erro do servidor com o código informado
func pgError(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}

// uniqueConstraint retorna a restrição de unicidade violada, se for o caso
func uniqueConstraint(err error) (string, bool) {
	pgErr, ok := pgError(err, codeUniqueViolation)
	if !ok {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// nullable grava string vazia como NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// collect percorre as linhas aplicando scan a cada uma
func collect[T any](rows pgx.Rows, scan func(row pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
