package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const transactionColumns = `id, reference_number, branch_id, item_id, item_code, item_name, user_id,
	transaction_type, quantity, stock_before, stock_after, notes, "timestamp"`

// TransactionRepository implementa transaction.Repository usando PostgreSQL.
// Só há inserção e leitura.
type TransactionRepository struct {
	q querier
}

// Create implementa transaction.Repository.Create
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.Exec(ctx, query,
		t.ID,
		t.ReferenceNumber,
		t.BranchID,
		nullable(t.ItemID),
		t.ItemCode,
		t.ItemName,
		t.UserID,
		string(t.Type),
		t.Quantity,
		t.StockBefore,
		t.StockAfter,
		t.Notes,
		t.Timestamp,
	)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == "uq_transactions_reference" {
			return transaction.ErrDuplicateReference.WithDetail("reference_number", t.ReferenceNumber)
		}
		return fmt.Errorf("falha ao registrar transação: %w", err)
	}
	return nil
}

// FindByID implementa transaction.Repository.FindByID
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound.WithDetail("transaction_id", id)
		}
		return nil, fmt.Errorf("falha ao buscar transação: %w", err)
	}
	return t, nil
}

// List implementa transaction.Repository.List
func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]*transaction.Transaction, error) {
	where, args := transactionWhere(f)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY "timestamp" DESC, id`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar transações: %w", err)
	}
	list, err := collect(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler transações: %w", err)
	}
	return list, nil
}

// Count implementa transaction.Repository.Count
func (r *TransactionRepository) Count(ctx context.Context, f transaction.Filter) (int, error) {
	where, args := transactionWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("falha ao contar transações: %w", err)
	}
	return total, nil
}

// Summarize implementa transaction.Repository.Summarize
func (r *TransactionRepository) Summarize(ctx context.Context, branchIDs []string, from, to *time.Time) ([]transaction.BranchSummary, error) {
	if len(branchIDs) == 0 {
		return []transaction.BranchSummary{}, nil
	}

	where, args := transactionWhere(transaction.Filter{BranchIDs: branchIDs, From: from, To: to})

	summaries := make(map[string]*transaction.BranchSummary, len(branchIDs))
	for _, id := range branchIDs {
		summaries[id] = &transaction.BranchSummary{BranchID: id, TopItems: []transaction.ItemCount{}}
	}

	totals := `
		SELECT branch_id,
			COUNT(*),
			COUNT(*) FILTER (WHERE transaction_type = 'WITHDRAW'),
			COUNT(*) FILTER (WHERE transaction_type = 'RETURN'),
			COUNT(DISTINCT user_id)
		FROM transactions` + where + `
		GROUP BY branch_id
	`
	rows, err := r.q.Query(ctx, totals, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao agregar transações: %w", err)
	}
	for rows.Next() {
		var (
			branchID string
			s        transaction.BranchSummary
		)
		if err := rows.Scan(&branchID, &s.TotalTransactions, &s.Withdrawals, &s.Returns, &s.UniqueUsers); err != nil {
			rows.Close()
			return nil, fmt.Errorf("falha ao ler agregados: %w", err)
		}
		if acc, ok := summaries[branchID]; ok {
			acc.TotalTransactions = s.TotalTransactions
			acc.Withdrawals = s.Withdrawals
			acc.Returns = s.Returns
			acc.UniqueUsers = s.UniqueUsers
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao ler agregados: %w", err)
	}

	args = append(args, transaction.TopItemsLimit)
	top := fmt.Sprintf(`
		SELECT branch_id, item_name, total FROM (
			SELECT branch_id, item_name, COUNT(*) AS total,
				ROW_NUMBER() OVER (PARTITION BY branch_id ORDER BY COUNT(*) DESC, item_name) AS position
			FROM transactions%s
			GROUP BY branch_id, item_name
		) ranked
		WHERE position <= $%d
		ORDER BY branch_id, position
	`, where, len(args))
	rows, err = r.q.Query(ctx, top, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens mais movimentados: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			branchID string
			ic       transaction.ItemCount
		)
		if err := rows.Scan(&branchID, &ic.ItemName, &ic.Count); err != nil {
			return nil, fmt.Errorf("falha ao ler itens mais movimentados: %w", err)
		}
		if acc, ok := summaries[branchID]; ok {
			acc.TopItems = append(acc.TopItems, ic)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao ler itens mais movimentados: %w", err)
	}

	out := make([]transaction.BranchSummary, 0, len(branchIDs))
	for _, id := range branchIDs {
		out = append(out, *summaries[id])
	}
	return out, nil
}

func transactionWhere(f transaction.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if len(f.BranchIDs) > 0 {
		add("branch_id = ANY($%d)", f.BranchIDs)
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.Type != "" {
		add("transaction_type = $%d", string(f.Type))
	}
	if f.From != nil {
		add(`"timestamp" >= $%d`, *f.From)
	}
	if f.To != nil {
		add(`"timestamp" <= $%d`, *f.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var (
		t      transaction.Transaction
		itemID pgtype.Text
		kind   string
	)
	err := row.Scan(
		&t.ID,
		&t.ReferenceNumber,
		&t.BranchID,
		&itemID,
		&t.ItemCode,
		&t.ItemName,
		&t.UserID,
		&kind,
		&t.Quantity,
		&t.StockBefore,
		&t.StockAfter,
		&t.Notes,
		&t.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	t.ItemID = textValue(itemID)
	t.Type = transaction.Type(kind)
	return &t, nil
}
