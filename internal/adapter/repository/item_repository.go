package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const itemColumns = `id, branch_id, item_code, name, description, category_id, barcode_number, hold,
	stock_quantity, original_stock_quantity, minimum_stock, created_by, created_at, updated_at`

// ItemRepository implementa item.Repository usando PostgreSQL
type ItemRepository struct {
	q querier
}

// Create implementa item.Repository.Create
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.Exec(ctx, query,
		it.ID,
		it.BranchID,
		it.Code,
		it.Name,
		it.Description,
		nullable(it.CategoryID),
		nullable(it.BarcodeNumber),
		nullable(string(it.Hold)),
		it.StockQuantity,
		it.OriginalStockQuantity,
		it.MinimumStock,
		nullable(it.CreatedBy),
		it.CreatedAt,
		it.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError(err, it, "criar")
	}
	return nil
}

// Update implementa item.Repository.Update
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, category_id = $3, barcode_number = $4, hold = $5,
			stock_quantity = $6, original_stock_quantity = $7, minimum_stock = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.q.Exec(ctx, query,
		it.Name,
		it.Description,
		nullable(it.CategoryID),
		nullable(it.BarcodeNumber),
		nullable(string(it.Hold)),
		it.StockQuantity,
		it.OriginalStockQuantity,
		it.MinimumStock,
		it.UpdatedAt,
		it.ID,
	)
	if err != nil {
		return r.mapWriteError(err, it, "atualizar")
	}
	if result.RowsAffected() == 0 {
		return item.ErrItemNotFound.WithDetail("item_id", it.ID)
	}
	return nil
}

func (r *ItemRepository) mapWriteError(err error, it *item.Item, action string) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "uq_items_code":
			return item.ErrDuplicateCode.WithDetail("item_id", it.Code)
		case "uq_items_branch_barcode":
			return item.ErrDuplicateBarcode.WithDetail("barcode_number", it.BarcodeNumber)
		}
	}
	if pgErr, ok := pgError(err, codeCheckViolation); ok && pgErr.ConstraintName == "ck_items_stock" {
		return item.ErrExceedsOriginalStock.WithDetail("stock_quantity", it.StockQuantity)
	}
	if _, ok := pgError(err, codeOutOfRange); ok {
		return item.ErrInvalidValue.WithDetail("stock_quantity", it.StockQuantity)
	}
	return fmt.Errorf("falha ao %s item: %w", action, err)
}

// Delete implementa item.Repository.Delete. As transações do item ficam com
// item_id nulo pela chave estrangeira.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return item.ErrItemNotFound.WithDetail("item_id", id)
	}
	return nil
}

// FindByID implementa item.Repository.FindByID
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*item.Item, error) {
	return r.find(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// FindByIDForUpdate implementa item.Repository.FindByIDForUpdate
func (r *ItemRepository) FindByIDForUpdate(ctx context.Context, id string) (*item.Item, error) {
	return r.find(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepository) find(ctx context.Context, query, id string) (*item.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if _, invalid := pgError(err, codeInvalidText); invalid || errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound.WithDetail("item_id", id)
		}
		return nil, fmt.Errorf("falha ao buscar item: %w", err)
	}
	return it, nil
}

// FindByScanValue implementa item.Repository.FindByScanValue
func (r *ItemRepository) FindByScanValue(ctx context.Context, value string) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE barcode_number = $1 OR item_code = $1 ORDER BY name, id`
	return r.list(ctx, query, value)
}

// List implementa item.Repository.List
func (r *ItemRepository) List(ctx context.Context, f item.Filter) ([]*item.Item, error) {
	where, args := itemWhere(f)
	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY name, id`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	return r.list(ctx, query, args...)
}

// Count implementa item.Repository.Count
func (r *ItemRepository) Count(ctx context.Context, f item.Filter) (int, error) {
	where, args := itemWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("falha ao contar itens: %w", err)
	}
	return total, nil
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...any) ([]*item.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar itens: %w", err)
	}
	items, err := collect(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler itens: %w", err)
	}
	return items, nil
}

func itemWhere(f item.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(f.BranchIDs) > 0 {
		args = append(args, f.BranchIDs)
		conds = append(conds, fmt.Sprintf("branch_id = ANY($%d)", len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR item_code ILIKE $%d OR barcode_number ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanItem(row pgx.Row) (*item.Item, error) {
	var (
		it         item.Item
		categoryID pgtype.Text
		barcode    pgtype.Text
		hold       pgtype.Text
		createdBy  pgtype.Text
	)
	err := row.Scan(
		&it.ID,
		&it.BranchID,
		&it.Code,
		&it.Name,
		&it.Description,
		&categoryID,
		&barcode,
		&hold,
		&it.StockQuantity,
		&it.OriginalStockQuantity,
		&it.MinimumStock,
		&createdBy,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.CategoryID = textValue(categoryID)
	it.BarcodeNumber = textValue(barcode)
	it.Hold = item.Hold(textValue(hold))
	it.CreatedBy = textValue(createdBy)
	return &it, nil
}
