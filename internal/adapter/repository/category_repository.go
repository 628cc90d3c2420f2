package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const categoryColumns = `id, company_id, branch_id, name, description, created_at`

// CategoryRepository implementa category.Repository usando PostgreSQL
type CategoryRepository struct {
	q querier
}

// Create implementa category.Repository.Create
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, nullable(c.BranchID), c.Name, c.Description, c.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == "uq_categories_scope_name" {
			return category.ErrDuplicateName.WithDetail("name", c.Name)
		}
		return fmt.Errorf("falha ao criar categoria: %w", err)
	}
	return nil
}

// Delete implementa category.Repository.Delete. Itens da categoria ficam
// sem categoria pela chave estrangeira.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover categoria: %w", err)
	}
	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound.WithDetail("category_id", id)
	}
	return nil
}

// FindByID implementa category.Repository.FindByID
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*category.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound.WithDetail("category_id", id)
		}
		return nil, fmt.Errorf("falha ao buscar categoria: %w", err)
	}
	return c, nil
}

// ListByCompany implementa category.Repository.ListByCompany
func (r *CategoryRepository) ListByCompany(ctx context.Context, companyID, branchID string) ([]*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE company_id = $1`
	args := []any{companyID}
	if branchID != "" {
		query += ` AND (branch_id IS NULL OR branch_id = $2)`
		args = append(args, branchID)
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar categorias: %w", err)
	}
	categories, err := collect(rows, scanCategory)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler categorias: %w", err)
	}
	return categories, nil
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	var (
		c        category.Category
		branchID pgtype.Text
	)
	if err := row.Scan(&c.ID, &c.CompanyID, &branchID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.BranchID = textValue(branchID)
	return &c, nil
}
