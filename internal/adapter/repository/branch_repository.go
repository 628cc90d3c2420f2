package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/jackc/pgx/v5"
)

const branchColumns = `id, company_id, name, description, is_active, created_at, updated_at`

// BranchRepository implementa branch.Repository usando PostgreSQL
type BranchRepository struct {
	q querier
}

// Create implementa branch.Repository.Create
func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	query := `INSERT INTO branches (` + branchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.Exec(ctx, query, b.ID, b.CompanyID, b.Name, b.Description, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return r.mapWriteError(err, b, "criar")
	}
	return nil
}

// Update implementa branch.Repository.Update
func (r *BranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	query := `
		UPDATE branches
		SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.q.Exec(ctx, query, b.Name, b.Description, b.IsActive, b.UpdatedAt, b.ID)
	if err != nil {
		return r.mapWriteError(err, b, "atualizar")
	}
	if result.RowsAffected() == 0 {
		return branch.ErrBranchNotFound.WithDetail("branch_id", b.ID)
	}
	return nil
}

func (r *BranchRepository) mapWriteError(err error, b *branch.Branch, action string) error {
	if constraint, ok := uniqueConstraint(err); ok && constraint == "uq_branches_company_name" {
		return branch.ErrDuplicateName.WithDetail("name", b.Name)
	}
	return fmt.Errorf("falha ao %s filial: %w", action, err)
}

// FindByID implementa branch.Repository.FindByID
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*branch.Branch, error) {
	return r.find(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id)
}

// FindByIDForUpdate implementa branch.Repository.FindByIDForUpdate
func (r *BranchRepository) FindByIDForUpdate(ctx context.Context, id string) (*branch.Branch, error) {
	return r.find(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BranchRepository) find(ctx context.Context, query, id string) (*branch.Branch, error) {
	b, err := scanBranch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, branch.ErrBranchNotFound.WithDetail("branch_id", id)
		}
		return nil, fmt.Errorf("falha ao buscar filial: %w", err)
	}
	return b, nil
}

// ListByCompany implementa branch.Repository.ListByCompany
func (r *BranchRepository) ListByCompany(ctx context.Context, companyID string) ([]*branch.Branch, error) {
	return r.list(ctx, `SELECT `+branchColumns+` FROM branches WHERE company_id = $1 ORDER BY name`, companyID)
}

// ListByCompanies implementa branch.Repository.ListByCompanies
func (r *BranchRepository) ListByCompanies(ctx context.Context, companyIDs []string) ([]*branch.Branch, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+branchColumns+` FROM branches WHERE company_id = ANY($1) ORDER BY name`, companyIDs)
}

// ListByIDs implementa branch.Repository.ListByIDs
func (r *BranchRepository) ListByIDs(ctx context.Context, ids []string) ([]*branch.Branch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = ANY($1) ORDER BY name`, ids)
}

// ListAll implementa branch.Repository.ListAll
func (r *BranchRepository) ListAll(ctx context.Context) ([]*branch.Branch, error) {
	return r.list(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY name`)
}

func (r *BranchRepository) list(ctx context.Context, query string, args ...any) ([]*branch.Branch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar filiais: %w", err)
	}
	branches, err := collect(rows, scanBranch)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler filiais: %w", err)
	}
	return branches, nil
}

func scanBranch(row pgx.Row) (*branch.Branch, error) {
	var b branch.Branch
	if err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.Description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
