package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, description, owner_id, created_at, updated_at`

// CompanyRepository implementa company.Repository usando PostgreSQL
type CompanyRepository struct {
	q querier
}

// Create implementa company.Repository.Create
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	query := `INSERT INTO companies (` + companyColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Description, c.OwnerID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == "uq_companies_name" {
			return company.ErrDuplicateName.WithDetail("name", c.Name)
		}
		return fmt.Errorf("falha ao criar empresa: %w", err)
	}
	return nil
}

// FindByID implementa company.Repository.FindByID
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*company.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound.WithDetail("company_id", id)
		}
		return nil, fmt.Errorf("falha ao buscar empresa: %w", err)
	}
	return c, nil
}

// ListAll implementa company.Repository.ListAll
func (r *CompanyRepository) ListAll(ctx context.Context) ([]*company.Company, error) {
	return r.list(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
}

// ListByIDs implementa company.Repository.ListByIDs
func (r *CompanyRepository) ListByIDs(ctx context.Context, ids []string) ([]*company.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ANY($1) ORDER BY name`, ids)
}

func (r *CompanyRepository) list(ctx context.Context, query string, args ...any) ([]*company.Company, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar empresas: %w", err)
	}
	companies, err := collect(rows, scanCompany)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler empresas: %w", err)
	}
	return companies, nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var c company.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
