package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const membershipColumns = `id, user_id, company_id, role, branch_id, created_at, updated_at`

// MembershipRepository implementa membership.Repository usando PostgreSQL
type MembershipRepository struct {
	q querier
}

// Create implementa membership.Repository.Create
func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	query := `INSERT INTO company_memberships (` + membershipColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.CompanyID, string(m.Role), nullable(m.BranchID), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return r.mapWriteError(err, m, "criar")
	}
	return nil
}

// Update implementa membership.Repository.Update
func (r *MembershipRepository) Update(ctx context.Context, m *membership.Membership) error {
	query := `UPDATE company_memberships SET role = $1, branch_id = $2, updated_at = $3 WHERE id = $4`

	result, err := r.q.Exec(ctx, query, string(m.Role), nullable(m.BranchID), m.UpdatedAt, m.ID)
	if err != nil {
		return r.mapWriteError(err, m, "atualizar")
	}
	if result.RowsAffected() == 0 {
		return membership.ErrMembershipNotFound.WithDetail("membership_id", m.ID)
	}
	return nil
}

func (r *MembershipRepository) mapWriteError(err error, m *membership.Membership, action string) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "uq_memberships_user_company":
			return membership.ErrDuplicateMembership.WithDetail("user_id", m.UserID)
		case "uq_memberships_branch_manager":
			return membership.ErrDuplicateManager.WithDetail("branch_id", m.BranchID)
		}
	}
	return fmt.Errorf("falha ao %s vínculo: %w", action, err)
}

// Delete implementa membership.Repository.Delete
func (r *MembershipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM company_memberships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover vínculo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return membership.ErrMembershipNotFound.WithDetail("membership_id", id)
	}
	return nil
}

// FindByID implementa membership.Repository.FindByID
func (r *MembershipRepository) FindByID(ctx context.Context, id string) (*membership.Membership, error) {
	return r.find(ctx, `WHERE id = $1`, id)
}

// FindByUserAndCompany implementa membership.Repository.FindByUserAndCompany
func (r *MembershipRepository) FindByUserAndCompany(ctx context.Context, userID, companyID string) (*membership.Membership, error) {
	return r.find(ctx, `WHERE user_id = $1 AND company_id = $2`, userID, companyID)
}

// FindBranchManager implementa membership.Repository.FindBranchManager
func (r *MembershipRepository) FindBranchManager(ctx context.Context, branchID string) (*membership.Membership, error) {
	return r.find(ctx, `WHERE branch_id = $1 AND role = 'BRANCH_MANAGER'`, branchID)
}

func (r *MembershipRepository) find(ctx context.Context, where string, args ...any) (*membership.Membership, error) {
	m, err := scanMembership(r.q.QueryRow(ctx, `SELECT `+membershipColumns+` FROM company_memberships `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, membership.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("falha ao buscar vínculo: %w", err)
	}
	return m, nil
}

// ListByUser implementa membership.Repository.ListByUser
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

// ListByCompany implementa membership.Repository.ListByCompany
func (r *MembershipRepository) ListByCompany(ctx context.Context, companyID string) ([]*membership.Membership, error) {
	return r.list(ctx, `WHERE company_id = $1`, companyID)
}

func (r *MembershipRepository) list(ctx context.Context, where string, args ...any) ([]*membership.Membership, error) {
	rows, err := r.q.Query(ctx, `SELECT `+membershipColumns+` FROM company_memberships `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar vínculos: %w", err)
	}
	memberships, err := collect(rows, scanMembership)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler vínculos: %w", err)
	}
	return memberships, nil
}

func scanMembership(row pgx.Row) (*membership.Membership, error) {
	var (
		m        membership.Membership
		role     string
		branchID pgtype.Text
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.CompanyID, &role, &branchID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Role = membership.Role(role)
	m.BranchID = textValue(branchID)
	return &m, nil
}
