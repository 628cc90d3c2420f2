package tenancy

import (
	"context"
	"errors"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
)

// MembershipInput descreve um vínculo a conceder
type MembershipInput struct {
	UserID    string
	CompanyID string
	Role      membership.Role
	BranchID  string
}

// canGrant decide se o escopo pode conceder (ou mexer em) um vínculo com o papel
func canGrant(scope access.Scope, companyID string, role membership.Role, branchID string) bool {
	switch role {
	case membership.RoleSupervisor:
		return scope.IsUnrestricted()
	case membership.RoleOwner:
		return scope.CanAdministerCompany(companyID)
	case membership.RoleBranchManager:
		return scope.CanSuperviseCompany(companyID)
	case membership.RoleUser:
		return scope.CanSuperviseCompany(companyID) || scope.CanManageBranch(companyID, branchID)
	}
	return false
}

// AddMembership vincula um usuário a uma empresa. Nomear um gerente de filial
// rebaixa o gerente anterior a usuário na mesma transação.
func (s *Service) AddMembership(ctx context.Context, scope access.Scope, in MembershipInput) (*membership.Membership, error) {
	m, err := membership.NewMembership(in.UserID, in.CompanyID, in.Role, in.BranchID)
	if err != nil {
		return nil, s.fail("add_membership", err)
	}
	if !canGrant(scope, in.CompanyID, in.Role, in.BranchID) {
		return nil, s.fail("add_membership", denied("role", string(in.Role)), "company_id", in.CompanyID)
	}

	err = s.store.WithTx(ctx, func(tx store.Repositories) error {
		return s.grant(ctx, tx, m)
	})
	if err != nil {
		return nil, s.fail("add_membership", err, "user_id", in.UserID, "company_id", in.CompanyID)
	}

	s.log.Info("vínculo criado", "membership_id", m.ID, "user_id", m.UserID, "company_id", m.CompanyID, "role", m.Role)
	return m, nil
}

// grant valida as referências do novo vínculo e o grava
func (s *Service) grant(ctx context.Context, tx store.Repositories, m *membership.Membership) error {
	if _, err := tx.Users().FindByID(ctx, m.UserID); err != nil {
		return err
	}
	if _, err := tx.Companies().FindByID(ctx, m.CompanyID); err != nil {
		return err
	}
	if err := s.assign(ctx, tx, m); err != nil {
		return err
	}
	return tx.Memberships().Create(ctx, m)
}

// assign confere a filial do vínculo e, para gerentes, rebaixa o gerente
// atual. A linha da filial fica travada até o fim da transação.
func (s *Service) assign(ctx context.Context, tx store.Repositories, m *membership.Membership) error {
	if m.BranchID == "" {
		return nil
	}

	b, err := tx.Branches().FindByIDForUpdate(ctx, m.BranchID)
	if err != nil {
		return err
	}
	if b.CompanyID != m.CompanyID {
		return membership.ErrBranchMismatch.WithDetail("branch_id", m.BranchID)
	}
	if m.Role != membership.RoleBranchManager {
		return nil
	}

	current, err := tx.Memberships().FindBranchManager(ctx, m.BranchID)
	if errors.Is(err, membership.ErrMembershipNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if current.ID == m.ID {
		return nil
	}

	current.Demote()
	if err := tx.Memberships().Update(ctx, current); err != nil {
		return err
	}
	s.log.Info("gerente de filial rebaixado", "membership_id", current.ID, "user_id", current.UserID, "branch_id", m.BranchID)
	return nil
}

// UpdateMembership troca papel e filial de um vínculo
func (s *Service) UpdateMembership(ctx context.Context, scope access.Scope, id string, role membership.Role, branchID string) (*membership.Membership, error) {
	var out *membership.Membership
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		m, err := tx.Memberships().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !canGrant(scope, m.CompanyID, m.Role, m.BranchID) || !canGrant(scope, m.CompanyID, role, branchID) {
			return denied("membership_id", id)
		}

		if m.Role == membership.RoleOwner && role != membership.RoleOwner {
			if err := ensureAnotherOwner(ctx, tx, m); err != nil {
				return err
			}
		}

		if err := m.ChangeRole(role, branchID); err != nil {
			return err
		}
		if err := s.assign(ctx, tx, m); err != nil {
			return err
		}

		out = m
		return tx.Memberships().Update(ctx, m)
	})
	if err != nil {
		return nil, s.fail("update_membership", err, "membership_id", id, "role", string(role))
	}

	s.log.Info("vínculo atualizado", "membership_id", out.ID, "role", out.Role, "branch_id", out.BranchID)
	return out, nil
}

// RemoveMembership desfaz um vínculo. A empresa nunca fica sem proprietário.
func (s *Service) RemoveMembership(ctx context.Context, scope access.Scope, id string) error {
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		m, err := tx.Memberships().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !canGrant(scope, m.CompanyID, m.Role, m.BranchID) {
			return denied("membership_id", id)
		}
		if m.Role == membership.RoleOwner {
			if err := ensureAnotherOwner(ctx, tx, m); err != nil {
				return err
			}
		}
		return tx.Memberships().Delete(ctx, id)
	})
	if err != nil {
		return s.fail("remove_membership", err, "membership_id", id)
	}

	s.log.Info("vínculo removido", "membership_id", id, "user_id", scope.UserID())
	return nil
}

func ensureAnotherOwner(ctx context.Context, tx store.Repositories, m *membership.Membership) error {
	all, err := tx.Memberships().ListByCompany(ctx, m.CompanyID)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID != m.ID && other.Role == membership.RoleOwner {
			return nil
		}
	}
	return membership.ErrLastOwner.WithDetail("company_id", m.CompanyID)
}

// ListMemberships lista os vínculos da empresa. Quem não supervisiona a
// empresa vê apenas os vínculos das filiais que acessa.
func (s *Service) ListMemberships(ctx context.Context, scope access.Scope, companyID string) ([]*membership.Membership, error) {
	if !scope.CanViewCompany(companyID) {
		return nil, denied("company_id", companyID)
	}

	all, err := s.store.Memberships().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if scope.CanSuperviseCompany(companyID) {
		return all, nil
	}

	visible := make([]*membership.Membership, 0, len(all))
	for _, m := range all {
		if m.UserID == scope.UserID() || (m.BranchID != "" && scope.CanAccessBranch(companyID, m.BranchID)) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}
