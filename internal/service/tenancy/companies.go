package tenancy

import (
	"context"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
)

// CreateCompany cria a empresa e concede ao criador o papel de proprietário
// na mesma transação. Somente desenvolvedores criam empresas.
func (s *Service) CreateCompany(ctx context.Context, scope access.Scope, name, description string) (*company.Company, *membership.Membership, error) {
	if !scope.IsUnrestricted() {
		return nil, nil, s.fail("create_company", denied("user_id", scope.UserID()))
	}

	c, err := company.NewCompany(name, description, scope.UserID())
	if err != nil {
		return nil, nil, s.fail("create_company", err)
	}
	owner, err := membership.NewMembership(scope.UserID(), c.ID, membership.RoleOwner, "")
	if err != nil {
		return nil, nil, s.fail("create_company", err)
	}

	err = s.store.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Companies().Create(ctx, c); err != nil {
			return err
		}
		return tx.Memberships().Create(ctx, owner)
	})
	if err != nil {
		return nil, nil, s.fail("create_company", err, "name", name)
	}

	s.log.Info("empresa criada", "company_id", c.ID, "name", c.Name, "owner_id", scope.UserID())
	return c, owner, nil
}

// GetCompany busca uma empresa visível ao escopo
func (s *Service) GetCompany(ctx context.Context, scope access.Scope, id string) (*company.Company, error) {
	if !scope.CanViewCompany(id) {
		return nil, denied("company_id", id)
	}
	return s.store.Companies().FindByID(ctx, id)
}

// ListCompanies lista as empresas em que o usuário tem vínculo, ou todas
// para o escopo irrestrito
func (s *Service) ListCompanies(ctx context.Context, scope access.Scope) ([]*company.Company, error) {
	if scope.IsUnrestricted() {
		return s.store.Companies().ListAll(ctx)
	}
	ids := scope.CompanyIDs()
	if len(ids) == 0 {
		return []*company.Company{}, nil
	}
	return s.store.Companies().ListByIDs(ctx, ids)
}

// CreateBranch cria uma filial ativa. Exige administrar a empresa.
func (s *Service) CreateBranch(ctx context.Context, scope access.Scope, companyID, name, description string) (*branch.Branch, error) {
	if !scope.CanAdministerCompany(companyID) {
		return nil, s.fail("create_branch", denied("company_id", companyID))
	}
	if _, err := s.store.Companies().FindByID(ctx, companyID); err != nil {
		return nil, s.fail("create_branch", err, "company_id", companyID)
	}

	b, err := branch.NewBranch(companyID, name, description)
	if err != nil {
		return nil, s.fail("create_branch", err)
	}
	if err := s.store.Branches().Create(ctx, b); err != nil {
		return nil, s.fail("create_branch", err, "company_id", companyID, "name", name)
	}

	s.log.Info("filial criada", "branch_id", b.ID, "company_id", companyID, "name", b.Name)
	return b, nil
}

// BranchUpdate traz apenas os campos a alterar
type BranchUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// UpdateBranch altera dados e situação da filial. Exige administrar a empresa.
func (s *Service) UpdateBranch(ctx context.Context, scope access.Scope, branchID string, in BranchUpdate) (*branch.Branch, error) {
	var out *branch.Branch
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		b, err := tx.Branches().FindByIDForUpdate(ctx, branchID)
		if err != nil {
			return err
		}
		if !scope.CanAdministerCompany(b.CompanyID) {
			return denied("branch_id", branchID)
		}

		if in.Name != nil || in.Description != nil {
			name, description := b.Name, b.Description
			if in.Name != nil {
				name = *in.Name
			}
			if in.Description != nil {
				description = *in.Description
			}
			if err := b.Update(name, description); err != nil {
				return err
			}
		}
		if in.IsActive != nil {
			if *in.IsActive {
				b.Activate()
			} else {
				b.Deactivate()
			}
		}

		out = b
		return tx.Branches().Update(ctx, b)
	})
	if err != nil {
		return nil, s.fail("update_branch", err, "branch_id", branchID)
	}

	s.log.Info("filial atualizada", "branch_id", out.ID, "is_active", out.IsActive)
	return out, nil
}

// GetBranch busca uma filial acessível ao escopo
func (s *Service) GetBranch(ctx context.Context, scope access.Scope, id string) (*branch.Branch, error) {
	b, err := s.store.Branches().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessBranch(b.CompanyID, b.ID) {
		return nil, denied("branch_id", id)
	}
	return b, nil
}

// ListBranches lista as filiais da empresa que o escopo acessa
func (s *Service) ListBranches(ctx context.Context, scope access.Scope, companyID string) ([]*branch.Branch, error) {
	if !scope.CanViewCompany(companyID) {
		return nil, denied("company_id", companyID)
	}

	all, err := s.store.Branches().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	visible := make([]*branch.Branch, 0, len(all))
	for _, b := range all {
		if scope.CanAccessBranch(b.CompanyID, b.ID) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

// ListVisibleBranches lista todas as filiais que o escopo acessa
func (s *Service) ListVisibleBranches(ctx context.Context, scope access.Scope) ([]*branch.Branch, error) {
	if scope.IsUnrestricted() {
		return s.store.Branches().ListAll(ctx)
	}
	ids := scope.BranchIDs()
	if len(ids) == 0 {
		return []*branch.Branch{}, nil
	}
	return s.store.Branches().ListByIDs(ctx, ids)
}
