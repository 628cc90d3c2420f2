package tenancy

import (
	"context"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
)

func canEditCategory(scope access.Scope, companyID, branchID string) bool {
	if branchID == "" {
		return scope.CanSuperviseCompany(companyID)
	}
	return scope.CanManageBranch(companyID, branchID)
}

// CreateCategory cria uma categoria da empresa ou de uma de suas filiais
func (s *Service) CreateCategory(ctx context.Context, scope access.Scope, companyID, branchID, name, description string) (*category.Category, error) {
	if !canEditCategory(scope, companyID, branchID) {
		return nil, s.fail("create_category", denied("company_id", companyID), "branch_id", branchID)
	}

	if branchID != "" {
		b, err := s.store.Branches().FindByID(ctx, branchID)
		if err != nil {
			return nil, s.fail("create_category", err, "branch_id", branchID)
		}
		if b.CompanyID != companyID {
			return nil, s.fail("create_category", category.ErrScopeMismatch.WithDetail("branch_id", branchID))
		}
	} else if _, err := s.store.Companies().FindByID(ctx, companyID); err != nil {
		return nil, s.fail("create_category", err, "company_id", companyID)
	}

	c, err := category.NewCategory(companyID, branchID, name, description)
	if err != nil {
		return nil, s.fail("create_category", err)
	}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		return nil, s.fail("create_category", err, "name", name)
	}

	s.log.Info("categoria criada", "category_id", c.ID, "company_id", companyID, "branch_id", branchID)
	return c, nil
}

// ListCategories lista as categorias da empresa; com filial, as da filial e
// as que valem para a empresa inteira
func (s *Service) ListCategories(ctx context.Context, scope access.Scope, companyID, branchID string) ([]*category.Category, error) {
	if branchID != "" {
		b, err := s.store.Branches().FindByID(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if b.CompanyID != companyID || !scope.CanAccessBranch(companyID, branchID) {
			return nil, denied("branch_id", branchID)
		}
	} else if !scope.CanViewCompany(companyID) {
		return nil, denied("company_id", companyID)
	}

	return s.store.Categories().ListByCompany(ctx, companyID, branchID)
}

// DeleteCategory remove a categoria; os itens dela ficam sem categoria
func (s *Service) DeleteCategory(ctx context.Context, scope access.Scope, id string) error {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return s.fail("delete_category", err, "category_id", id)
	}
	if !canEditCategory(scope, c.CompanyID, c.BranchID) {
		return s.fail("delete_category", denied("category_id", id))
	}
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return s.fail("delete_category", err, "category_id", id)
	}

	s.log.Info("categoria removida", "category_id", id, "user_id", scope.UserID())
	return nil
}
