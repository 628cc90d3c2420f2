package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

type companyRepo struct{ v *view }

func (r companyRepo) Create(ctx context.Context, c *company.Company) error {
	return r.v.with(func(d *data) error {
		for _, existing := range d.companies {
			if strings.EqualFold(existing.Name, c.Name) {
				return company.ErrDuplicateName.WithDetail("name", c.Name)
			}
		}
		d.companies[c.ID] = *c
		return nil
	})
}

func (r companyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	var out *company.Company
	err := r.v.with(func(d *data) error {
		c, ok := d.companies[id]
		if !ok {
			return company.ErrCompanyNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r companyRepo) ListAll(ctx context.Context) ([]*company.Company, error) {
	return r.list(func(*company.Company) bool { return true })
}

func (r companyRepo) ListByIDs(ctx context.Context, ids []string) ([]*company.Company, error) {
	set := toSet(ids)
	return r.list(func(c *company.Company) bool {
		_, ok := set[c.ID]
		return ok
	})
}

func (r companyRepo) list(match func(*company.Company) bool) ([]*company.Company, error) {
	var out []*company.Company
	err := r.v.with(func(d *data) error {
		for _, c := range d.companies {
			if match(&c) {
				out = append(out, &c)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *company.Company) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

type branchRepo struct{ v *view }

func (r branchRepo) Create(ctx context.Context, b *branch.Branch) error {
	return r.save(b, true)
}

func (r branchRepo) Update(ctx context.Context, b *branch.Branch) error {
	return r.save(b, false)
}

func (r branchRepo) save(b *branch.Branch, insert bool) error {
	return r.v.with(func(d *data) error {
		_, exists := d.branches[b.ID]
		if !insert && !exists {
			return branch.ErrBranchNotFound
		}
		for _, existing := range d.branches {
			if existing.ID != b.ID && existing.CompanyID == b.CompanyID && strings.EqualFold(existing.Name, b.Name) {
				return branch.ErrDuplicateName.WithDetail("name", b.Name)
			}
		}
		d.branches[b.ID] = *b
		return nil
	})
}

func (r branchRepo) FindByID(ctx context.Context, id string) (*branch.Branch, error) {
	var out *branch.Branch
	err := r.v.with(func(d *data) error {
		b, ok := d.branches[id]
		if !ok {
			return branch.ErrBranchNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r branchRepo) FindByIDForUpdate(ctx context.Context, id string) (*branch.Branch, error) {
	return r.FindByID(ctx, id)
}

func (r branchRepo) ListByCompany(ctx context.Context, companyID string) ([]*branch.Branch, error) {
	return r.list(func(b *branch.Branch) bool { return b.CompanyID == companyID })
}

func (r branchRepo) ListByCompanies(ctx context.Context, companyIDs []string) ([]*branch.Branch, error) {
	set := toSet(companyIDs)
	return r.list(func(b *branch.Branch) bool {
		_, ok := set[b.CompanyID]
		return ok
	})
}

func (r branchRepo) ListByIDs(ctx context.Context, ids []string) ([]*branch.Branch, error) {
	set := toSet(ids)
	return r.list(func(b *branch.Branch) bool {
		_, ok := set[b.ID]
		return ok
	})
}

func (r branchRepo) ListAll(ctx context.Context) ([]*branch.Branch, error) {
	return r.list(func(*branch.Branch) bool { return true })
}

func (r branchRepo) list(match func(*branch.Branch) bool) ([]*branch.Branch, error) {
	var out []*branch.Branch
	err := r.v.with(func(d *data) error {
		for _, b := range d.branches {
			if match(&b) {
				out = append(out, &b)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *branch.Branch) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

type membershipRepo struct{ v *view }

func (r membershipRepo) Create(ctx context.Context, m *membership.Membership) error {
	return r.save(m, true)
}

func (r membershipRepo) Update(ctx context.Context, m *membership.Membership) error {
	return r.save(m, false)
}

// save aplica as mesmas restrições de unicidade do esquema relacional:
// um vínculo por (usuário, empresa) e um gerente por filial
func (r membershipRepo) save(m *membership.Membership, insert bool) error {
	return r.v.with(func(d *data) error {
		if _, exists := d.memberships[m.ID]; !insert && !exists {
			return membership.ErrMembershipNotFound
		}
		for _, existing := range d.memberships {
			if existing.ID == m.ID {
				continue
			}
			if existing.UserID == m.UserID && existing.CompanyID == m.CompanyID {
				return membership.ErrDuplicateMembership.WithDetail("user_id", m.UserID)
			}
			if m.Role == membership.RoleBranchManager && existing.Role == membership.RoleBranchManager && existing.BranchID == m.BranchID {
				return membership.ErrDuplicateManager.WithDetail("branch_id", m.BranchID)
			}
		}
		d.memberships[m.ID] = *m
		return nil
	})
}

func (r membershipRepo) Delete(ctx context.Context, id string) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.memberships[id]; !ok {
			return membership.ErrMembershipNotFound
		}
		delete(d.memberships, id)
		return nil
	})
}

func (r membershipRepo) FindByID(ctx context.Context, id string) (*membership.Membership, error) {
	return r.find(func(m *membership.Membership) bool { return m.ID == id })
}

func (r membershipRepo) FindByUserAndCompany(ctx context.Context, userID, companyID string) (*membership.Membership, error) {
	return r.find(func(m *membership.Membership) bool { return m.UserID == userID && m.CompanyID == companyID })
}

func (r membershipRepo) FindBranchManager(ctx context.Context, branchID string) (*membership.Membership, error) {
	return r.find(func(m *membership.Membership) bool {
		return m.BranchID == branchID && m.Role == membership.RoleBranchManager
	})
}

func (r membershipRepo) ListByUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return r.list(func(m *membership.Membership) bool { return m.UserID == userID })
}

func (r membershipRepo) ListByCompany(ctx context.Context, companyID string) ([]*membership.Membership, error) {
	return r.list(func(m *membership.Membership) bool { return m.CompanyID == companyID })
}

func (r membershipRepo) find(match func(*membership.Membership) bool) (*membership.Membership, error) {
	var out *membership.Membership
	err := r.v.with(func(d *data) error {
		for _, m := range d.memberships {
			if match(&m) {
				out = &m
				return nil
			}
		}
		return membership.ErrMembershipNotFound
	})
	return out, err
}

func (r membershipRepo) list(match func(*membership.Membership) bool) ([]*membership.Membership, error) {
	var out []*membership.Membership
	err := r.v.with(func(d *data) error {
		for _, m := range d.memberships {
			if match(&m) {
				out = append(out, &m)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *membership.Membership) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, err
}

type categoryRepo struct{ v *view }

func (r categoryRepo) Create(ctx context.Context, c *category.Category) error {
	return r.v.with(func(d *data) error {
		for _, existing := range d.categories {
			if existing.CompanyID == c.CompanyID && existing.BranchID == c.BranchID && strings.EqualFold(existing.Name, c.Name) {
				return category.ErrDuplicateName.WithDetail("name", c.Name)
			}
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r categoryRepo) Delete(ctx context.Context, id string) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.categories[id]; !ok {
			return category.ErrCategoryNotFound
		}
		delete(d.categories, id)
		for itemID, it := range d.items {
			if it.CategoryID == id {
				it.CategoryID = ""
				d.items[itemID] = it
			}
		}
		return nil
	})
}

func (r categoryRepo) FindByID(ctx context.Context, id string) (*category.Category, error) {
	var out *category.Category
	err := r.v.with(func(d *data) error {
		c, ok := d.categories[id]
		if !ok {
			return category.ErrCategoryNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r categoryRepo) ListByCompany(ctx context.Context, companyID, branchID string) ([]*category.Category, error) {
	var out []*category.Category
	err := r.v.with(func(d *data) error {
		for _, c := range d.categories {
			if c.CompanyID != companyID {
				continue
			}
			if branchID != "" && c.BranchID != "" && c.BranchID != branchID {
				continue
			}
			out = append(out, &c)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *category.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

type userRepo struct{ v *view }

func (r userRepo) Create(ctx context.Context, u *user.User) error {
	return r.save(u, true)
}

func (r userRepo) Update(ctx context.Context, u *user.User) error {
	return r.save(u, false)
}

func (r userRepo) save(u *user.User, insert bool) error {
	return r.v.with(func(d *data) error {
		if _, exists := d.users[u.ID]; !insert && !exists {
			return user.ErrUserNotFound
		}
		for _, existing := range d.users {
			if existing.ID == u.ID {
				continue
			}
			if existing.Username == u.Username {
				return user.ErrDuplicateUsername.WithDetail("username", u.Username)
			}
			if existing.IDNumber == u.IDNumber {
				return user.ErrDuplicateIDNumber.WithDetail("id_number", u.IDNumber)
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r userRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Username == username })
}

func (r userRepo) FindByLoginToken(ctx context.Context, token string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.LoginToken == token })
}

func (r userRepo) ListByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	set := toSet(ids)
	var out []*user.User
	err := r.v.with(func(d *data) error {
		for _, u := range d.users {
			if _, ok := set[u.ID]; ok {
				out = append(out, &u)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *user.User) int { return strings.Compare(a.Username, b.Username) })
	return out, err
}

func (r userRepo) List(ctx context.Context, f user.Filter) ([]*user.User, error) {
	out, err := r.filter(f)
	if err != nil {
		return nil, err
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r userRepo) Count(ctx context.Context, f user.Filter) (int, error) {
	out, err := r.filter(f)
	return len(out), err
}

func (r userRepo) filter(f user.Filter) ([]*user.User, error) {
	companies := toSet(f.CompanyIDs)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []*user.User
	err := r.v.with(func(d *data) error {
		members := make(map[string]struct{})
		for _, m := range d.memberships {
			if _, ok := companies[m.CompanyID]; ok {
				members[m.UserID] = struct{}{}
			}
		}

		for _, u := range d.users {
			if len(companies) > 0 {
				if _, ok := members[u.ID]; !ok {
					continue
				}
			}
			if search != "" && !userMatches(&u, search) {
				continue
			}
			out = append(out, &u)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *user.User) int { return strings.Compare(a.Username, b.Username) })
	return out, err
}

func userMatches(u *user.User, search string) bool {
	for _, field := range []string{u.Username, u.Email, u.FirstName, u.LastName, u.IDNumber} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (r userRepo) find(match func(*user.User) bool) (*user.User, error) {
	var out *user.User
	err := r.v.with(func(d *data) error {
		for _, u := range d.users {
			if match(&u) {
				out = &u
				return nil
			}
		}
		return user.ErrUserNotFound
	})
	return out, err
}
