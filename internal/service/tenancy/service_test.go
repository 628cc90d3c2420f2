package tenancy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hugohenrick/erp-estoque/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
)

const password = "segredo123"

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	svc   *Service
	dev   *user.User
	ids   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	f := &fixture{t: t, ctx: context.Background(), store: st, svc: NewService(st, logger.NewNop())}

	dev, err := user.NewUser(user.Profile{Username: "dev", IDNumber: "900"}, password, user.LevelDeveloper)
	f.must(err)
	f.must(st.Users().Create(f.ctx, dev))
	f.dev = dev
	return f
}

func (f *fixture) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("erro inesperado: %v", err)
	}
}

func (f *fixture) scope(u *user.User) access.Scope {
	f.t.Helper()
	sc, err := f.svc.ComputeAccessScope(f.ctx, u.ID)
	f.must(err)
	return sc
}

func (f *fixture) register(name string) *user.User {
	f.t.Helper()
	f.ids++
	u, err := f.svc.RegisterUser(f.ctx, user.Profile{Username: name, IDNumber: fmt.Sprintf("%d", 1000+f.ids)}, password)
	f.must(err)
	return u
}

// company cria a empresa pelo desenvolvedor e transfere a propriedade para owner
func (f *fixture) company(name string, owner *user.User) *company.Company {
	f.t.Helper()
	c, devOwner, err := f.svc.CreateCompany(f.ctx, f.scope(f.dev), name, "")
	f.must(err)
	if owner != nil {
		_, err = f.svc.AddMembership(f.ctx, f.scope(f.dev), MembershipInput{UserID: owner.ID, CompanyID: c.ID, Role: membership.RoleOwner})
		f.must(err)
		f.must(f.svc.RemoveMembership(f.ctx, f.scope(f.dev), devOwner.ID))
	}
	return c
}

func (f *fixture) branch(scope access.Scope, companyID, name string) *branch.Branch {
	f.t.Helper()
	b, err := f.svc.CreateBranch(f.ctx, scope, companyID, name, "")
	f.must(err)
	return b
}

func (f *fixture) member(userID, companyID string, role membership.Role, branchID string) *membership.Membership {
	f.t.Helper()
	m, err := f.svc.AddMembership(f.ctx, f.scope(f.dev), MembershipInput{UserID: userID, CompanyID: companyID, Role: role, BranchID: branchID})
	f.must(err)
	return m
}

func assertCode(t *testing.T, err error, want *apperror.Error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("esperava %s, obteve %v", want.Code, err)
	}
}

func TestCreateCompanyGrantsOwner(t *testing.T) {
	f := newFixture(t)

	c, owner, err := f.svc.CreateCompany(f.ctx, f.scope(f.dev), "Acme", "ferramentas")
	f.must(err)
	if owner.Role != membership.RoleOwner || owner.UserID != f.dev.ID || owner.CompanyID != c.ID || owner.BranchID != "" {
		t.Fatalf("vínculo de proprietário inesperado: %+v", owner)
	}

	stored, err := f.store.Memberships().FindByUserAndCompany(f.ctx, f.dev.ID, c.ID)
	f.must(err)
	if stored.ID != owner.ID {
		t.Fatal("vínculo de proprietário deveria estar persistido")
	}

	member := f.register("ana")
	_, _, err = f.svc.CreateCompany(f.ctx, f.scope(member), "Outra", "")
	assertCode(t, err, apperror.ErrPermissionDenied)

	_, _, err = f.svc.CreateCompany(f.ctx, f.scope(f.dev), "Acme", "")
	assertCode(t, err, company.ErrDuplicateName)

	list, err := f.svc.ListCompanies(f.ctx, f.scope(member))
	f.must(err)
	if len(list) != 0 {
		t.Fatalf("membro sem vínculo não deveria ver empresas, viu %d", len(list))
	}
}

func TestMembershipInvariants(t *testing.T) {
	f := newFixture(t)
	acme := f.company("Acme", nil)
	other := f.company("Globex", nil)
	hq := f.branch(f.scope(f.dev), acme.ID, "HQ")
	foreign := f.branch(f.scope(f.dev), other.ID, "Centro")
	u := f.register("bia")
	dev := f.scope(f.dev)

	_, err := f.svc.AddMembership(f.ctx, dev, MembershipInput{UserID: u.ID, CompanyID: acme.ID, Role: membership.RoleSupervisor, BranchID: hq.ID})
	assertCode(t, err, membership.ErrBranchNotAllowed)

	_, err = f.svc.AddMembership(f.ctx, dev, MembershipInput{UserID: u.ID, CompanyID: acme.ID, Role: membership.RoleUser})
	assertCode(t, err, membership.ErrBranchRequired)

	_, err = f.svc.AddMembership(f.ctx, dev, MembershipInput{UserID: u.ID, CompanyID: acme.ID, Role: membership.RoleUser, BranchID: foreign.ID})
	assertCode(t, err, membership.ErrBranchMismatch)

	_, err = f.svc.AddMembership(f.ctx, dev, MembershipInput{UserID: u.ID, CompanyID: acme.ID, Role: "ADMIN", BranchID: hq.ID})
	assertCode(t, err, membership.ErrInvalidRole)

	f.member(u.ID, acme.ID, membership.RoleUser, hq.ID)
	_, err = f.svc.AddMembership(f.ctx, dev, MembershipInput{UserID: u.ID, CompanyID: acme.ID, Role: membership.RoleSupervisor})
	assertCode(t, err, membership.ErrDuplicateMembership)
}

func TestBranchManagerAssignmentDemotesPrevious(t *testing.T) {
	f := newFixture(t)
	acme := f.company("Acme", nil)
	hq := f.branch(f.scope(f.dev), acme.ID, "HQ")
	first := f.register("primeiro")
	second := f.register("segundo")

	old := f.member(first.ID, acme.ID, membership.RoleBranchManager, hq.ID)
	f.member(second.ID, acme.ID, membership.RoleBranchManager, hq.ID)

	demoted, err := f.store.Memberships().FindByID(f.ctx, old.ID)
	f.must(err)
	if demoted.Role != membership.RoleUser || demoted.BranchID != hq.ID {
		t.Fatalf("gerente anterior deveria virar USER na mesma filial: %+v", demoted)
	}

	manager, err := f.store.Memberships().FindBranchManager(f.ctx, hq.ID)
	f.must(err)
	if manager.UserID != second.ID {
		t.Fatalf("gerente atual deveria ser o segundo, é %s", manager.UserID)
	}

	promoted, err := f.svc.UpdateMembership(f.ctx, f.scope(f.dev), old.ID, membership.RoleBranchManager, hq.ID)
	f.must(err)
	if promoted.Role != membership.RoleBranchManager {
		t.Fatalf("promoção inesperada: %+v", promoted)
	}
	assertSingleManager(t, f, acme.ID, hq.ID)
}

func assertSingleManager(t *testing.T, f *fixture, companyID, branchID string) {
	t.Helper()
	all, err := f.store.Memberships().ListByCompany(f.ctx, companyID)
	f.must(err)
	managers := 0
	for _, m := range all {
		if m.Role == membership.RoleBranchManager && m.BranchID == branchID {
			managers++
		}
	}
	if managers != 1 {
		t.Fatalf("esperava exatamente um gerente na filial, há %d", managers)
	}
}

func TestConcurrentManagerAssignment(t *testing.T) {
	f := newFixture(t)
	acme := f.company("Acme", nil)
	hq := f.branch(f.scope(f.dev), acme.ID, "HQ")
	dev := f.scope(f.dev)

	users := make([]*user.User, 6)
	for i := range users {
		users[i] = f.register(fmt.Sprintf("gerente%d", i))
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.AddMembership(f.ctx, dev, MembershipInput{UserID: u.ID, CompanyID: acme.ID, Role: membership.RoleBranchManager, BranchID: hq.ID})
		}()
	}
	wg.Wait()

	assertSingleManager(t, f, acme.ID, hq.ID)
}

func TestGrantRules(t *testing.T) {
	f := newFixture(t)
	owner := f.register("dono")
	acme := f.company("Acme", owner)
	hq := f.branch(f.scope(owner), acme.ID, "HQ")
	annex := f.branch(f.scope(owner), acme.ID, "Anexo")

	supervisor := f.register("supervisora")
	manager := f.register("gerente")
	newbie := f.register("novato")
	f.member(supervisor.ID, acme.ID, membership.RoleSupervisor, "")
	f.member(manager.ID, acme.ID, membership.RoleBranchManager, hq.ID)

	_, err := f.svc.AddMembership(f.ctx, f.scope(owner), MembershipInput{UserID: newbie.ID, CompanyID: acme.ID, Role: membership.RoleSupervisor})
	assertCode(t, err, apperror.ErrPermissionDenied)

	_, err = f.svc.AddMembership(f.ctx, f.scope(supervisor), MembershipInput{UserID: newbie.ID, CompanyID: acme.ID, Role: membership.RoleOwner})
	assertCode(t, err, apperror.ErrPermissionDenied)

	_, err = f.svc.AddMembership(f.ctx, f.scope(manager), MembershipInput{UserID: newbie.ID, CompanyID: acme.ID, Role: membership.RoleUser, BranchID: annex.ID})
	assertCode(t, err, apperror.ErrPermissionDenied)

	m, err := f.svc.AddMembership(f.ctx, f.scope(manager), MembershipInput{UserID: newbie.ID, CompanyID: acme.ID, Role: membership.RoleUser, BranchID: hq.ID})
	f.must(err)

	_, err = f.svc.UpdateMembership(f.ctx, f.scope(manager), m.ID, membership.RoleBranchManager, hq.ID)
	assertCode(t, err, apperror.ErrPermissionDenied)

	_, err = f.svc.UpdateMembership(f.ctx, f.scope(owner), m.ID, membership.RoleOwner, "")
	f.must(err)
}

func TestLastOwnerIsProtected(t *testing.T) {
	f := newFixture(t)
	owner := f.register("dono")
	acme := f.company("Acme", owner)

	m, err := f.store.Memberships().FindByUserAndCompany(f.ctx, owner.ID, acme.ID)
	f.must(err)

	assertCode(t, f.svc.RemoveMembership(f.ctx, f.scope(owner), m.ID), membership.ErrLastOwner)

	hq := f.branch(f.scope(owner), acme.ID, "HQ")
	_, err = f.svc.UpdateMembership(f.ctx, f.scope(owner), m.ID, membership.RoleUser, hq.ID)
	assertCode(t, err, membership.ErrLastOwner)
}

func TestComputeAccessScope(t *testing.T) {
	f := newFixture(t)
	owner := f.register("dono")
	acme := f.company("Acme", owner)
	hq := f.branch(f.scope(owner), acme.ID, "HQ")
	annex := f.branch(f.scope(owner), acme.ID, "Anexo")

	clerk := f.register("balconista")
	f.member(clerk.ID, acme.ID, membership.RoleUser, hq.ID)

	ownerScope := f.scope(owner)
	if len(ownerScope.BranchIDs()) != 2 || !ownerScope.CanManageBranch(acme.ID, annex.ID) {
		t.Fatalf("proprietário deveria alcançar as duas filiais: %+v", ownerScope.Summary())
	}

	clerkScope := f.scope(clerk)
	if !clerkScope.CanAccessBranch(acme.ID, hq.ID) || clerkScope.CanAccessBranch(acme.ID, annex.ID) {
		t.Fatalf("balconista deveria alcançar só a HQ: %+v", clerkScope.Summary())
	}
	if clerkScope.CanManageBranch(acme.ID, hq.ID) {
		t.Fatal("balconista não gerencia a filial")
	}

	visible, err := f.svc.ListVisibleBranches(f.ctx, clerkScope)
	f.must(err)
	if len(visible) != 1 || visible[0].ID != hq.ID {
		t.Fatalf("filiais visíveis inesperadas: %v", visible)
	}

	clerk.IsActive = false
	f.must(f.store.Users().Update(f.ctx, clerk))
	_, err = f.svc.ComputeAccessScope(f.ctx, clerk.ID)
	assertCode(t, err, user.ErrUserInactive)
}

func TestUpdateBranch(t *testing.T) {
	f := newFixture(t)
	owner := f.register("dono")
	acme := f.company("Acme", owner)
	hq := f.branch(f.scope(owner), acme.ID, "HQ")

	manager := f.register("gerente")
	f.member(manager.ID, acme.ID, membership.RoleBranchManager, hq.ID)

	inactive := false
	_, err := f.svc.UpdateBranch(f.ctx, f.scope(manager), hq.ID, BranchUpdate{IsActive: &inactive})
	assertCode(t, err, apperror.ErrPermissionDenied)

	name := "Matriz"
	b, err := f.svc.UpdateBranch(f.ctx, f.scope(owner), hq.ID, BranchUpdate{Name: &name, IsActive: &inactive})
	f.must(err)
	if b.Name != "Matriz" || b.IsActive {
		t.Fatalf("filial inesperada: %+v", b)
	}

	_, err = f.svc.CreateBranch(f.ctx, f.scope(owner), acme.ID, "Matriz", "")
	assertCode(t, err, branch.ErrDuplicateName)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	owner := f.register("dono")
	acme := f.company("Acme", owner)
	hq := f.branch(f.scope(owner), acme.ID, "HQ")
	annex := f.branch(f.scope(owner), acme.ID, "Anexo")
	clerk := f.register("balconista")
	f.member(clerk.ID, acme.ID, membership.RoleUser, hq.ID)

	_, err := f.svc.CreateCategory(f.ctx, f.scope(owner), acme.ID, "", "Elétrica", "")
	f.must(err)
	_, err = f.svc.CreateCategory(f.ctx, f.scope(owner), acme.ID, hq.ID, "Elétrica", "")
	f.must(err)
	_, err = f.svc.CreateCategory(f.ctx, f.scope(owner), acme.ID, annex.ID, "Hidráulica", "")
	f.must(err)

	_, err = f.svc.CreateCategory(f.ctx, f.scope(owner), acme.ID, "", "Elétrica", "")
	assertCode(t, err, category.ErrDuplicateName)

	_, err = f.svc.CreateCategory(f.ctx, f.scope(clerk), acme.ID, hq.ID, "Pintura", "")
	assertCode(t, err, apperror.ErrPermissionDenied)

	list, err := f.svc.ListCategories(f.ctx, f.scope(clerk), acme.ID, hq.ID)
	f.must(err)
	if len(list) != 2 {
		t.Fatalf("HQ deveria ver a categoria da empresa e a própria, viu %d", len(list))
	}

	_, err = f.svc.ListCategories(f.ctx, f.scope(clerk), acme.ID, annex.ID)
	assertCode(t, err, apperror.ErrPermissionDenied)

	assertCode(t, f.svc.DeleteCategory(f.ctx, f.scope(clerk), list[0].ID), apperror.ErrPermissionDenied)
	f.must(f.svc.DeleteCategory(f.ctx, f.scope(owner), list[0].ID))
}

func TestCreateCompanyUser(t *testing.T) {
	f := newFixture(t)
	owner := f.register("dono")
	acme := f.company("Acme", owner)
	hq := f.branch(f.scope(owner), acme.ID, "HQ")

	u, m, err := f.svc.CreateCompanyUser(f.ctx, f.scope(owner), CompanyUserInput{
		Profile:   user.Profile{Username: "caixa", IDNumber: "4242"},
		Password:  password,
		CompanyID: acme.ID,
		BranchID:  hq.ID,
	})
	f.must(err)
	if m.Role != membership.RoleUser || m.BranchID != hq.ID || u.Level != user.LevelMember {
		t.Fatalf("usuário da empresa inesperado: %+v %+v", u, m)
	}

	_, _, err = f.svc.CreateCompanyUser(f.ctx, f.scope(u), CompanyUserInput{
		Profile:   user.Profile{Username: "outro", IDNumber: "4343"},
		Password:  password,
		CompanyID: acme.ID,
		BranchID:  hq.ID,
	})
	assertCode(t, err, apperror.ErrPermissionDenied)

	_, _, err = f.svc.CreateCompanyUser(f.ctx, f.scope(owner), CompanyUserInput{
		Profile:   user.Profile{Username: "terceiro", IDNumber: "4444"},
		Password:  password,
		CompanyID: acme.ID,
	})
	assertCode(t, err, membership.ErrBranchRequired)
	if _, err := f.store.Users().FindByUsername(f.ctx, "terceiro"); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatal("usuário não deveria ser criado quando o vínculo é inválido")
	}

	got, err := f.svc.GetUser(f.ctx, f.scope(owner), u.ID)
	f.must(err)
	if got.Username != "caixa" {
		t.Fatalf("usuário inesperado: %s", got.Username)
	}

	stranger := f.register("estranho")
	_, err = f.svc.GetUser(f.ctx, f.scope(stranger), u.ID)
	assertCode(t, err, apperror.ErrPermissionDenied)
}

func TestCreateUserWithMembershipsIsAtomic(t *testing.T) {
	f := newFixture(t)
	acme := f.company("Acme", nil)
	hq := f.branch(f.scope(f.dev), acme.ID, "HQ")

	u, ms, err := f.svc.CreateUserWithMemberships(f.ctx, f.scope(f.dev), NewUserInput{
		Profile:     user.Profile{Username: "carla", IDNumber: "77"},
		Password:    password,
		Memberships: []MembershipInput{{CompanyID: acme.ID, Role: membership.RoleBranchManager, BranchID: hq.ID}},
	})
	f.must(err)
	if len(ms) != 1 || ms[0].UserID != u.ID {
		t.Fatalf("vínculos inesperados: %+v", ms)
	}

	_, _, err = f.svc.CreateUserWithMemberships(f.ctx, f.scope(f.dev), NewUserInput{
		Profile:     user.Profile{Username: "davi", IDNumber: "78"},
		Password:    password,
		Memberships: []MembershipInput{{CompanyID: "inexistente", Role: membership.RoleSupervisor}},
	})
	assertCode(t, err, company.ErrCompanyNotFound)
	if _, err := f.store.Users().FindByUsername(f.ctx, "davi"); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatal("usuário não deveria sobreviver à falha do vínculo")
	}

	_, _, err = f.svc.CreateUserWithMemberships(f.ctx, f.scope(u), NewUserInput{
		Profile:  user.Profile{Username: "eva", IDNumber: "79"},
		Password: password,
	})
	assertCode(t, err, apperror.ErrPermissionDenied)
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t)
	u := f.register("fabio")

	got, err := f.svc.AuthenticatePassword(f.ctx, "fabio", password)
	f.must(err)
	if got.ID != u.ID {
		t.Fatal("autenticação retornou outro usuário")
	}

	_, err = f.svc.AuthenticatePassword(f.ctx, "fabio", "errada123")
	assertCode(t, err, user.ErrInvalidCredentials)
	_, err = f.svc.AuthenticatePassword(f.ctx, "ninguem", password)
	assertCode(t, err, user.ErrInvalidCredentials)

	for _, payload := range []string{"login_token:" + u.LoginToken, u.LoginToken} {
		got, err := f.svc.AuthenticateLoginToken(f.ctx, payload)
		f.must(err)
		if got.ID != u.ID {
			t.Fatalf("token %q resolveu outro usuário", payload)
		}
	}

	_, err = f.svc.AuthenticateLoginToken(f.ctx, "login_token:nao-e-uuid")
	assertCode(t, err, user.ErrInvalidLoginToken)

	old := u.LoginToken
	_, err = f.svc.RotateLoginToken(f.ctx, f.scope(u), u.ID)
	f.must(err)
	_, err = f.svc.AuthenticateLoginToken(f.ctx, old)
	assertCode(t, err, user.ErrInvalidCredentials)

	f.must(f.svc.ChangePassword(f.ctx, f.scope(u), password, "novasenha1"))
	_, err = f.svc.AuthenticatePassword(f.ctx, "fabio", "novasenha1")
	f.must(err)

	stored, err := f.store.Users().FindByID(f.ctx, u.ID)
	f.must(err)
	stored.IsActive = false
	f.must(f.store.Users().Update(f.ctx, stored))
	_, err = f.svc.AuthenticatePassword(f.ctx, "fabio", "novasenha1")
	assertCode(t, err, user.ErrUserInactive)
}

// Empresa criada por U1, filial HQ, item com estoque 5 e mínimo 2; U2 (USER da
// HQ) retira 4 e depois tenta retirar mais 2.
func TestInventoryScenario(t *testing.T) {
	f := newFixture(t)
	items := ledger.NewService(f.store, logger.NewNop(), nil)

	acme, ownerMembership, err := f.svc.CreateCompany(f.ctx, f.scope(f.dev), "Acme", "")
	f.must(err)
	if ownerMembership.Role != membership.RoleOwner {
		t.Fatal("criador deveria ser proprietário")
	}

	hq := f.branch(f.scope(f.dev), acme.ID, "HQ")
	created, err := items.CreateItem(f.ctx, f.scope(f.dev), ledger.CreateItemInput{
		BranchID: hq.ID, Name: "Laptop", StockQuantity: 5, MinimumStock: 2,
	})
	f.must(err)

	u2 := f.register("u2")
	f.member(u2.ID, acme.ID, membership.RoleUser, hq.ID)

	res, err := items.Withdraw(f.ctx, f.scope(u2), ledger.Movement{ItemID: created.Item.ID, Quantity: 4})
	f.must(err)
	if res.Item.StockQuantity != 1 || res.Item.Status() != item.StatusLowStock {
		t.Fatalf("após a retirada: %d %s", res.Item.StockQuantity, res.Item.Status())
	}

	_, err = items.Withdraw(f.ctx, f.scope(u2), ledger.Movement{ItemID: created.Item.ID, Quantity: 2})
	assertCode(t, err, item.ErrInsufficientStock)

	list, total, err := items.ListTransactions(f.ctx, f.scope(u2), ledger.TransactionQuery{ItemID: created.Item.ID, Type: transaction.TypeWithdraw})
	f.must(err)
	if total != 1 || list[0].Quantity != 4 || list[0].UserID != u2.ID {
		t.Fatalf("esperava uma única retirada de 4 por U2: %+v", list)
	}
}

func TestEnsureDeveloper(t *testing.T) {
	f := newFixture(t)

	u, created, err := f.svc.EnsureDeveloper(f.ctx, user.Profile{Username: "root", IDNumber: "1"}, password)
	f.must(err)
	if !created || !u.IsDeveloper() {
		t.Fatalf("esperava desenvolvedor criado, obteve created=%v nível=%s", created, u.Level)
	}
	if !f.scope(u).IsUnrestricted() {
		t.Fatal("desenvolvedor inicial deveria ter escopo irrestrito")
	}

	again, created, err := f.svc.EnsureDeveloper(f.ctx, user.Profile{Username: "root", IDNumber: "2"}, "outrasenha1")
	f.must(err)
	if created || again.ID != u.ID {
		t.Fatal("segunda chamada não deveria criar outro usuário")
	}
	_, err = f.svc.AuthenticatePassword(f.ctx, "root", password)
	f.must(err)

	_, _, err = f.svc.EnsureDeveloper(f.ctx, user.Profile{Username: "curto", IDNumber: "3"}, "123")
	assertCode(t, err, user.ErrPasswordTooShort)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	olga := f.register("olga")
	ana := f.register("ana")
	f.register("bruno")
	c := f.company("Acme", olga)
	b := f.branch(f.scope(olga), c.ID, "Centro")
	f.member(ana.ID, c.ID, membership.RoleUser, b.ID)

	_, total, err := f.svc.ListUsers(f.ctx, f.scope(f.dev), UserQuery{})
	f.must(err)
	if total != 4 {
		t.Fatalf("desenvolvedor deveria ver 4 usuários, viu %d", total)
	}

	users, total, err := f.svc.ListUsers(f.ctx, f.scope(olga), UserQuery{})
	f.must(err)
	if total != 2 || users[0].Username != "ana" || users[1].Username != "olga" {
		t.Fatalf("proprietária deveria ver só a própria empresa: %d", total)
	}

	users, total, err = f.svc.ListUsers(f.ctx, f.scope(olga), UserQuery{Search: "AN"})
	f.must(err)
	if total != 1 || users[0].ID != ana.ID {
		t.Fatalf("busca deveria trazer só ana, obteve %d", total)
	}

	users, _, err = f.svc.ListUsers(f.ctx, f.scope(f.dev), UserQuery{Limit: 1, Offset: 1})
	f.must(err)
	if len(users) != 1 || users[0].Username != "bruno" {
		t.Fatalf("paginação inesperada: %v", users)
	}

	_, _, err = f.svc.ListUsers(f.ctx, f.scope(ana), UserQuery{})
	assertCode(t, err, apperror.ErrPermissionDenied)
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	f := newFixture(t)
	olga := f.register("olga")
	ana := f.register("ana")
	bruno := f.register("bruno")
	c := f.company("Acme", olga)
	b := f.branch(f.scope(olga), c.ID, "Centro")
	f.member(ana.ID, c.ID, membership.RoleUser, b.ID)

	u, err := f.svc.SetUserActive(f.ctx, f.scope(olga), ana.ID, false)
	f.must(err)
	if u.IsActive {
		t.Fatal("usuária deveria estar inativa")
	}

	_, err = f.svc.AuthenticatePassword(f.ctx, "ana", password)
	assertCode(t, err, user.ErrUserInactive)
	_, err = f.svc.AuthenticateLoginToken(f.ctx, ana.LoginToken)
	assertCode(t, err, user.ErrUserInactive)
	_, err = f.svc.ComputeAccessScope(f.ctx, ana.ID)
	assertCode(t, err, user.ErrUserInactive)

	_, err = f.svc.SetUserActive(f.ctx, f.scope(olga), bruno.ID, false)
	assertCode(t, err, apperror.ErrPermissionDenied)
	_, err = f.svc.SetUserActive(f.ctx, f.scope(olga), f.dev.ID, false)
	assertCode(t, err, apperror.ErrPermissionDenied)
	_, err = f.svc.SetUserActive(f.ctx, f.scope(olga), olga.ID, false)
	assertCode(t, err, user.ErrSelfDeactivation)

	level := user.LevelDeveloper
	_, err = f.svc.UpdateUser(f.ctx, f.scope(olga), ana.ID, UpdateUserInput{Level: &level})
	assertCode(t, err, apperror.ErrPermissionDenied)

	email := "ana@acme.com"
	active := true
	u, err = f.svc.UpdateUser(f.ctx, f.scope(olga), ana.ID, UpdateUserInput{
		Profile:  user.ProfileUpdate{Email: &email},
		IsActive: &active,
	})
	f.must(err)
	if !u.IsActive || u.Email != email {
		t.Fatalf("alteração não aplicada: %+v", u)
	}
	if _, err := f.svc.AuthenticatePassword(f.ctx, "ana", password); err != nil {
		t.Fatalf("usuária reativada deveria autenticar: %v", err)
	}
	if sc := f.scope(ana); !sc.CanAccessBranch(c.ID, b.ID) {
		t.Fatal("usuária reativada deveria voltar a ver a filial")
	}

	bad := "12a"
	_, err = f.svc.UpdateUser(f.ctx, f.scope(f.dev), ana.ID, UpdateUserInput{Profile: user.ProfileUpdate{IDNumber: &bad}})
	assertCode(t, err, user.ErrInvalidIDNumber)
}
