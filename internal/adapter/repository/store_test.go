package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/hugohenrick/erp-estoque/internal/config"
	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/internal/infrastructure/database"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
)

// openStore conecta ao banco de TEST_DATABASE_URL, aplica as migrações e
// limpa as tabelas. Sem a variável o teste é ignorado.
func openStore(t *testing.T) *PostgresStore {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL não configurada")
	}

	ctx := context.Background()
	log := logger.NewNop()

	mg, err := database.NewMigrator(url, log)
	if err != nil {
		t.Fatalf("migrator: %v", err)
	}
	if err := mg.Up(); err != nil {
		t.Fatalf("migrações: %v", err)
	}
	_ = mg.Close()

	db, err := database.NewPostgresDB(ctx, config.PostgresConfig{URL: url, MaxConnections: 10, MinConnections: 1}, log)
	if err != nil {
		t.Fatalf("conexão: %v", err)
	}
	t.Cleanup(db.Close)

	_, err = db.Pool().Exec(ctx, `TRUNCATE transactions, items, categories, company_memberships, branches, companies, users CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return NewPostgresStore(db)
}

type seed struct {
	owner   *user.User
	company *company.Company
	branch  *branch.Branch
}

func seedTenant(t *testing.T, st store.Store) seed {
	t.Helper()
	ctx := context.Background()

	owner, err := user.NewUser(user.Profile{Username: "dona", IDNumber: "100"}, "senha-segura", user.LevelMember)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := company.NewCompany("Acme", "", owner.ID)
	b, _ := branch.NewBranch(c.ID, "Matriz", "")
	m, _ := membership.NewMembership(owner.ID, c.ID, membership.RoleOwner, "")

	err = st.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Users().Create(ctx, owner); err != nil {
			return err
		}
		if err := tx.Companies().Create(ctx, c); err != nil {
			return err
		}
		if err := tx.Branches().Create(ctx, b); err != nil {
			return err
		}
		return tx.Memberships().Create(ctx, m)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return seed{owner: owner, company: c, branch: b}
}

func TestPostgresUniqueConstraintsMapToDomainErrors(t *testing.T) {
	st := openStore(t)
	s := seedTenant(t, st)
	ctx := context.Background()

	dup, _ := user.NewUser(user.Profile{Username: "dona", IDNumber: "200"}, "senha-segura", user.LevelMember)
	if err := st.Users().Create(ctx, dup); !errors.Is(err, user.ErrDuplicateUsername) {
		t.Fatalf("esperava ErrDuplicateUsername, obteve %v", err)
	}

	other, _ := branch.NewBranch(s.company.ID, "Matriz", "")
	if err := st.Branches().Create(ctx, other); !errors.Is(err, branch.ErrDuplicateName) {
		t.Fatalf("esperava ErrDuplicateName, obteve %v", err)
	}

	again, _ := membership.NewMembership(s.owner.ID, s.company.ID, membership.RoleOwner, "")
	if err := st.Memberships().Create(ctx, again); !errors.Is(err, membership.ErrDuplicateMembership) {
		t.Fatalf("esperava ErrDuplicateMembership, obteve %v", err)
	}

	if _, err := st.Items().FindByID(ctx, "00000000-0000-0000-0000-000000000001"); !errors.Is(err, item.ErrItemNotFound) {
		t.Fatalf("esperava ErrItemNotFound, obteve %v", err)
	}
	if _, err := st.Items().FindByID(ctx, "nao-e-uuid"); !errors.Is(err, item.ErrItemNotFound) {
		t.Fatalf("ID malformado deveria dar ErrItemNotFound, obteve %v", err)
	}
}

func TestPostgresRollbackDiscardsWrites(t *testing.T) {
	st := openStore(t)
	s := seedTenant(t, st)
	ctx := context.Background()

	b, _ := branch.NewBranch(s.company.ID, "Anexo", "")
	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Branches().Create(ctx, b); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("esperava boom, obteve %v", err)
	}
	if _, err := st.Branches().FindByID(ctx, b.ID); !errors.Is(err, branch.ErrBranchNotFound) {
		t.Fatalf("filial não deveria existir após rollback, obteve %v", err)
	}
}

func TestPostgresPanicReleasesTransaction(t *testing.T) {
	st := openStore(t)
	s := seedTenant(t, st)
	ctx := context.Background()

	b, _ := branch.NewBranch(s.company.ID, "Anexo", "")
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("esperava panic")
			}
		}()
		_ = st.WithTx(ctx, func(tx store.Repositories) error {
			if err := tx.Branches().Create(ctx, b); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if n := st.db.Pool().Stat().AcquiredConns(); n != 0 {
		t.Fatalf("conexão da transação deveria voltar ao pool, %d em uso", n)
	}
	if _, err := st.Branches().FindByID(ctx, b.ID); !errors.Is(err, branch.ErrBranchNotFound) {
		t.Fatalf("filial não deveria existir após panic, obteve %v", err)
	}
}

func TestPostgresConcurrentWithdrawals(t *testing.T) {
	st := openStore(t)
	s := seedTenant(t, st)
	ctx := context.Background()

	svc := ledger.NewService(st, logger.NewNop(), nil)
	scope := access.Compute(s.owner, []*membership.Membership{{
		UserID: s.owner.ID, CompanyID: s.company.ID, Role: membership.RoleOwner,
	}}, map[string][]string{s.company.ID: {s.branch.ID}})

	res, err := svc.CreateItem(ctx, scope, ledger.CreateItemInput{BranchID: s.branch.ID, Name: "Parafuso", StockQuantity: 10})
	if err != nil {
		t.Fatalf("criar item: %v", err)
	}
	itemID := res.Item.ID

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for range 15 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(ctx, scope, ledger.Movement{ItemID: itemID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, item.ErrInsufficientStock):
				fail++
			default:
				t.Errorf("erro inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 10 || fail != 5 {
		t.Fatalf("esperava 10 sucessos e 5 falhas, obteve %d e %d", ok, fail)
	}

	it, err := st.Items().FindByID(ctx, itemID)
	if err != nil {
		t.Fatal(err)
	}
	if it.StockQuantity != 0 {
		t.Fatalf("estoque final deveria ser 0, obteve %d", it.StockQuantity)
	}

	n, err := st.Transactions().Count(ctx, transaction.Filter{ItemID: itemID, Type: transaction.TypeWithdraw})
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("esperava 10 retiradas no livro, obteve %d", n)
	}
}

func TestPostgresDeleteKeepsLedger(t *testing.T) {
	st := openStore(t)
	s := seedTenant(t, st)
	ctx := context.Background()

	svc := ledger.NewService(st, logger.NewNop(), nil)
	scope := access.Compute(s.owner, []*membership.Membership{{
		UserID: s.owner.ID, CompanyID: s.company.ID, Role: membership.RoleOwner,
	}}, map[string][]string{s.company.ID: {s.branch.ID}})

	res, err := svc.CreateItem(ctx, scope, ledger.CreateItemInput{BranchID: s.branch.ID, Name: "Martelo", StockQuantity: 3, BarcodeNumber: "789"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Withdraw(ctx, scope, ledger.Movement{ItemID: res.Item.ID, Quantity: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.DeleteItem(ctx, scope, res.Item.ID, ""); err != nil {
		t.Fatal(err)
	}

	list, err := st.Transactions().List(ctx, transaction.Filter{BranchIDs: []string{s.branch.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("esperava 3 transações, obteve %d", len(list))
	}
	for _, tr := range list {
		if tr.ItemID != "" || tr.ItemName != "Martelo" {
			t.Fatalf("transação deveria manter o nome e perder o vínculo: %+v", tr)
		}
	}

	summary, err := st.Transactions().Summarize(ctx, []string{s.branch.ID}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary[0].TotalTransactions != 3 || summary[0].Withdrawals != 1 || summary[0].UniqueUsers != 1 {
		t.Fatalf("resumo inesperado: %+v", summary[0])
	}
	if len(summary[0].TopItems) != 1 || summary[0].TopItems[0].Count != 3 {
		t.Fatalf("itens mais movimentados inesperados: %+v", summary[0].TopItems)
	}
}
