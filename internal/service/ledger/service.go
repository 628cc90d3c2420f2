// Package ledger aplica as operações de estoque dos itens. Cada mutação de
// item e a transação que a descreve são gravadas na mesma unidade atômica;
// a linha do item fica bloqueada durante a operação.
package ledger

import (
	"context"
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
	"github.com/hugohenrick/erp-estoque/pkg/metrics"
)

// Service expõe o núcleo do livro de estoque
type Service struct {
	store   store.Store
	log     logger.Logger
	metrics *metrics.LedgerMetrics
	now     func() time.Time
}

// NewService cria o serviço. metrics pode ser nil.
func NewService(st store.Store, log logger.Logger, m *metrics.LedgerMetrics) *Service {
	return &Service{
		store:   st,
		log:     log.With("component", "ledger"),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Result é o estado do item após a operação e a transação registrada
type Result struct {
	Item        *item.Item               `json:"item"`
	Transaction *transaction.Transaction `json:"transaction"`
}

// requirement é o nível de acesso exigido sobre a filial do item
type requirement int

const (
	requireAccess requirement = iota
	requireManage
)

func (r requirement) allowed(scope access.Scope, b *branch.Branch) bool {
	if r == requireManage {
		return scope.CanManageBranch(b.CompanyID, b.ID)
	}
	return scope.CanAccessBranch(b.CompanyID, b.ID)
}

// mutation altera o item travado e descreve a transação correspondente
type mutation func(it *item.Item, b *branch.Branch) (transaction.Entry, error)

// mutate executa o ciclo travar → autorizar → alterar → gravar item → gravar
// transação dentro de uma única unidade atômica
func (s *Service) mutate(ctx context.Context, scope access.Scope, op, itemID string, req requirement, fn mutation) (*Result, error) {
	start := time.Now()
	defer func() { s.metrics.Observe(op, time.Since(start)) }()

	var res Result
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		it, err := tx.Items().FindByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		b, err := tx.Branches().FindByID(ctx, it.BranchID)
		if err != nil {
			return err
		}
		if !req.allowed(scope, b) {
			return apperror.ErrPermissionDenied.WithDetail("item_id", itemID)
		}

		before := it.StockQuantity
		entry, err := fn(it, b)
		if err != nil {
			return err
		}

		if err := tx.Items().Update(ctx, it); err != nil {
			return err
		}

		t, err := s.record(ctx, tx, it, scope.UserID(), entry, before)
		if err != nil {
			return err
		}

		res = Result{Item: it, Transaction: t}
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err, "item_id", itemID, "user_id", scope.UserID())
	}

	s.metrics.Recorded(string(res.Transaction.Type), res.Transaction.Quantity)
	s.log.Info("transação registrada",
		"operation", op,
		"reference", res.Transaction.ReferenceNumber,
		"item_id", itemID,
		"user_id", scope.UserID(),
		"quantity", res.Transaction.Quantity,
		"stock", res.Item.StockQuantity,
	)
	return &res, nil
}

// record completa a entrada com os dados do item e grava a transação
func (s *Service) record(ctx context.Context, tx store.Repositories, it *item.Item, userID string, e transaction.Entry, before int) (*transaction.Transaction, error) {
	e.BranchID = it.BranchID
	e.ItemID = it.ID
	e.ItemCode = it.Code
	e.ItemName = it.Name
	e.UserID = userID
	e.StockBefore = before
	e.StockAfter = it.StockQuantity

	t, err := transaction.New(e)
	if err != nil {
		return nil, err
	}
	if err := tx.Transactions().Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// fail registra a falha no nível adequado e devolve o erro intacto
func (s *Service) fail(op string, err error, keysAndValues ...interface{}) error {
	fields := append([]interface{}{"operation", op, "error", err.Error()}, keysAndValues...)

	if appErr, ok := apperror.As(err); ok {
		s.metrics.Rejected(op, appErr.Code)
		s.log.Warn("operação rejeitada", fields...)
		return err
	}

	s.metrics.Rejected(op, "INTERNAL")
	s.log.Error("falha ao executar operação de estoque", fields...)
	return err
}

// branchFilter traduz o escopo, e opcionalmente uma filial pedida, em filtro
// de consulta. empty indica que nada é visível.
func (s *Service) branchFilter(ctx context.Context, scope access.Scope, branchID string) (ids []string, empty bool, err error) {
	if branchID != "" {
		b, err := s.store.Branches().FindByID(ctx, branchID)
		if err != nil {
			return nil, false, err
		}
		if !scope.CanAccessBranch(b.CompanyID, b.ID) {
			return nil, false, apperror.ErrPermissionDenied.WithDetail("branch_id", branchID)
		}
		return []string{branchID}, false, nil
	}

	ids, restricted := scope.BranchFilter()
	if restricted && len(ids) == 0 {
		return nil, true, nil
	}
	return ids, false, nil
}
