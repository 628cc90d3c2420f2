package ledger

import (
	"context"
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

// TransactionQuery filtra a listagem do livro
type TransactionQuery struct {
	BranchID string
	ItemID   string
	UserID   string
	Type     transaction.Type
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// ListTransactions lista as transações visíveis ao escopo, mais recentes
// primeiro, e o total sem paginação
func (s *Service) ListTransactions(ctx context.Context, scope access.Scope, q TransactionQuery) ([]*transaction.Transaction, int, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, 0, transaction.ErrInvalidType.WithDetail("transaction_type", string(q.Type))
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, 0, transaction.ErrInvalidPeriod.WithDetail("to", q.To.Format(time.RFC3339))
	}

	ids, empty, err := s.branchFilter(ctx, scope, q.BranchID)
	if err != nil || empty {
		return nil, 0, err
	}

	f := transaction.Filter{
		BranchIDs: ids,
		ItemID:    q.ItemID,
		UserID:    q.UserID,
		Type:      q.Type,
		From:      q.From,
		To:        q.To,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}

	list, err := s.store.Transactions().List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Transactions().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Receipt é o comprovante de uma transação com o contexto necessário para
// impressão. Item é nil quando o item já foi excluído.
type Receipt struct {
	Transaction *transaction.Transaction `json:"transaction"`
	Item        *item.Item               `json:"item,omitempty"`
	Branch      *branch.Branch           `json:"branch"`
	Company     *company.Company         `json:"company"`
	UserName    string                   `json:"user_name"`
}

// GetTransaction monta o comprovante de uma transação visível ao escopo
func (s *Service) GetTransaction(ctx context.Context, scope access.Scope, id string) (*Receipt, error) {
	t, err := s.store.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b, err := s.store.Branches().FindByID(ctx, t.BranchID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessBranch(b.CompanyID, b.ID) {
		return nil, apperror.ErrPermissionDenied.WithDetail("transaction_id", id)
	}

	c, err := s.store.Companies().FindByID(ctx, b.CompanyID)
	if err != nil {
		return nil, err
	}

	r := &Receipt{Transaction: t, Branch: b, Company: c}

	if t.ItemID != "" {
		it, err := s.store.Items().FindByID(ctx, t.ItemID)
		switch {
		case err == nil:
			r.Item = it
		case apperror.KindOf(err) != apperror.KindNotFound:
			return nil, err
		}
	}

	u, err := s.store.Users().FindByID(ctx, t.UserID)
	switch {
	case err == nil:
		r.UserName = u.FullName()
	case apperror.KindOf(err) != apperror.KindNotFound:
		return nil, err
	}

	return r, nil
}
