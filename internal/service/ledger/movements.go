package ledger

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
)

// Movement descreve uma movimentação de estoque
type Movement struct {
	ItemID   string
	Quantity int
	Notes    string
}

func (m Movement) validate() error {
	if m.Quantity <= 0 || m.Quantity > item.MaxQuantity {
		return item.ErrInvalidQuantity.WithDetail("quantity", m.Quantity)
	}
	return nil
}

// Withdraw retira unidades do item em nome do usuário do escopo
func (s *Service) Withdraw(ctx context.Context, scope access.Scope, m Movement) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, s.fail("withdraw", err, "item_id", m.ItemID)
	}

	return s.mutate(ctx, scope, "withdraw", m.ItemID, requireAccess, func(it *item.Item, b *branch.Branch) (transaction.Entry, error) {
		if !b.IsActive {
			return transaction.Entry{}, branch.ErrBranchNotActive.WithDetail("branch_id", b.ID)
		}
		if err := it.Withdraw(m.Quantity); err != nil {
			return transaction.Entry{}, err
		}
		return transaction.Entry{Type: transaction.TypeWithdraw, Quantity: m.Quantity, Notes: m.Notes}, nil
	})
}

// Return devolve unidades ao item
func (s *Service) Return(ctx context.Context, scope access.Scope, m Movement) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, s.fail("return", err, "item_id", m.ItemID)
	}

	return s.mutate(ctx, scope, "return", m.ItemID, requireAccess, func(it *item.Item, _ *branch.Branch) (transaction.Entry, error) {
		if err := it.Return(m.Quantity); err != nil {
			return transaction.Entry{}, err
		}
		return transaction.Entry{Type: transaction.TypeReturn, Quantity: m.Quantity, Notes: m.Notes}, nil
	})
}

// AddStock incorpora novas unidades ao item
func (s *Service) AddStock(ctx context.Context, scope access.Scope, m Movement) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, s.fail("add_stock", err, "item_id", m.ItemID)
	}

	return s.mutate(ctx, scope, "add_stock", m.ItemID, requireAccess, func(it *item.Item, _ *branch.Branch) (transaction.Entry, error) {
		if err := it.AddStock(m.Quantity); err != nil {
			return transaction.Entry{}, err
		}
		return transaction.Entry{Type: transaction.TypeAddStock, Quantity: m.Quantity, Notes: defaultNote(m.Notes, "Entrada de estoque")}, nil
	})
}

// RemoveStock baixa unidades do item
func (s *Service) RemoveStock(ctx context.Context, scope access.Scope, m Movement) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, s.fail("remove_stock", err, "item_id", m.ItemID)
	}

	return s.mutate(ctx, scope, "remove_stock", m.ItemID, requireAccess, func(it *item.Item, _ *branch.Branch) (transaction.Entry, error) {
		if err := it.RemoveStock(m.Quantity); err != nil {
			return transaction.Entry{}, err
		}
		return transaction.Entry{Type: transaction.TypeRemoveStock, Quantity: m.Quantity, Notes: defaultNote(m.Notes, "Baixa de estoque")}, nil
	})
}

// UpdateOriginalStock redefine o teto de devoluções do item
func (s *Service) UpdateOriginalStock(ctx context.Context, scope access.Scope, itemID string, value int) (*Result, error) {
	if value < 0 || value > item.MaxQuantity {
		return nil, s.fail("update_original_stock", item.ErrInvalidValue.WithDetail("original_stock_quantity", value), "item_id", itemID)
	}

	return s.mutate(ctx, scope, "update_original_stock", itemID, requireManage, func(it *item.Item, _ *branch.Branch) (transaction.Entry, error) {
		previous := it.OriginalStockQuantity
		if err := it.UpdateOriginalStock(value); err != nil {
			return transaction.Entry{}, err
		}
		return transaction.Entry{
			Type:     transaction.TypeUpdate,
			Quantity: abs(value - previous),
			Notes:    fmt.Sprintf("Estoque original alterado de %d para %d", previous, value),
		}, nil
	})
}

// SetHold coloca o item em manutenção ou o aposenta
func (s *Service) SetHold(ctx context.Context, scope access.Scope, itemID string, hold item.Hold, notes string) (*Result, error) {
	return s.mutate(ctx, scope, "set_hold", itemID, requireManage, func(it *item.Item, _ *branch.Branch) (transaction.Entry, error) {
		if err := it.SetHold(hold); err != nil {
			return transaction.Entry{}, err
		}
		return transaction.Entry{Type: transaction.TypeUpdate, Notes: defaultNote(notes, "Status alterado para "+string(hold))}, nil
	})
}

// ClearHold libera o item do bloqueio administrativo
func (s *Service) ClearHold(ctx context.Context, scope access.Scope, itemID string, notes string) (*Result, error) {
	return s.mutate(ctx, scope, "clear_hold", itemID, requireManage, func(it *item.Item, _ *branch.Branch) (transaction.Entry, error) {
		if it.Hold == item.HoldNone {
			return transaction.Entry{}, item.ErrNotOnHold.WithDetail("item_id", it.ID)
		}
		previous := it.Hold
		it.ClearHold()
		return transaction.Entry{Type: transaction.TypeUpdate, Notes: defaultNote(notes, "Bloqueio "+string(previous)+" removido")}, nil
	})
}

func defaultNote(notes, fallback string) string {
	if notes != "" {
		return notes
	}
	return fallback
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
