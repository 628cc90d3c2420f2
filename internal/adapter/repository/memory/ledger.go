package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
)

type itemRepo struct{ v *view }

func (r itemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.save(it, true)
}

func (r itemRepo) Update(ctx context.Context, it *item.Item) error {
	return r.save(it, false)
}

func (r itemRepo) save(it *item.Item, insert bool) error {
	return r.v.with(func(d *data) error {
		if _, exists := d.items[it.ID]; !insert && !exists {
			return item.ErrItemNotFound
		}
		if it.StockQuantity < 0 || it.StockQuantity > it.OriginalStockQuantity {
			return item.ErrExceedsOriginalStock.WithDetail("stock_quantity", it.StockQuantity)
		}
		for _, existing := range d.items {
			if existing.ID == it.ID {
				continue
			}
			if it.Code != "" && existing.Code == it.Code {
				return item.ErrDuplicateCode.WithDetail("item_id", it.Code)
			}
			if it.BarcodeNumber != "" && existing.BranchID == it.BranchID && existing.BarcodeNumber == it.BarcodeNumber {
				return item.ErrDuplicateBarcode.WithDetail("barcode_number", it.BarcodeNumber)
			}
		}
		d.items[it.ID] = *it
		return nil
	})
}

func (r itemRepo) Delete(ctx context.Context, id string) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.items[id]; !ok {
			return item.ErrItemNotFound
		}
		delete(d.items, id)
		for i := range d.transactions {
			if d.transactions[i].ItemID == id {
				d.transactions[i].ItemID = ""
			}
		}
		return nil
	})
}

func (r itemRepo) FindByID(ctx context.Context, id string) (*item.Item, error) {
	var out *item.Item
	err := r.v.with(func(d *data) error {
		it, ok := d.items[id]
		if !ok {
			return item.ErrItemNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (r itemRepo) FindByIDForUpdate(ctx context.Context, id string) (*item.Item, error) {
	return r.FindByID(ctx, id)
}

func (r itemRepo) FindByScanValue(ctx context.Context, value string) ([]*item.Item, error) {
	return r.filter(func(it *item.Item) bool {
		return it.BarcodeNumber == value || it.Code == value
	})
}

func (r itemRepo) List(ctx context.Context, f item.Filter) ([]*item.Item, error) {
	out, err := r.filter(itemMatcher(f))
	if err != nil {
		return nil, err
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r itemRepo) Count(ctx context.Context, f item.Filter) (int, error) {
	out, err := r.filter(itemMatcher(f))
	return len(out), err
}

func (r itemRepo) filter(match func(*item.Item) bool) ([]*item.Item, error) {
	var out []*item.Item
	err := r.v.with(func(d *data) error {
		for _, it := range d.items {
			if match(&it) {
				out = append(out, &it)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *item.Item) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return out, err
}

func itemMatcher(f item.Filter) func(*item.Item) bool {
	branches := toSet(f.BranchIDs)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return func(it *item.Item) bool {
		if len(branches) > 0 {
			if _, ok := branches[it.BranchID]; !ok {
				return false
			}
		}
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.Code), search) &&
			!strings.Contains(strings.ToLower(it.BarcodeNumber), search) {
			return false
		}
		return true
	}
}

type transactionRepo struct{ v *view }

func (r transactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.v.with(func(d *data) error {
		for _, existing := range d.transactions {
			if existing.ReferenceNumber == t.ReferenceNumber {
				return transaction.ErrDuplicateReference.WithDetail("reference_number", t.ReferenceNumber)
			}
		}
		d.transactions = append(d.transactions, *t)
		return nil
	})
}

func (r transactionRepo) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var out *transaction.Transaction
	err := r.v.with(func(d *data) error {
		for _, t := range d.transactions {
			if t.ID == id {
				out = &t
				return nil
			}
		}
		return transaction.ErrTransactionNotFound
	})
	return out, err
}

func (r transactionRepo) List(ctx context.Context, f transaction.Filter) ([]*transaction.Transaction, error) {
	out, err := r.filter(f)
	if err != nil {
		return nil, err
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r transactionRepo) Count(ctx context.Context, f transaction.Filter) (int, error) {
	out, err := r.filter(f)
	return len(out), err
}

func (r transactionRepo) filter(f transaction.Filter) ([]*transaction.Transaction, error) {
	branches := toSet(f.BranchIDs)

	var out []*transaction.Transaction
	err := r.v.with(func(d *data) error {
		for _, t := range d.transactions {
			if len(branches) > 0 {
				if _, ok := branches[t.BranchID]; !ok {
					continue
				}
			}
			if f.ItemID != "" && t.ItemID != f.ItemID {
				continue
			}
			if f.UserID != "" && t.UserID != f.UserID {
				continue
			}
			if f.Type != "" && t.Type != f.Type {
				continue
			}
			if !inRange(t.Timestamp, f.From, f.To) {
				continue
			}
			out = append(out, &t)
		}
		return nil
	})

	// mais recentes primeiro; a ordem de inserção desempata carimbos iguais
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b *transaction.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, err
}

func (r transactionRepo) Summarize(ctx context.Context, branchIDs []string, from, to *time.Time) ([]transaction.BranchSummary, error) {
	type acc struct {
		summary transaction.BranchSummary
		users   map[string]struct{}
		items   map[string]int
	}

	accs := make(map[string]*acc, len(branchIDs))
	for _, id := range branchIDs {
		accs[id] = &acc{
			summary: transaction.BranchSummary{BranchID: id},
			users:   make(map[string]struct{}),
			items:   make(map[string]int),
		}
	}

	err := r.v.with(func(d *data) error {
		for _, t := range d.transactions {
			a, ok := accs[t.BranchID]
			if !ok || !inRange(t.Timestamp, from, to) {
				continue
			}
			a.summary.TotalTransactions++
			switch t.Type {
			case transaction.TypeWithdraw:
				a.summary.Withdrawals++
			case transaction.TypeReturn:
				a.summary.Returns++
			}
			a.users[t.UserID] = struct{}{}
			a.items[t.ItemName]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]transaction.BranchSummary, 0, len(branchIDs))
	for _, id := range branchIDs {
		a := accs[id]
		a.summary.UniqueUsers = len(a.users)
		a.summary.TopItems = topItems(a.items, transaction.TopItemsLimit)
		out = append(out, a.summary)
	}
	return out, nil
}

func topItems(counts map[string]int, limit int) []transaction.ItemCount {
	list := make([]transaction.ItemCount, 0, len(counts))
	for name, n := range counts {
		list = append(list, transaction.ItemCount{ItemName: name, Count: n})
	}
	slices.SortFunc(list, func(a, b transaction.ItemCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), strings.Compare(a.ItemName, b.ItemName))
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func inRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}
