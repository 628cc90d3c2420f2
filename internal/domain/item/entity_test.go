package item

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func newTestItem(t *testing.T, stock, minimum int) *Item {
	t.Helper()
	it, err := NewItem("branch-1", "Laptop", stock, minimum, "user-1")
	if err != nil {
		t.Fatalf("falha ao criar item: %v", err)
	}
	return it
}

func assertBounds(t *testing.T, it *Item) {
	t.Helper()
	if it.StockQuantity < 0 || it.StockQuantity > it.OriginalStockQuantity {
		t.Fatalf("invariante violada: stock=%d original=%d", it.StockQuantity, it.OriginalStockQuantity)
	}
}

func TestNewItemSetsOriginalStock(t *testing.T) {
	it := newTestItem(t, 10, 2)
	if it.OriginalStockQuantity != 10 || it.StockQuantity != 10 {
		t.Fatalf("esperava 10/10, obteve %d/%d", it.StockQuantity, it.OriginalStockQuantity)
	}
	if it.Status() != StatusAvailable {
		t.Fatalf("esperava AVAILABLE, obteve %s", it.Status())
	}
}

func TestNewItemRejectsNegativeValues(t *testing.T) {
	if _, err := NewItem("b", "x", -1, 0, "u"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("esperava ErrInvalidValue, obteve %v", err)
	}
	if _, err := NewItem("b", "x", 1, -1, "u"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("esperava ErrInvalidValue, obteve %v", err)
	}
	if _, err := NewItem("b", "  ", 1, 0, "u"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("esperava ErrEmptyName, obteve %v", err)
	}
}

func TestStockStateDerivation(t *testing.T) {
	tests := []struct {
		stock, minimum int
		want           StockState
	}{
		{0, 0, StockOutOfStock},
		{0, 5, StockOutOfStock},
		{1, 2, StockLow},
		{2, 2, StockLow},
		{3, 2, StockAvailable},
		{1, 0, StockAvailable},
	}

	for _, tt := range tests {
		it := &Item{StockQuantity: tt.stock, OriginalStockQuantity: tt.stock, MinimumStock: tt.minimum}
		if got := it.StockState(); got != tt.want {
			t.Errorf("stock=%d min=%d: obteve %s, esperava %s", tt.stock, tt.minimum, got, tt.want)
		}
	}
}

func TestWithdrawReturnRoundTrip(t *testing.T) {
	it := newTestItem(t, 10, 2)

	if err := it.Withdraw(4); err != nil {
		t.Fatal(err)
	}
	if it.StockQuantity != 6 {
		t.Fatalf("esperava 6, obteve %d", it.StockQuantity)
	}

	if err := it.Return(4); err != nil {
		t.Fatal(err)
	}
	if it.StockQuantity != 10 {
		t.Fatalf("esperava 10, obteve %d", it.StockQuantity)
	}

	if err := it.Return(1); !errors.Is(err, ErrExceedsOriginalStock) {
		t.Fatalf("esperava ErrExceedsOriginalStock, obteve %v", err)
	}
	assertBounds(t, it)
}

func TestWithdrawBoundary(t *testing.T) {
	it := newTestItem(t, 5, 2)

	if err := it.Withdraw(6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("esperava ErrInsufficientStock, obteve %v", err)
	}
	if it.StockQuantity != 5 {
		t.Fatalf("estoque não deveria mudar, obteve %d", it.StockQuantity)
	}

	if err := it.Withdraw(5); err != nil {
		t.Fatal(err)
	}
	if it.Status() != StatusOutOfStock {
		t.Fatalf("esperava OUT_OF_STOCK, obteve %s", it.Status())
	}
}

func TestWithdrawIsNotIdempotent(t *testing.T) {
	it := newTestItem(t, 20, 0)
	_ = it.Withdraw(5)
	_ = it.Withdraw(5)
	if it.StockQuantity != 10 {
		t.Fatalf("duas retiradas de 5 deveriam resultar em 10, obteve %d", it.StockQuantity)
	}
}

func TestInvalidQuantity(t *testing.T) {
	it := newTestItem(t, 5, 0)
	ops := map[string]func(int) error{
		"withdraw": it.Withdraw,
		"return":   it.Return,
		"add":      it.AddStock,
		"remove":   it.RemoveStock,
	}

	for name, op := range ops {
		for _, q := range []int{0, -3} {
			if err := op(q); !errors.Is(err, ErrInvalidQuantity) {
				t.Errorf("%s(%d): esperava ErrInvalidQuantity, obteve %v", name, q, err)
			}
		}
	}
	if it.StockQuantity != 5 || it.OriginalStockQuantity != 5 {
		t.Fatalf("item não deveria mudar: %d/%d", it.StockQuantity, it.OriginalStockQuantity)
	}
}

func TestReturnDoesNotOverflow(t *testing.T) {
	it := newTestItem(t, 10, 0)
	_ = it.Withdraw(4)

	if err := it.Return(math.MaxInt); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("esperava ErrInvalidQuantity, obteve %v", err)
	}
	if err := it.Return(MaxQuantity); !errors.Is(err, ErrExceedsOriginalStock) {
		t.Fatalf("esperava ErrExceedsOriginalStock, obteve %v", err)
	}
	if it.StockQuantity != 6 || it.OriginalStockQuantity != 10 {
		t.Fatalf("item não deveria mudar: %d/%d", it.StockQuantity, it.OriginalStockQuantity)
	}
	assertBounds(t, it)
}

func TestQuantitiesLimitedToColumnRange(t *testing.T) {
	it := newTestItem(t, 10, 0)

	for _, q := range []int{MaxQuantity + 1, math.MaxInt} {
		if err := it.AddStock(q); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddStock(%d): esperava ErrInvalidQuantity, obteve %v", q, err)
		}
		if err := it.Withdraw(q); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Withdraw(%d): esperava ErrInvalidQuantity, obteve %v", q, err)
		}
		if err := it.UpdateOriginalStock(q); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("UpdateOriginalStock(%d): esperava ErrInvalidValue, obteve %v", q, err)
		}
		if err := it.SetStockQuantity(q); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("SetStockQuantity(%d): esperava ErrInvalidValue, obteve %v", q, err)
		}
		if _, err := NewItem("b", "x", q, 0, "u"); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("NewItem(%d): esperava ErrInvalidValue, obteve %v", q, err)
		}
	}

	// a soma não pode passar do limite mesmo com quantidade válida
	if err := it.AddStock(MaxQuantity - 5); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("esperava ErrInvalidQuantity, obteve %v", err)
	}
	if err := it.AddStock(MaxQuantity - 10); err != nil {
		t.Fatalf("somar até o limite deveria funcionar: %v", err)
	}
	if it.OriginalStockQuantity != MaxQuantity {
		t.Fatalf("esperava %d, obteve %d", MaxQuantity, it.OriginalStockQuantity)
	}
	assertBounds(t, it)
}

func TestHoldIsStickyAcrossStockMovements(t *testing.T) {
	it := newTestItem(t, 10, 2)
	_ = it.Withdraw(3)

	if err := it.SetHold(HoldMaintenance); err != nil {
		t.Fatal(err)
	}

	if err := it.Withdraw(1); !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("esperava ErrItemUnavailable, obteve %v", err)
	}

	if err := it.Return(3); err != nil {
		t.Fatalf("devolução deveria ser aceita com bloqueio: %v", err)
	}
	if it.Status() != StatusMaintenance {
		t.Fatalf("bloqueio deveria persistir após devolução, obteve %s", it.Status())
	}

	if err := it.AddStock(2); err != nil {
		t.Fatal(err)
	}
	if it.Status() != StatusMaintenance {
		t.Fatalf("bloqueio deveria persistir após entrada, obteve %s", it.Status())
	}

	it.ClearHold()
	if it.Status() != StatusAvailable {
		t.Fatalf("esperava AVAILABLE após liberar, obteve %s", it.Status())
	}
}

func TestWithdrawChecksHoldBeforeStock(t *testing.T) {
	it := newTestItem(t, 1, 0)
	_ = it.SetHold(HoldRetired)
	if err := it.Withdraw(5); !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("esperava ErrItemUnavailable, obteve %v", err)
	}
}

func TestSetHoldRejectsUnknown(t *testing.T) {
	it := newTestItem(t, 1, 0)
	if err := it.SetHold(Hold("LOST")); !errors.Is(err, ErrInvalidHold) {
		t.Fatalf("esperava ErrInvalidHold, obteve %v", err)
	}
	if err := it.SetHold(HoldNone); !errors.Is(err, ErrInvalidHold) {
		t.Fatalf("esperava ErrInvalidHold, obteve %v", err)
	}
}

func TestAddAndRemoveStockPreserveOutstanding(t *testing.T) {
	it := newTestItem(t, 10, 2)
	_ = it.Withdraw(4)

	if err := it.AddStock(5); err != nil {
		t.Fatal(err)
	}
	if it.StockQuantity != 11 || it.OriginalStockQuantity != 15 {
		t.Fatalf("esperava 11/15, obteve %d/%d", it.StockQuantity, it.OriginalStockQuantity)
	}
	if it.Outstanding() != 4 {
		t.Fatalf("retirado deveria continuar 4, obteve %d", it.Outstanding())
	}

	if err := it.RemoveStock(12); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("esperava ErrInsufficientStock, obteve %v", err)
	}

	if err := it.RemoveStock(11); err != nil {
		t.Fatal(err)
	}
	if it.StockQuantity != 0 || it.OriginalStockQuantity != 4 {
		t.Fatalf("esperava 0/4, obteve %d/%d", it.StockQuantity, it.OriginalStockQuantity)
	}

	if err := it.Return(4); err != nil {
		t.Fatalf("unidades retiradas devem continuar retornáveis: %v", err)
	}
	assertBounds(t, it)
}

func TestUpdateOriginalStock(t *testing.T) {
	it := newTestItem(t, 10, 0)
	_ = it.Withdraw(4)

	if err := it.UpdateOriginalStock(-1); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("esperava ErrInvalidValue, obteve %v", err)
	}
	if err := it.UpdateOriginalStock(5); !errors.Is(err, ErrBelowCurrentStock) {
		t.Fatalf("esperava ErrBelowCurrentStock, obteve %v", err)
	}
	if err := it.UpdateOriginalStock(6); err != nil {
		t.Fatal(err)
	}
	if err := it.Return(1); !errors.Is(err, ErrExceedsOriginalStock) {
		t.Fatalf("esperava ErrExceedsOriginalStock, obteve %v", err)
	}
	assertBounds(t, it)
}

func TestSetStockQuantityDoesNotMoveOriginal(t *testing.T) {
	it := newTestItem(t, 10, 0)

	if err := it.SetStockQuantity(11); !errors.Is(err, ErrAboveOriginalStock) {
		t.Fatalf("esperava ErrAboveOriginalStock, obteve %v", err)
	}
	if err := it.SetStockQuantity(7); err != nil {
		t.Fatal(err)
	}
	if it.OriginalStockQuantity != 10 {
		t.Fatalf("estoque original não deveria mudar, obteve %d", it.OriginalStockQuantity)
	}
}

func TestGenerateCode(t *testing.T) {
	now := time.Date(2025, 6, 28, 10, 0, 0, 0, time.UTC)
	code := GenerateCode("Main Warehouse", "3f2a1b9c-0000-4000-8000-000000000000", 7, now)

	want := "MAINWARE-3F2A1B9C-20250628-0007"
	if code != want {
		t.Fatalf("obteve %q, esperava %q", code, want)
	}

	fallback := GenerateCode("çã", "ab", 1, now)
	if !strings.HasPrefix(fallback, "ITEM-AB-") {
		t.Fatalf("prefixo padrão inesperado: %q", fallback)
	}
}

func TestParseQRPayload(t *testing.T) {
	it := newTestItem(t, 1, 0)

	id, ok := ParseQRPayload(it.QRPayload())
	if !ok || id != it.ID {
		t.Fatalf("esperava %s, obteve %s (%v)", it.ID, id, ok)
	}

	for _, bad := range []string{it.ID, "item:", "item:xyz", "user:" + it.ID} {
		if _, ok := ParseQRPayload(bad); ok {
			t.Errorf("payload %q não deveria ser aceito", bad)
		}
	}
}
