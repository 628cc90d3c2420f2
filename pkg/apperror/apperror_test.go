package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := Conflict("INSUFFICIENT_STOCK", "estoque insuficiente")
	detailed := sentinel.WithDetail("quantity", 7)

	if !errors.Is(detailed, sentinel) {
		t.Fatal("erro detalhado deveria corresponder à sentinela")
	}

	wrapped := fmt.Errorf("falha ao retirar: %w", detailed)
	if !errors.Is(wrapped, sentinel) {
		t.Fatal("erro encapsulado deveria corresponder à sentinela")
	}

	if errors.Is(detailed, Conflict("OTHER", "outro")) {
		t.Fatal("códigos diferentes não deveriam corresponder")
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	sentinel := Validation("INVALID_QUANTITY", "quantidade inválida")
	_ = sentinel.WithDetail("quantity", -1)

	if sentinel.Field != "" || sentinel.Value != nil {
		t.Fatalf("sentinela foi alterada: %+v", sentinel)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("X", "x"), KindValidation},
		{"not found wrapped", fmt.Errorf("ctx: %w", NotFound("Y", "y")), KindNotFound},
		{"permission", ErrPermissionDenied, KindPermission},
		{"plain error", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessageIncludesDetail(t *testing.T) {
	err := Conflict("EXCEEDS_ORIGINAL_STOCK", "devolução excede o estoque original").WithDetail("quantity", 3)
	want := "devolução excede o estoque original (quantity=3)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
