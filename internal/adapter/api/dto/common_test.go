package dto

import (
	"errors"
	"net/http"
	"testing"

	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validação", item.ErrInvalidQuantity.WithDetail("quantity", 0), http.StatusBadRequest, "INVALID_QUANTITY"},
		{"conflito", item.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"não encontrado", item.ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
		{"permissão", apperror.ErrPermissionDenied, http.StatusForbidden, apperror.ErrPermissionDenied.Code},
		{"credenciais", user.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"vínculo duplicado", membership.ErrDuplicateMembership, http.StatusConflict, "DUPLICATE_MEMBERSHIP"},
		{"erro interno", errors.New("conexão recusada"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := FromError(tt.err)
			if status != tt.status || body.Code != tt.status {
				t.Fatalf("esperava %d, obteve %d (corpo %d)", tt.status, status, body.Code)
			}
			if body.ErrorCode != tt.code {
				t.Fatalf("esperava código %q, obteve %q", tt.code, body.ErrorCode)
			}
		})
	}

	_, body := FromError(item.ErrInvalidQuantity.WithDetail("quantity", -1))
	if body.Field != "quantity" || body.Value != -1 {
		t.Fatalf("detalhe não propagado: %+v", body)
	}
	_, body = FromError(errors.New("senha do banco: xyz"))
	if body.Details != "" {
		t.Fatal("erro interno não deveria ser exposto")
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		page, size       int
		wantPage, wantSz int
		offset           int
	}{
		{0, 0, 1, 20, 0},
		{3, 10, 3, 10, 20},
		{1, 500, 1, 100, 0},
	}
	for _, tt := range tests {
		p := GetPagination(tt.page, tt.size)
		if p.Page != tt.wantPage || p.PageSize != tt.wantSz || p.Offset() != tt.offset {
			t.Fatalf("GetPagination(%d, %d) = %+v, offset %d", tt.page, tt.size, p, p.Offset())
		}
	}

	info := NewPageInfo(41, GetPagination(1, 20))
	if info.TotalPages != 3 {
		t.Fatalf("esperava 3 páginas, obteve %d", info.TotalPages)
	}
	if NewPageInfo(0, GetPagination(1, 20)).TotalPages != 1 {
		t.Fatal("lista vazia deveria ter uma página")
	}
}
