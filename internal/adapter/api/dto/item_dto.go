package dto

import (
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
)

// ItemRequest representa os dados de cadastro de item
type ItemRequest struct {
	BranchID      string `json:"branch_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	StockQuantity int    `json:"stock_quantity"`
	MinimumStock  int    `json:"minimum_stock"`
	CategoryID    string `json:"category_id"`
	BarcodeNumber string `json:"barcode_number"`
}

// ToInput converte para a entrada do serviço
func (r ItemRequest) ToInput() ledger.CreateItemInput {
	return ledger.CreateItemInput{
		BranchID:      r.BranchID,
		Name:          r.Name,
		Description:   r.Description,
		StockQuantity: r.StockQuantity,
		MinimumStock:  r.MinimumStock,
		CategoryID:    r.CategoryID,
		BarcodeNumber: r.BarcodeNumber,
	}
}

// ItemUpdateRequest traz apenas os campos a alterar
type ItemUpdateRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	CategoryID    *string `json:"category_id"`
	MinimumStock  *int    `json:"minimum_stock"`
	BarcodeNumber *string `json:"barcode_number"`
	StockQuantity *int    `json:"stock_quantity"`
	Notes         string  `json:"notes"`
}

// ToInput converte para a entrada do serviço
func (r ItemUpdateRequest) ToInput() ledger.UpdateItemInput {
	return ledger.UpdateItemInput{
		Name:          r.Name,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		MinimumStock:  r.MinimumStock,
		BarcodeNumber: r.BarcodeNumber,
		StockQuantity: r.StockQuantity,
		Notes:         r.Notes,
	}
}

// MovementRequest representa uma retirada, devolução, entrada ou baixa
type MovementRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1,max=2147483647"`
	Notes    string `json:"notes"`
}

// OriginalStockRequest redefine o estoque original
type OriginalStockRequest struct {
	OriginalStockQuantity int `json:"original_stock_quantity" binding:"min=0,max=2147483647"`
}

// HoldRequest aplica um bloqueio administrativo
type HoldRequest struct {
	Hold  string `json:"hold" binding:"required"`
	Notes string `json:"notes"`
}

// NotesRequest carrega apenas observações
type NotesRequest struct {
	Notes string `json:"notes"`
}

// ItemResponse representa a estrutura de resposta para item
type ItemResponse struct {
	ID                    string    `json:"id"`
	ItemID                string    `json:"item_id"`
	BranchID              string    `json:"branch_id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	CategoryID            string    `json:"category_id,omitempty"`
	BarcodeNumber         string    `json:"barcode_number,omitempty"`
	Status                string    `json:"status"`
	StockState            string    `json:"stock_state"`
	Hold                  string    `json:"hold,omitempty"`
	StockQuantity         int       `json:"stock_quantity"`
	OriginalStockQuantity int       `json:"original_stock_quantity"`
	MinimumStock          int       `json:"minimum_stock"`
	Outstanding           int       `json:"outstanding"`
	QRPayload             string    `json:"qr_payload"`
	ScanValue             string    `json:"scan_value"`
	CreatedBy             string    `json:"created_by,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ItemListResponse representa a resposta de listagem de itens
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	PageInfo
}

// MovementResponse traz o item após a operação e a transação registrada
type MovementResponse struct {
	Item        ItemResponse             `json:"item"`
	Transaction *transaction.Transaction `json:"transaction"`
}

// ToItemResponse converte um modelo de domínio em uma resposta DTO
func ToItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:                    it.ID,
		ItemID:                it.Code,
		BranchID:              it.BranchID,
		Name:                  it.Name,
		Description:           it.Description,
		CategoryID:            it.CategoryID,
		BarcodeNumber:         it.BarcodeNumber,
		Status:                string(it.Status()),
		StockState:            string(it.StockState()),
		Hold:                  string(it.Hold),
		StockQuantity:         it.StockQuantity,
		OriginalStockQuantity: it.OriginalStockQuantity,
		MinimumStock:          it.MinimumStock,
		Outstanding:           it.Outstanding(),
		QRPayload:             it.QRPayload(),
		ScanValue:             it.ScanValue(),
		CreatedBy:             it.CreatedBy,
		CreatedAt:             it.CreatedAt,
		UpdatedAt:             it.UpdatedAt,
	}
}

// ToItemListResponse converte uma lista de itens com paginação
func ToItemListResponse(items []*item.Item, total int, p PaginationParams) ItemListResponse {
	out := ItemListResponse{
		Items:    make([]ItemResponse, len(items)),
		PageInfo: NewPageInfo(total, p),
	}
	for i, it := range items {
		out.Items[i] = ToItemResponse(it)
	}
	return out
}

// ToMovementResponse converte o resultado de uma operação de estoque
func ToMovementResponse(res *ledger.Result) MovementResponse {
	return MovementResponse{
		Item:        ToItemResponse(res.Item),
		Transaction: res.Transaction,
	}
}
