package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

var (
	ErrInvalidType         = apperror.Validation("INVALID_TRANSACTION_TYPE", "tipo de transação inválido")
	ErrInvalidQuantity     = apperror.Validation("INVALID_TRANSACTION_QUANTITY", "quantidade inválida para o tipo de transação")
	ErrMissingReference    = apperror.Validation("TRANSACTION_INCOMPLETE", "transação precisa de filial, item e usuário")
	ErrTransactionNotFound = apperror.NotFound("TRANSACTION_NOT_FOUND", "transação não encontrada")
	ErrDuplicateReference  = apperror.Conflict("DUPLICATE_REFERENCE", "número de referência já existe")
	ErrInvalidPeriod       = apperror.Validation("INVALID_PERIOD", "período inválido")
)

// Type é o tipo de movimentação registrada
type Type string

const (
	TypeWithdraw    Type = "WITHDRAW"
	TypeReturn      Type = "RETURN"
	TypeAddStock    Type = "ADD_STOCK"
	TypeRemoveStock Type = "REMOVE_STOCK"
	TypeCreate      Type = "CREATE"
	TypeUpdate      Type = "UPDATE"
	TypeDelete      Type = "DELETE"
)

// Valid verifica se o tipo é conhecido
func (t Type) Valid() bool {
	switch t {
	case TypeWithdraw, TypeReturn, TypeAddStock, TypeRemoveStock, TypeCreate, TypeUpdate, TypeDelete:
		return true
	}
	return false
}

// AffectsStock indica tipos cuja quantidade precisa ser positiva
func (t Type) AffectsStock() bool {
	switch t {
	case TypeWithdraw, TypeReturn, TypeAddStock, TypeRemoveStock:
		return true
	}
	return false
}

// Transaction é uma entrada imutável do livro de movimentações.
// Nome e código do item ficam copiados para que o histórico sobreviva
// à exclusão do item.
type Transaction struct {
	ID              string    `json:"id"`
	ReferenceNumber string    `json:"reference_number"`
	BranchID        string    `json:"branch_id"`
	ItemID          string    `json:"item_id,omitempty"`
	ItemCode        string    `json:"item_code"`
	ItemName        string    `json:"item_name"`
	UserID          string    `json:"user_id"`
	Type            Type      `json:"transaction_type"`
	Quantity        int       `json:"quantity"`
	StockBefore     int       `json:"stock_before"`
	StockAfter      int       `json:"stock_after"`
	Notes           string    `json:"notes"`
	Timestamp       time.Time `json:"timestamp"`
}

// Entry descreve a movimentação a registrar
type Entry struct {
	BranchID    string
	ItemID      string
	ItemCode    string
	ItemName    string
	UserID      string
	Type        Type
	Quantity    int
	StockBefore int
	StockAfter  int
	Notes       string
}

// New valida a entrada e cria a transação com referência única
func New(e Entry) (*Transaction, error) {
	if !e.Type.Valid() {
		return nil, ErrInvalidType.WithDetail("transaction_type", string(e.Type))
	}
	if e.BranchID == "" || e.ItemID == "" || e.UserID == "" {
		return nil, ErrMissingReference
	}
	if e.Quantity < 0 || (e.Type.AffectsStock() && e.Quantity == 0) {
		return nil, ErrInvalidQuantity.WithDetail("quantity", e.Quantity)
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:              uuid.New().String(),
		ReferenceNumber: NewReferenceNumber(now),
		BranchID:        e.BranchID,
		ItemID:          e.ItemID,
		ItemCode:        e.ItemCode,
		ItemName:        e.ItemName,
		UserID:          e.UserID,
		Type:            e.Type,
		Quantity:        e.Quantity,
		StockBefore:     e.StockBefore,
		StockAfter:      e.StockAfter,
		Notes:           strings.TrimSpace(e.Notes),
		Timestamp:       now,
	}, nil
}

// NewReferenceNumber gera "TRX{AAAAMMDD}-{12 hex}". A unicidade final é
// garantida pela restrição do armazenamento.
func NewReferenceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:12]
	return "TRX" + now.Format("20060102") + "-" + suffix
}
