package item

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

var (
	ErrInvalidQuantity      = apperror.Validation("INVALID_QUANTITY", "quantidade deve ser um inteiro positivo dentro do limite")
	ErrInvalidValue         = apperror.Validation("INVALID_VALUE", "valor fora do intervalo permitido")
	ErrEmptyName            = apperror.Validation("ITEM_NAME_REQUIRED", "nome do item não pode ser vazio")
	ErrEmptyBranchID        = apperror.Validation("ITEM_BRANCH_REQUIRED", "ID da filial não pode ser vazio")
	ErrInvalidHold          = apperror.Validation("INVALID_HOLD", "bloqueio administrativo inválido")
	ErrInsufficientStock    = apperror.Conflict("INSUFFICIENT_STOCK", "estoque insuficiente")
	ErrItemUnavailable      = apperror.Conflict("ITEM_UNAVAILABLE", "item indisponível para retirada")
	ErrExceedsOriginalStock = apperror.Conflict("EXCEEDS_ORIGINAL_STOCK", "devolução excede o estoque original")
	ErrBelowCurrentStock    = apperror.Conflict("BELOW_CURRENT_STOCK", "estoque original não pode ficar abaixo do estoque atual")
	ErrAboveOriginalStock   = apperror.Conflict("ABOVE_ORIGINAL_STOCK", "estoque atual não pode superar o estoque original")
	ErrNotOnHold            = apperror.Conflict("ITEM_NOT_ON_HOLD", "item não possui bloqueio administrativo")
	ErrItemNotFound         = apperror.NotFound("ITEM_NOT_FOUND", "item não encontrado")
	ErrDuplicateBarcode     = apperror.Conflict("DUPLICATE_BARCODE", "código de barras já usado nesta filial")
	ErrDuplicateCode        = apperror.Conflict("DUPLICATE_ITEM_CODE", "código de item já existe")
)

// MaxQuantity é o maior valor de quantidade ou estoque aceito, o limite da coluna INTEGER
const MaxQuantity = math.MaxInt32

func validQuantity(quantity int) bool {
	return quantity > 0 && quantity <= MaxQuantity
}

func validValue(value int) bool {
	return value >= 0 && value <= MaxQuantity
}

// StockState é o estado derivado do estoque
type StockState string

const (
	StockAvailable  StockState = "AVAILABLE"
	StockLow        StockState = "LOW_STOCK"
	StockOutOfStock StockState = "OUT_OF_STOCK"
)

// Hold é o bloqueio administrativo do item. Só muda por ação explícita;
// movimentações de estoque nunca o sobrescrevem.
type Hold string

const (
	HoldNone        Hold = ""
	HoldMaintenance Hold = "MAINTENANCE"
	HoldRetired     Hold = "RETIRED"
)

// Status é a composição exibida do item: o bloqueio, quando existe,
// senão o estado derivado do estoque
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusLowStock    Status = "LOW_STOCK"
	StatusOutOfStock  Status = "OUT_OF_STOCK"
	StatusMaintenance Status = "MAINTENANCE"
	StatusRetired     Status = "RETIRED"
)

// Item é um bem controlado por estoque dentro de uma filial
type Item struct {
	ID                    string    `json:"id"`
	BranchID              string    `json:"branch_id"`
	Code                  string    `json:"item_id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	CategoryID            string    `json:"category_id,omitempty"`
	BarcodeNumber         string    `json:"barcode_number,omitempty"`
	Hold                  Hold      `json:"hold,omitempty"`
	StockQuantity         int       `json:"stock_quantity"`
	OriginalStockQuantity int       `json:"original_stock_quantity"`
	MinimumStock          int       `json:"minimum_stock"`
	CreatedBy             string    `json:"created_by"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewItem cria um item. O estoque inicial também vira o estoque original.
func NewItem(branchID, name string, stockQuantity, minimumStock int, createdBy string) (*Item, error) {
	if branchID == "" {
		return nil, ErrEmptyBranchID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !validValue(stockQuantity) {
		return nil, ErrInvalidValue.WithDetail("stock_quantity", stockQuantity)
	}
	if !validValue(minimumStock) {
		return nil, ErrInvalidValue.WithDetail("minimum_stock", minimumStock)
	}

	now := time.Now().UTC()
	return &Item{
		ID:                    uuid.New().String(),
		BranchID:              branchID,
		Name:                  name,
		StockQuantity:         stockQuantity,
		OriginalStockQuantity: stockQuantity,
		MinimumStock:          minimumStock,
		CreatedBy:             createdBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// StockState deriva o estado a partir do estoque atual e do mínimo
func (i *Item) StockState() StockState {
	switch {
	case i.StockQuantity == 0:
		return StockOutOfStock
	case i.StockQuantity <= i.MinimumStock:
		return StockLow
	default:
		return StockAvailable
	}
}

// Status compõe bloqueio administrativo e estado do estoque
func (i *Item) Status() Status {
	if i.Hold != HoldNone {
		return Status(i.Hold)
	}
	return Status(i.StockState())
}

// Outstanding é a quantidade retirada e ainda não devolvida
func (i *Item) Outstanding() int {
	return i.OriginalStockQuantity - i.StockQuantity
}

// Withdraw retira unidades do estoque
func (i *Item) Withdraw(quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity.WithDetail("quantity", quantity)
	}
	if i.Hold != HoldNone {
		return ErrItemUnavailable.WithDetail("status", string(i.Hold))
	}
	if quantity > i.StockQuantity {
		return ErrInsufficientStock.WithDetail("quantity", quantity)
	}

	i.StockQuantity -= quantity
	i.touch()
	return nil
}

// Return devolve unidades sem ultrapassar o estoque original.
// Devoluções são aceitas mesmo com o item bloqueado.
func (i *Item) Return(quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity.WithDetail("quantity", quantity)
	}
	if quantity > i.OriginalStockQuantity-i.StockQuantity {
		return ErrExceedsOriginalStock.WithDetail("quantity", quantity)
	}

	i.StockQuantity += quantity
	i.touch()
	return nil
}

// AddStock incorpora novas unidades ao patrimônio. O estoque original sobe
// na mesma medida, preservando o que está retirado.
func (i *Item) AddStock(quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity.WithDetail("quantity", quantity)
	}
	if quantity > MaxQuantity-i.OriginalStockQuantity {
		return ErrInvalidQuantity.WithDetail("quantity", quantity)
	}

	i.StockQuantity += quantity
	i.OriginalStockQuantity += quantity
	i.touch()
	return nil
}

// RemoveStock baixa unidades do patrimônio (descarte, perda). O estoque
// original desce na mesma medida, preservando o que está retirado.
func (i *Item) RemoveStock(quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity.WithDetail("quantity", quantity)
	}
	if quantity > i.StockQuantity {
		return ErrInsufficientStock.WithDetail("quantity", quantity)
	}

	i.StockQuantity -= quantity
	i.OriginalStockQuantity -= quantity
	i.touch()
	return nil
}

// UpdateOriginalStock redefine o teto de devoluções
func (i *Item) UpdateOriginalStock(value int) error {
	if !validValue(value) {
		return ErrInvalidValue.WithDetail("original_stock_quantity", value)
	}
	if value < i.StockQuantity {
		return ErrBelowCurrentStock.WithDetail("original_stock_quantity", value)
	}

	i.OriginalStockQuantity = value
	i.touch()
	return nil
}

// SetStockQuantity é a edição administrativa direta do estoque atual.
// Não altera o estoque original.
func (i *Item) SetStockQuantity(value int) error {
	if !validValue(value) {
		return ErrInvalidValue.WithDetail("stock_quantity", value)
	}
	if value > i.OriginalStockQuantity {
		return ErrAboveOriginalStock.WithDetail("stock_quantity", value)
	}

	i.StockQuantity = value
	i.touch()
	return nil
}

// SetMinimumStock altera o limite de estoque baixo
func (i *Item) SetMinimumStock(value int) error {
	if !validValue(value) {
		return ErrInvalidValue.WithDetail("minimum_stock", value)
	}

	i.MinimumStock = value
	i.touch()
	return nil
}

// Rename altera nome e descrição
func (i *Item) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	i.Name = name
	i.Description = description
	i.touch()
	return nil
}

// SetHold aplica um bloqueio administrativo
func (i *Item) SetHold(h Hold) error {
	if h != HoldMaintenance && h != HoldRetired {
		return ErrInvalidHold.WithDetail("hold", string(h))
	}

	i.Hold = h
	i.touch()
	return nil
}

// ClearHold remove o bloqueio administrativo
func (i *Item) ClearHold() {
	i.Hold = HoldNone
	i.touch()
}

// Available indica se o item aceita retiradas de qualquer quantidade positiva
func (i *Item) Available() bool {
	return i.Hold == HoldNone && i.StockQuantity > 0
}

// QRPayload é o conteúdo codificado no QR do item
func (i *Item) QRPayload() string {
	return "item:" + i.ID
}

// ScanValue é o valor lido pelo leitor de código de barras: o número
// cadastrado ou, na falta dele, o código do item
func (i *Item) ScanValue() string {
	if i.BarcodeNumber != "" {
		return i.BarcodeNumber
	}
	return i.Code
}

func (i *Item) touch() {
	i.UpdatedAt = time.Now().UTC()
}

// GenerateCode monta o código do item: prefixo da filial, data e sequência.
// O fragmento do ID da filial evita colisão entre filiais de nome parecido.
func GenerateCode(branchName, branchID string, sequence int, now time.Time) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(branchName) {
		if prefix.Len() >= 8 {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			prefix.WriteRune(r)
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("ITEM")
	}

	fragment := strings.ToUpper(strings.ReplaceAll(branchID, "-", ""))
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}

	return fmt.Sprintf("%s-%s-%s-%04d", prefix.String(), fragment, now.Format("20060102"), sequence)
}

// ParseQRPayload extrai o ID do item de um conteúdo "item:<uuid>"
func ParseQRPayload(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	rest, ok := strings.CutPrefix(payload, "item:")
	if !ok {
		return "", false
	}

	id, err := uuid.Parse(rest)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
