package transaction

import (
	"context"
	"time"
)

// Filter restringe consultas do livro. BranchIDs vazio não restringe filial;
// quem chama é responsável por traduzir o escopo de acesso.
type Filter struct {
	BranchIDs []string
	ItemID    string
	UserID    string
	Type      Type
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ItemCount é a contagem de movimentações de um item
type ItemCount struct {
	ItemName string `json:"item_name"`
	Count    int    `json:"transaction_count"`
}

// BranchSummary agrega as movimentações de uma filial em um intervalo
type BranchSummary struct {
	BranchID          string      `json:"branch_id"`
	TotalTransactions int         `json:"total_transactions"`
	Withdrawals       int         `json:"withdrawals"`
	Returns           int         `json:"returns"`
	UniqueUsers       int         `json:"unique_users"`
	TopItems          []ItemCount `json:"top_items"`
}

// TopItemsLimit é o número de itens mais movimentados por filial no resumo
const TopItemsLimit = 5

// Repository define as operações de persistência do livro. Não há
// atualização nem exclusão: o livro é somente de inserção.
type Repository interface {
	// Create insere uma nova transação
	Create(ctx context.Context, t *Transaction) error

	// FindByID busca uma transação pelo ID
	FindByID(ctx context.Context, id string) (*Transaction, error)

	// List retorna transações conforme o filtro, mais recentes primeiro
	List(ctx context.Context, f Filter) ([]*Transaction, error)

	// Count retorna o total de transações conforme o filtro, ignorando paginação
	Count(ctx context.Context, f Filter) (int, error)

	// Summarize agrega as transações das filiais informadas no intervalo.
	// Filiais sem movimentação aparecem zeradas.
	Summarize(ctx context.Context, branchIDs []string, from, to *time.Time) ([]BranchSummary, error)
}
