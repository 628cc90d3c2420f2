package item

import "context"

// Filter restringe consultas de itens. BranchIDs vazio não restringe filial;
// quem chama é responsável por traduzir o escopo de acesso.
type Filter struct {
	BranchIDs  []string
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

// Repository define as operações de persistência para itens
type Repository interface {
	// Create persiste um novo item
	Create(ctx context.Context, it *Item) error

	// Update grava o estado atual do item
	Update(ctx context.Context, it *Item) error

	// Delete remove o item. As transações do item permanecem.
	Delete(ctx context.Context, id string) error

	// FindByID busca um item pelo ID
	FindByID(ctx context.Context, id string) (*Item, error)

	// FindByIDForUpdate busca o item bloqueando a linha até o fim da transação
	FindByIDForUpdate(ctx context.Context, id string) (*Item, error)

	// FindByScanValue busca itens pelo número de código de barras ou pelo código do item
	FindByScanValue(ctx context.Context, value string) ([]*Item, error)

	// List retorna itens conforme o filtro, ordenados por nome
	List(ctx context.Context, f Filter) ([]*Item, error)

	// Count retorna o total de itens conforme o filtro, ignorando paginação
	Count(ctx context.Context, f Filter) (int, error)
}
