package company

import "context"

// Repository define as operações de persistência para empresas
type Repository interface {
	// Create persiste uma nova empresa
	Create(ctx context.Context, c *Company) error

	// FindByID busca uma empresa pelo ID
	FindByID(ctx context.Context, id string) (*Company, error)

	// ListAll retorna todas as empresas ordenadas por nome
	ListAll(ctx context.Context) ([]*Company, error)

	// ListByIDs retorna as empresas com os IDs informados
	ListByIDs(ctx context.Context, ids []string) ([]*Company, error)
}
