package branch

import (
	"context"
)

// Repository define as operações de persistência para filiais
type Repository interface {
	// Create persiste uma nova filial
	Create(ctx context.Context, b *Branch) error

	// Update atualiza uma filial existente
	Update(ctx context.Context, b *Branch) error

	// FindByID busca uma filial pelo ID
	FindByID(ctx context.Context, id string) (*Branch, error)

	// FindByIDForUpdate busca a filial bloqueando a linha até o fim da transação.
	// Serializa a geração de códigos de item e a troca de gerente da filial.
	FindByIDForUpdate(ctx context.Context, id string) (*Branch, error)

	// ListByCompany retorna as filiais de uma empresa
	ListByCompany(ctx context.Context, companyID string) ([]*Branch, error)

	// ListByCompanies retorna as filiais de várias empresas
	ListByCompanies(ctx context.Context, companyIDs []string) ([]*Branch, error)

	// ListByIDs retorna as filiais com os IDs informados
	ListByIDs(ctx context.Context, ids []string) ([]*Branch, error)

	// ListAll retorna todas as filiais
	ListAll(ctx context.Context) ([]*Branch, error)
}
