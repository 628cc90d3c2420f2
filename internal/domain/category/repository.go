package category

import "context"

// Repository define as operações de persistência para categorias
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Category, error)

	// ListByCompany retorna as categorias da empresa. Com branchID informado,
	// retorna as da filial mais as que valem para a empresa inteira.
	ListByCompany(ctx context.Context, companyID, branchID string) ([]*Category, error)
}
