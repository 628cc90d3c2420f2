package membership

import "context"

// Repository define as operações de persistência para vínculos
type Repository interface {
	// Create persiste um novo vínculo. Retorna ErrDuplicateMembership
	// quando o usuário já possui vínculo com a empresa.
	Create(ctx context.Context, m *Membership) error

	// Update atualiza papel e filial de um vínculo existente
	Update(ctx context.Context, m *Membership) error

	// Delete remove um vínculo
	Delete(ctx context.Context, id string) error

	// FindByID busca um vínculo pelo ID
	FindByID(ctx context.Context, id string) (*Membership, error)

	// FindByUserAndCompany busca o vínculo de um usuário com uma empresa
	FindByUserAndCompany(ctx context.Context, userID, companyID string) (*Membership, error)

	// FindBranchManager busca o gerente atual da filial, se houver
	FindBranchManager(ctx context.Context, branchID string) (*Membership, error)

	// ListByUser retorna todos os vínculos de um usuário
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)

	// ListByCompany retorna todos os vínculos de uma empresa
	ListByCompany(ctx context.Context, companyID string) ([]*Membership, error)
}
