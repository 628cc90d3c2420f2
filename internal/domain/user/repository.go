package user

import (
	"context"
)

// Filter restringe a listagem de usuários. CompanyIDs vazio não restringe;
// com valores, só entram usuários com vínculo em alguma das empresas.
type Filter struct {
	CompanyIDs []string
	Search     string
	Limit      int
	Offset     int
}

// Repository define as operações de persistência para usuários
type Repository interface {
	// Create persiste um novo usuário
	Create(ctx context.Context, u *User) error

	// Update atualiza os dados de um usuário existente
	Update(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername busca um usuário pelo nome de usuário
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByLoginToken busca um usuário pelo token do QR de login
	FindByLoginToken(ctx context.Context, token string) (*User, error)

	// ListByIDs retorna os usuários com os IDs informados
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)

	// List retorna usuários conforme o filtro, ordenados por nome de usuário
	List(ctx context.Context, f Filter) ([]*User, error)

	// Count retorna o total de usuários conforme o filtro, ignorando paginação
	Count(ctx context.Context, f Filter) (int, error)
}
