// Package tenancy administra o grafo empresa → filial → vínculo, as
// categorias e os usuários, e calcula o escopo de acesso de cada usuário.
package tenancy

import (
	"context"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
)

// Service expõe as operações de cadastro multiempresa
type Service struct {
	store store.Store
	log   logger.Logger
}

// NewService cria o serviço
func NewService(st store.Store, log logger.Logger) *Service {
	return &Service{
		store: st,
		log:   log.With("component", "tenancy"),
	}
}

// ComputeAccessScope carrega os vínculos do usuário e calcula o escopo.
// Usuário inativo é recusado.
func (s *Service) ComputeAccessScope(ctx context.Context, userID string) (access.Scope, error) {
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return access.Scope{}, err
	}
	if !u.IsActive {
		return access.Scope{}, user.ErrUserInactive.WithDetail("user_id", userID)
	}
	return s.scopeFor(ctx, s.store, u)
}

func (s *Service) scopeFor(ctx context.Context, repos store.Repositories, u *user.User) (access.Scope, error) {
	memberships, err := repos.Memberships().ListByUser(ctx, u.ID)
	if err != nil {
		return access.Scope{}, err
	}

	var wide []string
	for _, m := range memberships {
		if m.Role.CompanyWide() {
			wide = append(wide, m.CompanyID)
		}
	}

	companyBranches := make(map[string][]string, len(wide))
	if len(wide) > 0 {
		branches, err := repos.Branches().ListByCompanies(ctx, wide)
		if err != nil {
			return access.Scope{}, err
		}
		for _, b := range branches {
			companyBranches[b.CompanyID] = append(companyBranches[b.CompanyID], b.ID)
		}
	}

	return access.Compute(u, memberships, companyBranches), nil
}

// fail registra a falha no nível adequado e devolve o erro intacto
func (s *Service) fail(op string, err error, keysAndValues ...interface{}) error {
	fields := append([]interface{}{"operation", op, "error", err.Error()}, keysAndValues...)
	if _, ok := apperror.As(err); ok {
		s.log.Warn("operação rejeitada", fields...)
		return err
	}
	s.log.Error("falha ao executar operação de cadastro", fields...)
	return err
}

func denied(field string, value any) error {
	return apperror.ErrPermissionDenied.WithDetail(field, value)
}
