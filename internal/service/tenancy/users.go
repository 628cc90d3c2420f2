package tenancy

import (
	"context"
	"errors"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

// RegisterUser cadastra um membro sem vínculos. O acesso a empresas vem
// depois, por AddMembership.
func (s *Service) RegisterUser(ctx context.Context, p user.Profile, password string) (*user.User, error) {
	u, err := user.NewUser(p, password, user.LevelMember)
	if err != nil {
		return nil, s.fail("register_user", err, "username", p.Username)
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, s.fail("register_user", err, "username", p.Username)
	}

	s.log.Info("usuário registrado", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// NewUserInput descreve um usuário criado por um desenvolvedor
type NewUserInput struct {
	Profile     user.Profile
	Password    string
	Level       user.Level
	Memberships []MembershipInput
}

// CreateUserWithMemberships cria o usuário e seus vínculos em uma única
// transação. Somente desenvolvedores.
func (s *Service) CreateUserWithMemberships(ctx context.Context, scope access.Scope, in NewUserInput) (*user.User, []*membership.Membership, error) {
	if !scope.IsUnrestricted() {
		return nil, nil, s.fail("create_user", denied("user_id", scope.UserID()))
	}

	u, err := user.NewUser(in.Profile, in.Password, in.Level)
	if err != nil {
		return nil, nil, s.fail("create_user", err, "username", in.Profile.Username)
	}

	memberships := make([]*membership.Membership, 0, len(in.Memberships))
	for _, mi := range in.Memberships {
		m, err := membership.NewMembership(u.ID, mi.CompanyID, mi.Role, mi.BranchID)
		if err != nil {
			return nil, nil, s.fail("create_user", err, "company_id", mi.CompanyID)
		}
		memberships = append(memberships, m)
	}

	err = s.store.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		for _, m := range memberships {
			if err := s.grant(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, s.fail("create_user", err, "username", in.Profile.Username)
	}

	s.log.Info("usuário criado", "user_id", u.ID, "username", u.Username, "memberships", len(memberships))
	return u, memberships, nil
}

// CompanyUserInput descreve um usuário comum criado por proprietário ou
// supervisor para uma filial da empresa
type CompanyUserInput struct {
	Profile   user.Profile
	Password  string
	CompanyID string
	BranchID  string
}

// CreateCompanyUser cria um usuário com papel USER na filial informada
func (s *Service) CreateCompanyUser(ctx context.Context, scope access.Scope, in CompanyUserInput) (*user.User, *membership.Membership, error) {
	if !scope.CanSuperviseCompany(in.CompanyID) {
		return nil, nil, s.fail("create_company_user", denied("company_id", in.CompanyID))
	}

	u, err := user.NewUser(in.Profile, in.Password, user.LevelMember)
	if err != nil {
		return nil, nil, s.fail("create_company_user", err, "username", in.Profile.Username)
	}
	m, err := membership.NewMembership(u.ID, in.CompanyID, membership.RoleUser, in.BranchID)
	if err != nil {
		return nil, nil, s.fail("create_company_user", err)
	}

	err = s.store.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return s.grant(ctx, tx, m)
	})
	if err != nil {
		return nil, nil, s.fail("create_company_user", err, "username", in.Profile.Username, "company_id", in.CompanyID)
	}

	s.log.Info("usuário da empresa criado", "user_id", u.ID, "company_id", in.CompanyID, "branch_id", in.BranchID)
	return u, m, nil
}

// GetUser busca um usuário. É visível a si mesmo, aos desenvolvedores e a
// quem acessa alguma filial ou supervisiona alguma empresa do usuário.
func (s *Service) GetUser(ctx context.Context, scope access.Scope, id string) (*user.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == scope.UserID() || scope.IsUnrestricted() {
		return u, nil
	}

	memberships, err := s.store.Memberships().ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, m := range memberships {
		if scope.CanSuperviseCompany(m.CompanyID) {
			return u, nil
		}
		if m.BranchID != "" && scope.CanAccessBranch(m.CompanyID, m.BranchID) {
			return u, nil
		}
	}
	return nil, denied("user_id", id)
}

// ChangePassword troca a senha do próprio usuário
func (s *Service) ChangePassword(ctx context.Context, scope access.Scope, current, next string) error {
	u, err := s.store.Users().FindByID(ctx, scope.UserID())
	if err != nil {
		return s.fail("change_password", err)
	}
	if !u.CheckPassword(current) {
		return s.fail("change_password", user.ErrInvalidCredentials, "user_id", u.ID)
	}
	if err := u.SetPassword(next); err != nil {
		return s.fail("change_password", err, "user_id", u.ID)
	}
	if err := s.store.Users().Update(ctx, u); err != nil {
		return s.fail("change_password", err, "user_id", u.ID)
	}

	s.log.Info("senha alterada", "user_id", u.ID)
	return nil
}

// RotateLoginToken invalida o QR de login atual e gera outro. Vale para o
// próprio usuário ou para desenvolvedores.
func (s *Service) RotateLoginToken(ctx context.Context, scope access.Scope, userID string) (*user.User, error) {
	if userID != scope.UserID() && !scope.IsUnrestricted() {
		return nil, s.fail("rotate_login_token", denied("user_id", userID))
	}

	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, s.fail("rotate_login_token", err, "user_id", userID)
	}
	u.RotateLoginToken()
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, s.fail("rotate_login_token", err, "user_id", userID)
	}

	s.log.Info("token de login renovado", "user_id", userID)
	return u, nil
}

// AuthenticatePassword confere usuário e senha
func (s *Service) AuthenticatePassword(ctx context.Context, username, password string) (*user.User, error) {
	u, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, s.fail("authenticate", user.ErrInvalidCredentials, "username", username)
	}
	if err != nil {
		return nil, s.fail("authenticate", err, "username", username)
	}
	if !u.CheckPassword(password) {
		return nil, s.fail("authenticate", user.ErrInvalidCredentials, "username", username)
	}
	return s.activeUser(u)
}

// AuthenticateLoginToken resolve o conteúdo do QR de login
// ("login_token:<uuid>" ou o token puro)
func (s *Service) AuthenticateLoginToken(ctx context.Context, payload string) (*user.User, error) {
	token, err := user.ParseLoginToken(payload)
	if err != nil {
		return nil, s.fail("authenticate_token", err)
	}

	u, err := s.store.Users().FindByLoginToken(ctx, token)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, s.fail("authenticate_token", user.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, s.fail("authenticate_token", err)
	}
	return s.activeUser(u)
}

func (s *Service) activeUser(u *user.User) (*user.User, error) {
	if !u.IsActive {
		return nil, s.fail("authenticate", user.ErrUserInactive.WithDetail("user_id", u.ID))
	}
	s.log.Info("usuário autenticado", "user_id", u.ID)
	return u, nil
}

// EnsureDeveloper garante a existência do desenvolvedor inicial da
// instalação. Se o nome de usuário já existe nada é alterado.
func (s *Service) EnsureDeveloper(ctx context.Context, p user.Profile, password string) (*user.User, bool, error) {
	existing, err := s.store.Users().FindByUsername(ctx, p.Username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, false, s.fail("ensure_developer", err, "username", p.Username)
	}

	u, err := user.NewUser(p, password, user.LevelDeveloper)
	if err != nil {
		return nil, false, s.fail("ensure_developer", err, "username", p.Username)
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, false, s.fail("ensure_developer", err, "username", p.Username)
	}

	s.log.Info("desenvolvedor inicial criado", "user_id", u.ID, "username", u.Username)
	return u, true, nil
}

// UserQuery filtra a listagem de usuários
type UserQuery struct {
	Search string
	Limit  int
	Offset int
}

// ListUsers lista usuários para administração. Desenvolvedores veem todos;
// proprietários veem quem tem vínculo com suas empresas.
func (s *Service) ListUsers(ctx context.Context, scope access.Scope, q UserQuery) ([]*user.User, int, error) {
	f := user.Filter{Search: q.Search, Limit: q.Limit, Offset: q.Offset}
	if !scope.IsUnrestricted() {
		f.CompanyIDs = scope.OwnedCompanyIDs()
		if len(f.CompanyIDs) == 0 {
			return nil, 0, s.fail("list_users", denied("user_id", scope.UserID()))
		}
	}

	users, err := s.store.Users().List(ctx, f)
	if err != nil {
		return nil, 0, s.fail("list_users", err)
	}
	total, err := s.store.Users().Count(ctx, f)
	if err != nil {
		return nil, 0, s.fail("list_users", err)
	}
	return users, total, nil
}

// UpdateUserInput descreve a alteração administrativa de um usuário;
// campos nulos não mudam
type UpdateUserInput struct {
	Profile  user.ProfileUpdate
	Level    *user.Level
	IsActive *bool
}

// UpdateUser altera cadastro, nível e situação de um usuário. Desenvolvedores
// alteram qualquer usuário; proprietários, membros das suas empresas que não
// sejam desenvolvedores. Nível só muda por desenvolvedor.
func (s *Service) UpdateUser(ctx context.Context, scope access.Scope, userID string, in UpdateUserInput) (*user.User, error) {
	const op = "update_user"

	if in.Level != nil && !scope.IsUnrestricted() {
		return nil, s.fail(op, denied("level", string(*in.Level)), "user_id", userID)
	}
	if in.IsActive != nil && !*in.IsActive && userID == scope.UserID() {
		return nil, s.fail(op, user.ErrSelfDeactivation.WithDetail("user_id", userID))
	}

	var updated *user.User
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.authorizeUserAdmin(ctx, tx, scope, u); err != nil {
			return err
		}

		if err := u.UpdateProfile(in.Profile); err != nil {
			return err
		}
		if in.Level != nil {
			if err := u.SetLevel(*in.Level); err != nil {
				return err
			}
		}
		if in.IsActive != nil {
			u.SetActive(*in.IsActive)
		}

		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err, "user_id", userID, "actor_id", scope.UserID())
	}

	s.log.Info("usuário alterado", "user_id", userID, "is_active", updated.IsActive, "actor_id", scope.UserID())
	return updated, nil
}

// SetUserActive ativa ou desativa a conta de um usuário
func (s *Service) SetUserActive(ctx context.Context, scope access.Scope, userID string, active bool) (*user.User, error) {
	return s.UpdateUser(ctx, scope, userID, UpdateUserInput{IsActive: &active})
}

func (s *Service) authorizeUserAdmin(ctx context.Context, repos store.Repositories, scope access.Scope, u *user.User) error {
	if scope.IsUnrestricted() {
		return nil
	}
	if u.IsDeveloper() {
		return denied("user_id", u.ID)
	}

	memberships, err := repos.Memberships().ListByUser(ctx, u.ID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if scope.CanAdministerCompany(m.CompanyID) {
			return nil
		}
	}
	return denied("user_id", u.ID)
}
