package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, id_number, email, first_name, last_name, department,
	contact_number, password, level, login_token, is_active, date_joined, updated_at`

// UserRepository implementa user.Repository usando PostgreSQL
type UserRepository struct {
	q querier
}

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.Exec(ctx, query,
		u.ID,
		u.Username,
		u.IDNumber,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Department,
		u.ContactNumber,
		u.Password,
		string(u.Level),
		u.LoginToken,
		u.IsActive,
		u.DateJoined,
		u.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError(err, u, "criar")
	}
	return nil
}

// Update implementa user.Repository.Update
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET username = $1, id_number = $2, email = $3, first_name = $4, last_name = $5,
			department = $6, contact_number = $7, password = $8, level = $9,
			login_token = $10, is_active = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := r.q.Exec(ctx, query,
		u.Username,
		u.IDNumber,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Department,
		u.ContactNumber,
		u.Password,
		string(u.Level),
		u.LoginToken,
		u.IsActive,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return r.mapWriteError(err, u, "atualizar")
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound.WithDetail("user_id", u.ID)
	}
	return nil
}

func (r *UserRepository) mapWriteError(err error, u *user.User, action string) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "uq_users_username":
			return user.ErrDuplicateUsername.WithDetail("username", u.Username)
		case "uq_users_id_number":
			return user.ErrDuplicateIDNumber.WithDetail("id_number", u.IDNumber)
		}
	}
	return fmt.Errorf("falha ao %s usuário: %w", action, err)
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.find(ctx, `id = $1`, id)
}

// FindByUsername implementa user.Repository.FindByUsername
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.find(ctx, `username = $1`, username)
}

// FindByLoginToken implementa user.Repository.FindByLoginToken
func (r *UserRepository) FindByLoginToken(ctx context.Context, token string) (*user.User, error) {
	return r.find(ctx, `login_token = $1`, token)
}

func (r *UserRepository) find(ctx context.Context, where string, arg string) (*user.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	return u, nil
}

// ListByIDs implementa user.Repository.ListByIDs
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY username`, ids)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler usuários: %w", err)
	}
	return users, nil
}

// List implementa user.Repository.List
func (r *UserRepository) List(ctx context.Context, f user.Filter) ([]*user.User, error) {
	where, args := userWhere(f)
	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY username`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler usuários: %w", err)
	}
	return users, nil
}

// Count implementa user.Repository.Count
func (r *UserRepository) Count(ctx context.Context, f user.Filter) (int, error) {
	where, args := userWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("falha ao contar usuários: %w", err)
	}
	return total, nil
}

func userWhere(f user.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(f.CompanyIDs) > 0 {
		args = append(args, f.CompanyIDs)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM company_memberships m WHERE m.user_id = users.id AND m.company_id = ANY($%d))", len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR id_number ILIKE $%d)", n, n, n, n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u     user.User
		level string
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.IDNumber,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Department,
		&u.ContactNumber,
		&u.Password,
		&level,
		&u.LoginToken,
		&u.IsActive,
		&u.DateJoined,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Level = user.Level(level)
	return &u, nil
}
