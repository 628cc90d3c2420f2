package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

var (
	ErrInvalidRole         = apperror.Validation("INVALID_ROLE", "papel inválido")
	ErrEmptyUserID         = apperror.Validation("MEMBERSHIP_USER_REQUIRED", "ID do usuário não pode ser vazio")
	ErrEmptyCompanyID      = apperror.Validation("MEMBERSHIP_COMPANY_REQUIRED", "ID da empresa não pode ser vazio")
	ErrBranchRequired      = apperror.Validation("BRANCH_REQUIRED", "gerentes de filial e usuários precisam de uma filial")
	ErrBranchNotAllowed    = apperror.Validation("BRANCH_NOT_ALLOWED", "proprietários e supervisores não podem ter filial")
	ErrBranchMismatch      = apperror.Conflict("BRANCH_MISMATCH", "a filial não pertence à empresa do vínculo")
	ErrDuplicateMembership = apperror.Conflict("DUPLICATE_MEMBERSHIP", "usuário já possui vínculo com esta empresa")
	ErrDuplicateManager    = apperror.Conflict("DUPLICATE_BRANCH_MANAGER", "filial já possui gerente")
	ErrMembershipNotFound  = apperror.NotFound("MEMBERSHIP_NOT_FOUND", "vínculo não encontrado")
	ErrLastOwner           = apperror.Conflict("LAST_OWNER", "a empresa precisa manter ao menos um proprietário")
)

// Role representa o papel do usuário dentro de uma empresa
type Role string

const (
	RoleOwner         Role = "OWNER"
	RoleSupervisor    Role = "SUPERVISOR"
	RoleBranchManager Role = "BRANCH_MANAGER"
	RoleUser          Role = "USER"
)

// Valid verifica se o papel é conhecido
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleSupervisor, RoleBranchManager, RoleUser:
		return true
	}
	return false
}

// RequiresBranch indica se o papel é restrito a uma filial
func (r Role) RequiresBranch() bool {
	return r == RoleBranchManager || r == RoleUser
}

// CompanyWide indica se o papel alcança todas as filiais da empresa
func (r Role) CompanyWide() bool {
	return r == RoleOwner || r == RoleSupervisor
}

// Membership liga um usuário a uma empresa com um papel e, opcionalmente, uma filial
type Membership struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CompanyID string    `json:"company_id"`
	Role      Role      `json:"role"`
	BranchID  string    `json:"branch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMembership cria um novo vínculo validando a combinação papel/filial
func NewMembership(userID, companyID string, role Role, branchID string) (*Membership, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if companyID == "" {
		return nil, ErrEmptyCompanyID
	}
	if err := validateRoleBranch(role, branchID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Membership{
		ID:        uuid.New().String(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		BranchID:  branchID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeRole altera papel e filial mantendo as invariantes do vínculo
func (m *Membership) ChangeRole(role Role, branchID string) error {
	if err := validateRoleBranch(role, branchID); err != nil {
		return err
	}

	m.Role = role
	m.BranchID = branchID
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Demote rebaixa um gerente de filial a usuário comum na mesma filial
func (m *Membership) Demote() {
	m.Role = RoleUser
	m.UpdatedAt = time.Now().UTC()
}

func validateRoleBranch(role Role, branchID string) error {
	if !role.Valid() {
		return ErrInvalidRole.WithDetail("role", string(role))
	}
	if role.RequiresBranch() && branchID == "" {
		return ErrBranchRequired.WithDetail("role", string(role))
	}
	if role.CompanyWide() && branchID != "" {
		return ErrBranchNotAllowed.WithDetail("branch_id", branchID)
	}
	return nil
}
