// Package access calcula o que um usuário pode ver e alterar a partir do
// grafo empresa → filial → vínculo. Todas as funções são puras: recebem os
// dados já carregados e não tocam no armazenamento.
package access

import (
	"sort"

	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

// Scope é o resultado imutável do cálculo de acesso de um usuário
type Scope struct {
	userID       string
	unrestricted bool
	roles        map[string]membership.Role // empresa -> papel
	branches     map[string]string          // filial visível -> empresa
	managed      map[string]struct{}        // filiais gerenciadas como BRANCH_MANAGER
}

// CompanyAccess descreve o papel do usuário em uma empresa
type CompanyAccess struct {
	CompanyID string          `json:"company_id"`
	Role      membership.Role `json:"role"`
}

// Summary é a forma serializável do escopo
type Summary struct {
	UserID       string          `json:"user_id"`
	Unrestricted bool            `json:"unrestricted"`
	Companies    []CompanyAccess `json:"companies"`
	BranchIDs    []string        `json:"branch_ids"`
}

// Compute calcula o escopo do usuário. companyBranches deve conter as
// filiais de cada empresa em que o usuário é OWNER ou SUPERVISOR.
// Usuário desenvolvedor enxerga tudo; usuário inativo não enxerga nada.
func Compute(u *user.User, memberships []*membership.Membership, companyBranches map[string][]string) Scope {
	s := Scope{
		roles:    make(map[string]membership.Role),
		branches: make(map[string]string),
		managed:  make(map[string]struct{}),
	}
	if u == nil {
		return s
	}

	s.userID = u.ID
	if !u.IsActive {
		return s
	}
	if u.IsDeveloper() {
		s.unrestricted = true
	}

	for _, m := range memberships {
		if m == nil || m.UserID != u.ID {
			continue
		}
		s.roles[m.CompanyID] = m.Role

		if m.Role.CompanyWide() {
			for _, branchID := range companyBranches[m.CompanyID] {
				s.branches[branchID] = m.CompanyID
			}
			continue
		}

		if m.BranchID != "" {
			s.branches[m.BranchID] = m.CompanyID
			if m.Role == membership.RoleBranchManager {
				s.managed[m.BranchID] = struct{}{}
			}
		}
	}

	return s
}

// Unrestricted cria o escopo de um processo interno sem restrições
func Unrestricted(userID string) Scope {
	return Scope{
		userID:       userID,
		unrestricted: true,
		roles:        map[string]membership.Role{},
		branches:     map[string]string{},
		managed:      map[string]struct{}{},
	}
}

// UserID retorna o usuário dono do escopo
func (s Scope) UserID() string {
	return s.userID
}

// IsUnrestricted indica privilégio global de desenvolvedor
func (s Scope) IsUnrestricted() bool {
	return s.unrestricted
}

// Role retorna o papel do usuário na empresa
func (s Scope) Role(companyID string) (membership.Role, bool) {
	r, ok := s.roles[companyID]
	return r, ok
}

// CompanyIDs retorna as empresas em que o usuário tem vínculo, ordenadas
func (s Scope) CompanyIDs() []string {
	ids := make([]string, 0, len(s.roles))
	for id := range s.roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OwnedCompanyIDs retorna as empresas em que o usuário é OWNER, ordenadas
func (s Scope) OwnedCompanyIDs() []string {
	var ids []string
	for id, role := range s.roles {
		if role == membership.RoleOwner {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// BranchIDs retorna as filiais visíveis, ordenadas. Para o escopo
// irrestrito a lista não é exaustiva; use BranchFilter.
func (s Scope) BranchIDs() []string {
	ids := make([]string, 0, len(s.branches))
	for id := range s.branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BranchFilter traduz o escopo para filtros de consulta. restricted falso
// significa sem filtro de filial; restricted verdadeiro com ids vazio
// significa que nada é visível.
func (s Scope) BranchFilter() (ids []string, restricted bool) {
	if s.unrestricted {
		return nil, false
	}
	return s.BranchIDs(), true
}

// CanViewCompany indica se a empresa é visível
func (s Scope) CanViewCompany(companyID string) bool {
	if s.unrestricted {
		return true
	}
	_, ok := s.roles[companyID]
	return ok
}

// CanAdministerCompany permite criar filiais e conceder papéis de proprietário
func (s Scope) CanAdministerCompany(companyID string) bool {
	return s.unrestricted || s.roles[companyID] == membership.RoleOwner
}

// CanSuperviseCompany permite agir sobre todas as filiais da empresa
func (s Scope) CanSuperviseCompany(companyID string) bool {
	return s.unrestricted || s.roles[companyID].CompanyWide()
}

// CanAccessBranch permite ver a filial e movimentar seus itens
func (s Scope) CanAccessBranch(companyID, branchID string) bool {
	if s.CanSuperviseCompany(companyID) {
		return true
	}
	owner, ok := s.branches[branchID]
	return ok && owner == companyID
}

// CanManageBranch permite ações administrativas sobre itens da filial
func (s Scope) CanManageBranch(companyID, branchID string) bool {
	if s.CanSuperviseCompany(companyID) {
		return true
	}
	if owner, ok := s.branches[branchID]; !ok || owner != companyID {
		return false
	}
	_, ok := s.managed[branchID]
	return ok
}

// Summary devolve a forma serializável do escopo
func (s Scope) Summary() Summary {
	companies := make([]CompanyAccess, 0, len(s.roles))
	for _, id := range s.CompanyIDs() {
		companies = append(companies, CompanyAccess{CompanyID: id, Role: s.roles[id]})
	}

	return Summary{
		UserID:       s.userID,
		Unrestricted: s.unrestricted,
		Companies:    companies,
		BranchIDs:    s.BranchIDs(),
	}
}
