package dto

import (
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
)

// ProfileRequest reúne os dados cadastrais do usuário
type ProfileRequest struct {
	Username      string `json:"username" binding:"required"`
	IDNumber      string `json:"id_number" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Department    string `json:"department"`
	ContactNumber string `json:"contact_number"`
	Password      string `json:"password" binding:"required"`
}

// Profile converte para o tipo de domínio
func (r ProfileRequest) Profile() user.Profile {
	return user.Profile{
		Username:      r.Username,
		IDNumber:      r.IDNumber,
		Email:         r.Email,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Department:    r.Department,
		ContactNumber: r.ContactNumber,
	}
}

// CreateUserRequest cria um usuário com vínculos (somente desenvolvedores)
type CreateUserRequest struct {
	ProfileRequest
	Level       string              `json:"level"`
	Memberships []MembershipRequest `json:"memberships"`
}

// ToInput converte para a entrada do serviço
func (r CreateUserRequest) ToInput() tenancy.NewUserInput {
	in := tenancy.NewUserInput{
		Profile:  r.Profile(),
		Password: r.Password,
		Level:    user.Level(r.Level),
	}
	for _, m := range r.Memberships {
		in.Memberships = append(in.Memberships, tenancy.MembershipInput{
			CompanyID: m.CompanyID,
			Role:      membership.Role(m.Role),
			BranchID:  m.BranchID,
		})
	}
	return in
}

// CompanyUserRequest cria um usuário comum em uma filial da empresa
type CompanyUserRequest struct {
	ProfileRequest
	BranchID string `json:"branch_id" binding:"required"`
}

// ChangePasswordRequest representa os dados para alteração de senha
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UpdateUserRequest altera um usuário; campos ausentes não mudam
type UpdateUserRequest struct {
	IDNumber      *string `json:"id_number"`
	Email         *string `json:"email" binding:"omitempty,email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Department    *string `json:"department"`
	ContactNumber *string `json:"contact_number"`
	Level         *string `json:"level"`
	IsActive      *bool   `json:"is_active"`
}

// ToInput converte para a entrada do serviço
func (r UpdateUserRequest) ToInput() tenancy.UpdateUserInput {
	in := tenancy.UpdateUserInput{
		Profile: user.ProfileUpdate{
			IDNumber:      r.IDNumber,
			Email:         r.Email,
			FirstName:     r.FirstName,
			LastName:      r.LastName,
			Department:    r.Department,
			ContactNumber: r.ContactNumber,
		},
		IsActive: r.IsActive,
	}
	if r.Level != nil {
		level := user.Level(*r.Level)
		in.Level = &level
	}
	return in
}

// UserResponse representa a resposta com dados de um usuário
type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	IDNumber      string    `json:"id_number"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	FullName      string    `json:"full_name"`
	Department    string    `json:"department"`
	ContactNumber string    `json:"contact_number"`
	Level         string    `json:"level"`
	IsActive      bool      `json:"is_active"`
	DateJoined    time.Time `json:"date_joined"`
}

// LoginTokenResponse traz o conteúdo do QR de login renovado
type LoginTokenResponse struct {
	UserID    string `json:"user_id"`
	QRPayload string `json:"qr_payload"`
}

// UserWithMembershipsResponse é a resposta da criação de usuários com vínculos
type UserWithMembershipsResponse struct {
	User        UserResponse             `json:"user"`
	Memberships []*membership.Membership `json:"memberships"`
}

// ToUserResponse converte um usuário do domínio para DTO de resposta
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		IDNumber:      u.IDNumber,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Department:    u.Department,
		ContactNumber: u.ContactNumber,
		Level:         string(u.Level),
		IsActive:      u.IsActive,
		DateJoined:    u.DateJoined,
	}
}

// ToLoginTokenResponse monta o conteúdo do QR de login
func ToLoginTokenResponse(u *user.User) LoginTokenResponse {
	return LoginTokenResponse{UserID: u.ID, QRPayload: "login_token:" + u.LoginToken}
}

// UserListResponse é a listagem paginada de usuários
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	PageInfo
}

// ToUserListResponse converte a listagem de usuários
func ToUserListResponse(users []*user.User, total int, p PaginationParams) UserListResponse {
	out := UserListResponse{
		Users:    make([]UserResponse, len(users)),
		PageInfo: NewPageInfo(total, p),
	}
	for i, u := range users {
		out.Users[i] = ToUserResponse(u)
	}
	return out
}
