package dto

import (
	"time"

	"github.com/helpdesk-br/chamado-service/internal/domain"
)

// RegisterRequest payload for new accounts. Constraints mirror the public
// API contract.
type RegisterRequest struct {
	Name       string `json:"nome" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"senha" validate:"required,min=6,max=100"`
	Department string `json:"departamento" validate:"required,min=2,max=50"`
	Role       string `json:"cargo" validate:"required,min=2,max=50"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// ChangePasswordRequest payload for password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"senhaAtual" validate:"required"`
	NewPassword     string `json:"novaSenha" validate:"required,min=6,max=100"`
}

// UpdateProfileRequest lets users edit their own name and department.
type UpdateProfileRequest struct {
	Name       *string `json:"nome" validate:"omitempty,min=2,max=100"`
	Department *string `json:"departamento" validate:"omitempty,min=2,max=50"`
}

// UpdateUserRequest is the admin patch for any user.
type UpdateUserRequest struct {
	Name       *string `json:"nome" validate:"omitempty,min=2,max=100"`
	Department *string `json:"departamento" validate:"omitempty,min=2,max=50"`
	Role       *string `json:"cargo" validate:"omitempty,min=2,max=50"`
	Active     *bool   `json:"ativo"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User      UserResponse `json:"usuario"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiraEm"`
}

// UserResponse is the serializable user view (no password hash).
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"nome"`
	Email      string    `json:"email"`
	Department string    `json:"departamento"`
	Role       string    `json:"cargo"`
	Active     bool      `json:"ativo"`
	CreatedAt  time.Time `json:"criadoEm"`
	UpdatedAt  time.Time `json:"atualizadoEm"`
}

// NewUserResponse projects a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
		Role:       user.Role,
		Active:     user.Active,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// UserPageResponse is a paginated user listing.
type UserPageResponse struct {
	Items      []UserResponse `json:"dados"`
	Total      int64          `json:"total"`
	Page       int            `json:"pagina"`
	TotalPages int            `json:"totalPaginas"`
}
