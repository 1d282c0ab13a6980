package domain

import "time"

// User is the domain model for helpdesk users. Role (cargo) is free text;
// administrative privilege is derived from it, see auth.IsAdminLike.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"departamento"`
	Role         string    `json:"cargo"`
	Active       bool      `json:"ativo"`
	CreatedAt    time.Time `json:"criadoEm"`
	UpdatedAt    time.Time `json:"atualizadoEm"`
}

// UserSummary is the joined identity embedded in ticket and comment responses.
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Department string `json:"departamento,omitempty"`
}

// Summary projects a user into its embeddable form.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
}
