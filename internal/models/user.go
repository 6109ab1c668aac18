package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is what an operator account may do in the studio.
type Role string

const (
	// RoleAdmin sees and edits every invitation and manages accounts.
	RoleAdmin Role = "admin"
	// RoleOperator manages only the invitations it created.
	RoleOperator Role = "operator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleOperator }

// CanManage reports whether an account with role r and id caller may edit
// something owned by owner.
func (r Role) CanManage(caller, owner uuid.UUID) bool {
	return r == RoleAdmin || caller == owner
}

// User is an operator account that owns invitations. Guests never have one.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the part of an account shown in API responses.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile drops the credentials from u.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
