package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
)

// User is a register or back-office account. The engine never authenticates;
// it only attributes actions to the actor resolved by the auth layer.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email,omitempty"`
	PasswordHash string        `json:"password_hash,omitempty"`
	Name         string        `json:"name"`
	Role         enum.UserRole `json:"role"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Actor is the authenticated identity attached to every mutating operation.
type Actor struct {
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Role     enum.UserRole `json:"role"`
}

// Actor returns the audit identity for the user.
func (u *User) Actor() Actor {
	return Actor{Username: u.Username, Name: u.Name, Role: u.Role}
}
