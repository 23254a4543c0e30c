// Package models defines the client-side entities of the SkyTrack
// monitoring product: the authenticated principal and the route table.
package models

import "time"

// Role is the access level carried by an authenticated principal.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User represents an authenticated principal. It is owned by the session
// layer; consumers receive it by read-only reference for display purposes.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Role      Role       `json:"role"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Picture   string     `json:"picture,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsAdmin reports whether the user may enter admin-only routes.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
