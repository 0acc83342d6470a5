package model

import "time"

// DefaultRole is assigned on registration when the caller names no roles.
const DefaultRole = "User"

// AdminRole gates every role-management endpoint.
const AdminRole = "Admin"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoleSummary is a role together with its live member count.
type RoleSummary struct {
	ID         string
	Name       string
	TotalUsers int
}

// AuthClaims is the validated view of a bearer token.
type AuthClaims struct {
	UserID    string
	Email     string
	FullName  string
	Roles     []string
	ExpiresAt time.Time
}

func (c *AuthClaims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
