package service

import (
	"context"

	"go-role-auth/internal/model"
)

// IdentityStore is the persistence capability the account and role services
// need. Implementations hash passwords and enforce the password policy and
// the case-insensitive uniqueness of emails and role names.
type IdentityStore interface {
	CreateUser(ctx context.Context, user model.User, password string) (model.User, error)
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	FindUserByID(ctx context.Context, id string) (model.User, error)
	CheckPassword(ctx context.Context, user model.User, password string) (bool, error)
	GetRolesForUser(ctx context.Context, userID string) ([]string, error)
	AddUserToRole(ctx context.Context, userID string, roleName string) error

	CreateRole(ctx context.Context, name string) (model.Role, error)
	RoleExists(ctx context.Context, name string) (bool, error)
	DeleteRole(ctx context.Context, id string) error
	FindRoleByID(ctx context.Context, id string) (model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	CountUsersInRole(ctx context.Context, roleName string) (int, error)
}

// AuthObserver receives the outcome of every register and login attempt.
type AuthObserver interface {
	ObserveAuth(operation string, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveAuth(string, string) {}
