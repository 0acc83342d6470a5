package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-role-auth/internal/model"
)

// BootstrapOptions describes the roles and the optional administrator that
// must exist before the server accepts traffic.
type BootstrapOptions struct {
	Roles         []string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

// Bootstrap is safe to run on every start.
func Bootstrap(ctx context.Context, store IdentityStore, opts BootstrapOptions, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, name := range opts.Roles {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		exists, err := store.RoleExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check seed role %q: %w", name, err)
		}
		if exists {
			continue
		}

		if _, err := store.CreateRole(ctx, name); err != nil && !errors.Is(err, model.ErrDuplicateRoleName) {
			return fmt.Errorf("create seed role %q: %w", name, err)
		}
		logger.Info("seed role created", "role", name)
	}

	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil
	}

	_, err := store.FindUserByEmail(ctx, opts.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return fmt.Errorf("find admin user: %w", err)
	}

	admin, err := store.CreateUser(ctx, model.User{Email: opts.AdminEmail, FullName: opts.AdminFullName}, opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	if err := store.AddUserToRole(ctx, admin.ID, model.AdminRole); err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}

	logger.Info("admin user created", "user_id", admin.ID, "email", admin.Email)

	return nil
}
