package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-role-auth/internal/model"
	"go-role-auth/pkg/apierror"
)

const (
	msgRoleNameEmpty   = "Rol boş bırakılamaz"
	msgRoleExists      = "Rol zaten mevcut"
	msgRoleCreated     = "Rol başarıyla oluşturuldu"
	msgRoleCreateError = "Rol oluşturulurken hata oluştu"
	msgRoleNotFound    = "Role not found"
	msgRoleDeleted     = "Role deleted successfully."
	msgRoleDeleteError = "Role deletion failed!.."
	msgUserNotFound    = "User not found"
	msgRoleAssigned    = "Role assigned successfully."
	msgRoleAssignError = "role assignment failed"
)

type RoleService struct {
	store  IdentityStore
	logger *slog.Logger
}

func NewRoleService(store IdentityStore, logger *slog.Logger) *RoleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleService{store: store, logger: logger}
}

// CreateRole returns the confirmation message clients expect as the body.
func (s *RoleService) CreateRole(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierror.Validation(msgRoleNameEmpty)
	}

	exists, err := s.store.RoleExists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("check role: %w", err)
	}
	if exists {
		return "", apierror.Conflict(msgRoleExists)
	}

	role, err := s.store.CreateRole(ctx, name)
	if errors.Is(err, model.ErrDuplicateRoleName) {
		return "", apierror.Conflict(msgRoleExists)
	}
	if err != nil {
		return "", apierror.Store(msgRoleCreateError, err.Error())
	}

	s.logger.Info("role created", "role_id", role.ID, "role", role.Name)

	return msgRoleCreated, nil
}

// ListRoles counts members once per role.
func (s *RoleService) ListRoles(ctx context.Context) ([]model.RoleSummary, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	summaries := make([]model.RoleSummary, 0, len(roles))
	for _, role := range roles {
		count, err := s.store.CountUsersInRole(ctx, role.Name)
		if err != nil {
			return nil, fmt.Errorf("count users in role %q: %w", role.Name, err)
		}
		summaries = append(summaries, model.RoleSummary{
			ID:         role.ID,
			Name:       role.Name,
			TotalUsers: count,
		})
	}

	return summaries, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, id string) (model.MessageResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.MessageResponse{}, apierror.NotFound(msgRoleNotFound)
	}

	err := s.store.DeleteRole(ctx, id)
	if errors.Is(err, model.ErrRoleNotFound) {
		return model.MessageResponse{}, apierror.NotFound(msgRoleNotFound)
	}
	if err != nil {
		return model.MessageResponse{}, apierror.Store(msgRoleDeleteError, err.Error())
	}

	s.logger.Info("role deleted", "role_id", id)

	return model.MessageResponse{Message: msgRoleDeleted}, nil
}

// AssignRole is idempotent: assigning a role the user already holds succeeds
// without adding a second membership.
func (s *RoleService) AssignRole(ctx context.Context, req model.AssignRoleRequest) (model.MessageResponse, error) {
	user, err := s.store.FindUserByID(ctx, strings.TrimSpace(req.UserID))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.MessageResponse{}, apierror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("find user: %w", err)
	}

	role, err := s.store.FindRoleByID(ctx, strings.TrimSpace(req.RoleID))
	if errors.Is(err, model.ErrRoleNotFound) {
		return model.MessageResponse{}, apierror.NotFound(msgRoleNotFound)
	}
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("find role: %w", err)
	}

	err = s.store.AddUserToRole(ctx, user.ID, role.Name)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return model.MessageResponse{}, apierror.NotFound(msgUserNotFound)
	case errors.Is(err, model.ErrRoleNotFound):
		return model.MessageResponse{}, apierror.NotFound(msgRoleNotFound)
	case err != nil:
		return model.MessageResponse{}, apierror.Store(msgRoleAssignError, err.Error())
	}

	s.logger.Info("role assigned", "user_id", user.ID, "role", role.Name)

	return model.MessageResponse{Message: msgRoleAssigned}, nil
}
