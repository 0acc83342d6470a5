package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-role-auth/internal/model"
)

// MemoryStore is an in-process identity store with the same semantics as
// IdentityStore. Uniqueness is enforced under the write lock.
type MemoryStore struct {
	policy PasswordPolicy
	hasher passwordHasher

	mu            sync.RWMutex
	usersByID     map[string]model.User
	userIDByEmail map[string]string
	rolesByID     map[string]model.Role
	roleIDByName  map[string]string
	members       map[string]map[string]struct{} // roleID -> set of userIDs
}

func NewMemoryStore(policy PasswordPolicy, bcryptCost int) *MemoryStore {
	return &MemoryStore{
		policy:        policy,
		hasher:        passwordHasher{cost: bcryptCost},
		usersByID:     map[string]model.User{},
		userIDByEmail: map[string]string{},
		rolesByID:     map[string]model.Role{},
		roleIDByName:  map[string]string{},
		members:       map[string]map[string]struct{}{},
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user model.User, password string) (model.User, error) {
	if policyErr := s.policy.Check(password); policyErr != nil {
		return model.User{}, policyErr
	}

	hash, err := s.hasher.hash(password)
	if err != nil {
		return model.User{}, err
	}

	key := normalize(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userIDByEmail[key]; exists {
		return model.User{}, fmt.Errorf("create user %q: %w", strings.TrimSpace(user.Email), model.ErrDuplicateEmail)
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Email = strings.TrimSpace(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	s.usersByID[user.ID] = user
	s.userIDByEmail[key] = user.ID

	return user, nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.userIDByEmail[normalize(email)]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return s.usersByID[id], nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByID[strings.TrimSpace(id)]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *MemoryStore) CheckPassword(_ context.Context, user model.User, password string) (bool, error) {
	return s.hasher.compare(user.PasswordHash, password)
}

func (s *MemoryStore) GetRolesForUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]string, 0)
	for roleID, users := range s.members {
		if _, ok := users[userID]; ok {
			roles = append(roles, s.rolesByID[roleID].Name)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

func (s *MemoryStore) AddUserToRole(_ context.Context, userID string, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roleID, exists := s.roleIDByName[normalize(roleName)]
	if !exists {
		return fmt.Errorf("add user to role %q: %w", roleName, model.ErrRoleNotFound)
	}
	if _, exists := s.usersByID[userID]; !exists {
		return fmt.Errorf("add user to role %q: %w", roleName, model.ErrUserNotFound)
	}

	if s.members[roleID] == nil {
		s.members[roleID] = map[string]struct{}{}
	}
	s.members[roleID][userID] = struct{}{}
	return nil
}

func (s *MemoryStore) CreateRole(_ context.Context, name string) (model.Role, error) {
	role := model.Role{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	key := normalize(role.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roleIDByName[key]; exists {
		return model.Role{}, fmt.Errorf("create role %q: %w", role.Name, model.ErrDuplicateRoleName)
	}

	s.rolesByID[role.ID] = role
	s.roleIDByName[key] = role.ID
	s.members[role.ID] = map[string]struct{}{}
	return role, nil
}

func (s *MemoryStore) RoleExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.roleIDByName[normalize(name)]
	return exists, nil
}

func (s *MemoryStore) DeleteRole(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, exists := s.rolesByID[strings.TrimSpace(id)]
	if !exists {
		return model.ErrRoleNotFound
	}

	delete(s.rolesByID, role.ID)
	delete(s.roleIDByName, normalize(role.Name))
	delete(s.members, role.ID)
	return nil
}

func (s *MemoryStore) FindRoleByID(_ context.Context, id string) (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, exists := s.rolesByID[strings.TrimSpace(id)]
	if !exists {
		return model.Role{}, model.ErrRoleNotFound
	}
	return role, nil
}

func (s *MemoryStore) ListRoles(_ context.Context) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]model.Role, 0, len(s.rolesByID))
	for _, role := range s.rolesByID {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (s *MemoryStore) CountUsersInRole(_ context.Context, roleName string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roleID, exists := s.roleIDByName[normalize(roleName)]
	if !exists {
		return 0, nil
	}
	return len(s.members[roleID]), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
