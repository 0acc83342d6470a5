package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-role-auth/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	userRolesRoleFK = "user_roles_role_id_fkey"
)

// IdentityStore persists users, roles and role membership in Postgres.
// Uniqueness of email and role name is enforced by the schema.
type IdentityStore struct {
	pool   *pgxpool.Pool
	policy PasswordPolicy
	hasher passwordHasher
}

func NewIdentityStore(pool *pgxpool.Pool, policy PasswordPolicy, bcryptCost int) *IdentityStore {
	return &IdentityStore{pool: pool, policy: policy, hasher: passwordHasher{cost: bcryptCost}}
}

func (s *IdentityStore) CreateUser(ctx context.Context, user model.User, password string) (model.User, error) {
	if policyErr := s.policy.Check(password); policyErr != nil {
		return model.User{}, policyErr
	}

	hash, err := s.hasher.hash(password)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Email = strings.TrimSpace(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, email, normalized_email, full_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, normalize(user.Email), user.FullName, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return model.User{}, fmt.Errorf("create user %q: %w", user.Email, model.ErrDuplicateEmail)
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *IdentityStore) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, created_at, updated_at
		 FROM users WHERE normalized_email = $1`, normalize(email)))
}

func (s *IdentityStore) FindUserByID(ctx context.Context, id string) (model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, strings.TrimSpace(id)))
}

func (s *IdentityStore) scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *IdentityStore) CheckPassword(_ context.Context, user model.User, password string) (bool, error) {
	return s.hasher.compare(user.PasswordHash, password)
}

func (s *IdentityStore) GetRolesForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.name
		 FROM user_roles ur JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = $1
		 ORDER BY r.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("get roles for user: %w", err)
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role name: %w", err)
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// AddUserToRole is idempotent: an existing membership is left untouched.
func (s *IdentityStore) AddUserToRole(ctx context.Context, userID string, roleName string) error {
	var roleID string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE normalized_name = $1`, normalize(roleName)).Scan(&roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("add user to role %q: %w", roleName, model.ErrRoleNotFound)
	}
	if err != nil {
		return fmt.Errorf("find role by name: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, role_id) DO NOTHING`,
		userID, roleID, time.Now().UTC())
	if err != nil {
		return membershipError(err, roleName)
	}
	return nil
}

func (s *IdentityStore) CreateRole(ctx context.Context, name string) (model.Role, error) {
	role := model.Role{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO roles (id, name, normalized_name, created_at) VALUES ($1, $2, $3, $4)`,
		role.ID, role.Name, normalize(role.Name), role.CreatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return model.Role{}, fmt.Errorf("create role %q: %w", role.Name, model.ErrDuplicateRoleName)
		}
		return model.Role{}, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *IdentityStore) RoleExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM roles WHERE normalized_name = $1)`, normalize(name)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role exists: %w", err)
	}
	return exists, nil
}

// DeleteRole removes the role; memberships go with it via ON DELETE CASCADE.
func (s *IdentityStore) DeleteRole(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoleNotFound
	}
	return nil
}

func (s *IdentityStore) FindRoleByID(ctx context.Context, id string) (model.Role, error) {
	var r model.Role
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM roles WHERE id = $1`, strings.TrimSpace(id)).
		Scan(&r.ID, &r.Name, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role by id: %w", err)
	}
	return r, nil
}

func (s *IdentityStore) ListRoles(ctx context.Context) ([]model.Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var r model.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *IdentityStore) CountUsersInRole(ctx context.Context, roleName string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM user_roles ur JOIN roles r ON r.id = ur.role_id
		 WHERE r.normalized_name = $1`, normalize(roleName)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users in role: %w", err)
	}
	return count, nil
}

func (s *IdentityStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// membershipError maps a failed user_roles insert to the side whose row is
// gone. The role can vanish between the name lookup and the insert.
func membershipError(err error, roleName string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return fmt.Errorf("add user to role: %w", err)
	}
	if pgErr.ConstraintName == userRolesRoleFK {
		return fmt.Errorf("add user to role %q: %w", roleName, model.ErrRoleNotFound)
	}
	return fmt.Errorf("add user to role %q: %w", roleName, model.ErrUserNotFound)
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
