package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-role-auth/internal/model"
)

func newTestMemoryStore() *MemoryStore {
	return NewMemoryStore(PasswordPolicy{MinLength: 5}, bcrypt.MinCost)
}

func TestMemoryStoreUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestMemoryStore()

	created, err := store.CreateUser(ctx, model.User{Email: " A@B.com ", FullName: "A B"}, "Pwd1!")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "A@B.com", created.Email)
	require.NotEqual(t, "Pwd1!", created.PasswordHash)

	t.Run("lookup by email ignores case", func(t *testing.T) {
		found, err := store.FindUserByEmail(ctx, "a@b.COM")
		require.NoError(t, err)
		require.Equal(t, created.ID, found.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := store.CreateUser(ctx, model.User{Email: "a@b.com"}, "Pwd1!")
		require.ErrorIs(t, err, model.ErrDuplicateEmail)
	})

	t.Run("weak password is rejected before anything is stored", func(t *testing.T) {
		_, err := store.CreateUser(ctx, model.User{Email: "weak@b.com"}, "weak")
		var policyErr *PolicyError
		require.ErrorAs(t, err, &policyErr)
		_, err = store.FindUserByEmail(ctx, "weak@b.com")
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("password check", func(t *testing.T) {
		ok, err := store.CheckPassword(ctx, created, "Pwd1!")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.CheckPassword(ctx, created, "nope")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.FindUserByID(ctx, "missing")
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestMemoryStoreRolesAndMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestMemoryStore()

	admin, err := store.CreateRole(ctx, "Admin")
	require.NoError(t, err)
	_, err = store.CreateRole(ctx, "User")
	require.NoError(t, err)

	_, err = store.CreateRole(ctx, "admin")
	require.ErrorIs(t, err, model.ErrDuplicateRoleName)

	exists, err := store.RoleExists(ctx, "ADMIN")
	require.NoError(t, err)
	require.True(t, exists)

	user, err := store.CreateUser(ctx, model.User{Email: "u@x.io", FullName: "U"}, "Pwd1!")
	require.NoError(t, err)

	require.NoError(t, store.AddUserToRole(ctx, user.ID, "User"))
	require.NoError(t, store.AddUserToRole(ctx, user.ID, "Admin"))
	require.NoError(t, store.AddUserToRole(ctx, user.ID, "Admin"))

	roles, err := store.GetRolesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Admin", "User"}, roles)

	count, err := store.CountUsersInRole(ctx, "Admin")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.ErrorIs(t, store.AddUserToRole(ctx, user.ID, "Ghost"), model.ErrRoleNotFound)
	require.ErrorIs(t, store.AddUserToRole(ctx, "missing", "User"), model.ErrUserNotFound)

	listed, err := store.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "Admin", listed[0].Name)

	require.NoError(t, store.DeleteRole(ctx, admin.ID))
	require.ErrorIs(t, store.DeleteRole(ctx, admin.ID), model.ErrRoleNotFound)
	_, err = store.FindRoleByID(ctx, admin.ID)
	require.ErrorIs(t, err, model.ErrRoleNotFound)

	roles, err = store.GetRolesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"User"}, roles)
}

func TestMemoryStoreConcurrentRegistrationKeepsEmailUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestMemoryStore()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreateUser(ctx, model.User{Email: "race@x.io"}, "Pwd1!")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, model.ErrDuplicateEmail)
	}
	require.Equal(t, 1, succeeded)
}
