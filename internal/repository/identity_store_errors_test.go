package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"go-role-auth/internal/model"
)

func TestMembershipError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"role row gone", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: userRolesRoleFK}, model.ErrRoleNotFound},
		{"user row gone", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "user_roles_user_id_fkey"}, model.ErrUserNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, membershipError(tc.err, "Admin"), tc.want)
		})
	}

	t.Run("other failures pass through", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection reset")
		err := membershipError(cause, "Admin")
		require.ErrorIs(t, err, cause)
		require.NotErrorIs(t, err, model.ErrUserNotFound)
		require.NotErrorIs(t, err, model.ErrRoleNotFound)
	})
}
