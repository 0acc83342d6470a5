package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-role-auth/internal/model"
	"go-role-auth/internal/repository"
	"go-role-auth/internal/service"
	"go-role-auth/pkg/apierror"
)

func TestWriteErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		details int
	}{
		{"api error", apierror.Forbidden("nope"), http.StatusForbidden, apierror.CodeForbidden, 0},
		{"store error keeps details", apierror.Store("failed", "a", "b"), http.StatusBadRequest, apierror.CodeStore, 2},
		{"policy error", &repository.PolicyError{Descriptions: []string{"x"}}, http.StatusBadRequest, apierror.CodeStore, 1},
		{"wrapped user not found", fmt.Errorf("find: %w", model.ErrUserNotFound), http.StatusNotFound, apierror.CodeNotFound, 0},
		{"role not found", model.ErrRoleNotFound, http.StatusNotFound, apierror.CodeNotFound, 0},
		{"duplicate email", model.ErrDuplicateEmail, http.StatusBadRequest, apierror.CodeConflict, 0},
		{"duplicate role", model.ErrDuplicateRoleName, http.StatusBadRequest, apierror.CodeConflict, 0},
		{"invalid token", model.ErrInvalidToken, http.StatusUnauthorized, apierror.CodeUnauthorized, 0},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "INTERNAL_ERROR", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

			require.Equal(t, tc.status, rec.Code)
			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.False(t, body.IsSuccess)
			require.Equal(t, tc.code, body.Code)
			require.Len(t, body.Errors, tc.details)
		})
	}
}

func TestErrorsFieldOmittedWhenEmpty(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apierror.NotFound("Role not found"))

	require.JSONEq(t, `{"isSuccess":false,"code":"NOT_FOUND","message":"Role not found"}`, rec.Body.String())
}

func newRoleHandler(t *testing.T) (*RoleHandler, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore(repository.PasswordPolicy{MinLength: 5}, bcrypt.MinCost)
	logger := slog.New(slog.DiscardHandler)
	require.NoError(t, service.Bootstrap(context.Background(), store, service.BootstrapOptions{Roles: []string{"Admin", "User"}}, logger))
	return NewRoleHandler(service.NewRoleService(store, logger)), store
}

func TestRoleHandlerCreateRole(t *testing.T) {
	t.Parallel()

	h, _ := newRoleHandler(t)

	t.Run("success body is a json string", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateRole(rec, httptest.NewRequest(http.MethodPost, "/api/roles/create-role", strings.NewReader(`{"roleName":"Editor"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `"Rol başarıyla oluşturuldu"`, rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateRole(rec, httptest.NewRequest(http.MethodPost, "/api/roles/create-role", strings.NewReader(`{`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), apierror.CodeValidation)
	})
}

func TestRoleHandlerListRoles(t *testing.T) {
	t.Parallel()

	h, _ := newRoleHandler(t)

	rec := httptest.NewRecorder()
	h.ListRoles(rec, httptest.NewRequest(http.MethodGet, "/api/roles/get-roles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var roles []model.RoleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	require.Len(t, roles, 2)
	require.Equal(t, "Admin", roles[0].Name)
	require.NotEmpty(t, roles[0].ID)
	require.Equal(t, 0, roles[0].TotalUsers)
}

func TestRoleHandlerDeleteRoleReadsURLParam(t *testing.T) {
	t.Parallel()

	h, store := newRoleHandler(t)
	roles, err := store.ListRoles(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Delete("/api/roles/{id}", h.DeleteRole)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/roles/"+roles[0].ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Role deleted successfully."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/roles/"+roles[0].ID, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewHealthHandler(failingPinger{}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(failingPinger{err: errors.New("down")}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
