package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithMemoryStore(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_VALID_ISSUER", "rolbazli")
	t.Setenv("JWT_VALID_AUDIENCE", "rolbazli-clients")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "Adm1n!")

	application, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(application.cleanup)

	handler := application.server.Handler

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/account/login", strings.NewReader(`{"email":"admin@example.com","password":"Adm1n!"}`))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"token"`)
}

func TestNewFailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_VALID_ISSUER", "rolbazli")
	t.Setenv("JWT_VALID_AUDIENCE", "rolbazli-clients")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := New(context.Background())
	require.ErrorContains(t, err, "JWT_SECRET_KEY is required")
}
