package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-role-auth/internal/config"
	"go-role-auth/internal/repository"
	"go-role-auth/pkg/apierror"
)

var testJWT = config.JWTSetting{
	SecretKey:     "0123456789abcdef0123456789abcdef",
	ValidIssuer:   "rolbazli",
	ValidAudience: "rolbazli-clients",
	ClockSkew:     5 * time.Minute,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newSeededStore returns a memory store that already has the Admin and User roles.
func newSeededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()

	store := repository.NewMemoryStore(repository.PasswordPolicy{MinLength: 5}, bcrypt.MinCost)
	require.NoError(t, Bootstrap(context.Background(), store, BootstrapOptions{Roles: []string{"Admin", "User"}}, discardLogger()))
	return store
}

func requireAPIError(t *testing.T, err error, code string, status int) *apierror.APIError {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
	require.Equal(t, status, apiErr.HTTPStatus)
	return apiErr
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) ObserveAuth(operation string, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, operation+":"+outcome)
}

func (o *recordingObserver) Events() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}
