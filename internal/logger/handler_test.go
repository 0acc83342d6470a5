package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestPrettyHandlerWritesAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "info", "pretty").With("component", "auth").WithGroup("req")

	log.Debug("hidden")
	log.Info("login", "email", "a@b.com")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "login")
	require.Contains(t, out, "component")
	require.Contains(t, out, "req.email")
	require.Contains(t, out, "a@b.com")
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "debug", "json").Debug("role created", "name", "Admin")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "role created", record["msg"])
	require.Equal(t, "Admin", record["name"])
}
