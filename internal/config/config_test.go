package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SEC", "")

	cfg := Load()
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SEC", "3")

	cfg := Load()
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadIgnoresBadTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SEC", "soon")

	cfg := Load()
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
