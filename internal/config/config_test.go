package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Load())

	require.Equal(t, ":8090", ListenAddr())
	require.Equal(t, "http://localhost:5000/api", BackendURL())
	require.Equal(t, 15*time.Second, BackendTimeout())
	require.Equal(t, 2, BackendRetries())
	require.Equal(t, 30*time.Second, PollInterval())
	require.Equal(t, time.Minute, AdminPollInterval())
	require.False(t, DemoMode())
	require.Equal(t, "exports", ExportDir())
	require.Empty(t, SessionFile())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.aquasafi.example/api")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("DEMO_MODE", "true")

	require.NoError(t, Load())
	require.Equal(t, "https://api.aquasafi.example/api", BackendURL())
	require.Equal(t, 10*time.Second, PollInterval())
	require.True(t, DemoMode())
}
