package config

import (
	"time"

	"github.com/spf13/viper"
)

func Load() error {
	// Console HTTP server
	viper.SetDefault("LISTEN_ADDR", ":8090")

	// AquaSafi backend
	viper.SetDefault("BACKEND_URL", "http://localhost:5000/api")
	viper.SetDefault("BACKEND_TIMEOUT", "15s")
	viper.SetDefault("BACKEND_RETRIES", 2)

	// Polling cadence per dashboard
	viper.SetDefault("POLL_INTERVAL", "30s")
	viper.SetDefault("ADMIN_POLL_INTERVAL", "60s")

	// DEMO_MODE swaps the real backend for the in-process fixture source.
	// It is never enabled implicitly on network failure.
	viper.SetDefault("DEMO_MODE", "false")

	viper.SetDefault("EXPORT_DIR", "exports")
	viper.SetDefault("SESSION_FILE", "")

	viper.AutomaticEnv()
	return nil
}

func ListenAddr() string { return viper.GetString("LISTEN_ADDR") }
func BackendURL() string { return viper.GetString("BACKEND_URL") }
func BackendTimeout() time.Duration {
	return viper.GetDuration("BACKEND_TIMEOUT")
}
func BackendRetries() int { return viper.GetInt("BACKEND_RETRIES") }
func PollInterval() time.Duration {
	return viper.GetDuration("POLL_INTERVAL")
}
func AdminPollInterval() time.Duration {
	return viper.GetDuration("ADMIN_POLL_INTERVAL")
}
func DemoMode() bool      { return viper.GetBool("DEMO_MODE") }
func ExportDir() string   { return viper.GetString("EXPORT_DIR") }
func SessionFile() string { return viper.GetString("SESSION_FILE") }
