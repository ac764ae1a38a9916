package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
	"github.com/stretchr/testify/require"
)

// isolate points DefaultPath at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	require.Equal(t, pamsdk.EnvLocal, cfg.Env)
	require.Equal(t, pamsdk.DefaultTimeout, cfg.Timeout)
	require.Equal(t, uint64(2), cfg.Retry.Attempts)
	require.Equal(t, 200*time.Millisecond, cfg.Retry.Backoff)
	require.Zero(t, cfg.RateLimit.RPS)
	require.Equal(t, "text", cfg.Log.Format)

	env, err := cfg.Environment()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", env.BaseURL)

	_, ok := cfg.SessionToken()
	require.False(t, ok)
}

func TestLoad_Priority(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
env: staging
timeout: 3s
profiles:
  staging: https://pam.staging.example.com/
retry:
  attempts: 5
log:
  format: json
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := NewLoader(WithConfigFile(path)).Load()
		require.NoError(t, err)

		require.Equal(t, "staging", cfg.Env)
		require.Equal(t, 3*time.Second, cfg.Timeout)
		require.Equal(t, uint64(5), cfg.Retry.Attempts)
		require.Equal(t, 200*time.Millisecond, cfg.Retry.Backoff)
		require.Equal(t, "http://localhost:8080", cfg.Profiles[pamsdk.EnvLocal])

		env, err := cfg.Environment()
		require.NoError(t, err)
		require.Equal(t, "https://pam.staging.example.com", env.BaseURL)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("PAMCTL_TIMEOUT", "7s")
		t.Setenv("PAMCTL_RETRY_ATTEMPTS", "0")
		t.Setenv("PAMCTL_SESSION_ID", "b821c5d7e9f14a3c8e2d6b0f7a9c042e")
		t.Setenv("PAMCTL_SESSION_PLAYER", "player-123456")

		cfg, err := NewLoader(WithConfigFile(path)).Load()
		require.NoError(t, err)

		require.Equal(t, 7*time.Second, cfg.Timeout)
		require.Zero(t, cfg.Retry.Attempts)

		tok, ok := cfg.SessionToken()
		require.True(t, ok)
		require.Equal(t, pamsdk.NewSessionToken("b821c5d7e9f14a3c8e2d6b0f7a9c042e", "player-123456"), tok)
	})

	t.Run("overrides over env", func(t *testing.T) {
		t.Setenv("PAMCTL_ENV", "production")

		cfg, err := NewLoader(
			WithConfigFile(path),
			WithOverrides(map[string]any{"env": "local", "baseurl": "http://127.0.0.1:9000"}),
		).Load()
		require.NoError(t, err)

		env, err := cfg.Environment()
		require.NoError(t, err)
		require.Equal(t, pamsdk.Environment{Name: "local", BaseURL: "http://127.0.0.1:9000"}, env)
	})
}

func TestLoad_DefaultPathIsOptional(t *testing.T) {
	dir := isolate(t)
	require.Equal(t, filepath.Join(dir, "pamctl", "config.yaml"), DefaultPath())

	_, err := NewLoader().Load()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pamctl"), 0o700))
	writeConfig(t, filepath.Join(dir, "pamctl"), "env: staging\nprofiles:\n  staging: https://pam.example.com\n")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)

	_, err := NewLoader(WithConfigFile("/nonexistent/pamctl.yaml")).Load()
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)

	tests := []struct {
		name      string
		overrides map[string]any
		want      string
	}{
		{"zero timeout", map[string]any{"timeout": "0s"}, "timeout must be positive"},
		{"negative rps", map[string]any{"ratelimit.rps": -1}, "ratelimit.rps"},
		{"burst without tokens", map[string]any{"ratelimit.rps": 2, "ratelimit.burst": 0}, "ratelimit.burst"},
		{"bad log format", map[string]any{"log.format": "xml"}, "log.format"},
		{"half a session", map[string]any{"session.id": "abc"}, "session.id and session.player"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(WithOverrides(tt.overrides)).Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_UnknownEnvironment(t *testing.T) {
	t.Parallel()

	cfg := &Config{Env: "staging", Profiles: map[string]string{}}
	_, err := cfg.Environment()
	require.ErrorIs(t, err, ErrUnknownEnvironment)
}

func TestConfig_Transport(t *testing.T) {
	t.Parallel()

	cfg := &Config{Timeout: time.Second}
	plain, ok := cfg.Transport().(*pamsdk.HTTPTransport)
	require.True(t, ok)
	require.Equal(t, time.Second, plain.Client.Timeout)

	cfg.RateLimit = RateLimit{RPS: 5, Burst: 2}
	cfg.Retry = Retry{Attempts: 3, Backoff: time.Millisecond}

	retrying, ok := cfg.Transport().(*pamsdk.RetryTransport)
	require.True(t, ok)
	limited, ok := retrying.Next.(*pamsdk.RateLimitedTransport)
	require.True(t, ok)
	require.Equal(t, 2, limited.Limiter.Burst())
}
