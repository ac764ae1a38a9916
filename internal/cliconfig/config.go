package cliconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

// ErrUnknownEnvironment is returned when no base URL is configured for the
// selected environment.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Config is the merged pamctl configuration.
type Config struct {
	// Env selects a profile; BaseURL, when set, bypasses profiles.
	Env       string            `koanf:"env"`
	BaseURL   string            `koanf:"baseurl"`
	Profiles  map[string]string `koanf:"profiles"`
	Timeout   time.Duration     `koanf:"timeout"`
	UserAgent string            `koanf:"useragent"`

	Retry     Retry     `koanf:"retry"`
	RateLimit RateLimit `koanf:"ratelimit"`
	Session   Session   `koanf:"session"`
	Log       Log       `koanf:"log"`
}

// Retry configures pamsdk.RetryTransport. Zero attempts disables it.
type Retry struct {
	Attempts uint64        `koanf:"attempts"`
	Backoff  time.Duration `koanf:"backoff"`
}

// RateLimit configures pamsdk.RateLimitedTransport. Zero rps disables it.
type RateLimit struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// Session is an existing session to act with. pamctl never writes it to disk.
type Session struct {
	ID     string `koanf:"id"`
	Player string `koanf:"player"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns the lowest priority configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"env":     pamsdk.EnvLocal,
		"timeout": pamsdk.DefaultTimeout,
		"profiles": map[string]any{
			pamsdk.EnvLocal: "http://localhost:8080",
		},
		"retry": map[string]any{
			"attempts": 2,
			"backoff":  200 * time.Millisecond,
		},
		"ratelimit": map[string]any{
			"rps":   0,
			"burst": 1,
		},
		"log": map[string]any{
			"level":  "warn",
			"format": "text",
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("ratelimit.rps must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("ratelimit.burst must be at least 1"))
	}
	if c.Retry.Attempts > 0 && c.Retry.Backoff <= 0 {
		errs = append(errs, errors.New("retry.backoff must be positive when retries are enabled"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	if (c.Session.ID == "") != (c.Session.Player == "") {
		errs = append(errs, errors.New("session.id and session.player must be set together"))
	}
	return errors.Join(errs...)
}

// Environment resolves the target deployment.
func (c *Config) Environment() (pamsdk.Environment, error) {
	if c.BaseURL != "" {
		return pamsdk.NewEnvironment(c.Env, c.BaseURL)
	}
	url, ok := c.Profiles[c.Env]
	if !ok || url == "" {
		return pamsdk.Environment{}, fmt.Errorf("%w %q: set baseurl or profiles.%s", ErrUnknownEnvironment, c.Env, c.Env)
	}
	return pamsdk.NewEnvironment(c.Env, url)
}

// Transport builds the SDK transport chain. Retries wrap the limiter so that
// every attempt waits for a token.
func (c *Config) Transport() pamsdk.Transport {
	base := pamsdk.NewHTTPTransport()
	base.Client.Timeout = c.Timeout

	var t pamsdk.Transport = base

	if c.RateLimit.RPS > 0 {
		t = pamsdk.NewRateLimitedTransport(t, c.RateLimit.RPS, c.RateLimit.Burst)
	}
	if c.Retry.Attempts > 0 {
		t = pamsdk.NewRetryTransport(t, c.Retry.Attempts, c.Retry.Backoff)
	}
	return t
}

// SessionToken returns the configured session, if any.
func (c *Config) SessionToken() (pamsdk.SessionToken, bool) {
	if c.Session.ID == "" {
		return pamsdk.SessionToken{}, false
	}
	return pamsdk.NewSessionToken(c.Session.ID, c.Session.Player), true
}

// Logger writes to w, which for a CLI is stderr so stdout stays parseable.
func (c *Config) Logger(version string, w io.Writer) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "pamctl",
		Version: version,
		Env:     c.Env,
		Level:   c.Log.Level,
		Format:  c.Log.Format,
		Output:  w,
	})
}
