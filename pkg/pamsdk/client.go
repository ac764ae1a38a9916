package pamsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ErrInvalidRequest wraps client-side validation failures. Such requests are
// never sent.
var ErrInvalidRequest = errors.New("invalid request")

// Client is the domain-facing PAM API. Every method is a thin Connector call;
// session handling lives in the Connector and the shared Authenticator.
type Client struct {
	env   Environment
	auth  *Authenticator
	conn  *Connector
	creds *credentials
}

// NewClient creates a Client for env sharing auth.
func NewClient(env Environment, auth *Authenticator, opts ...Option) *Client {
	o := newOptions(opts)

	c := &Client{
		env:  env,
		auth: auth,
	}
	if o.autoRelogin && o.refresh == nil {
		c.creds = &credentials{}
		o.refresh = c.relogin
	}
	c.conn = o.connector(env.BaseURL, auth)

	return c
}

// Environment returns the target environment.
func (c *Client) Environment() Environment {
	return c.env
}

// Authenticator returns the shared Authenticator.
func (c *Client) Authenticator() *Authenticator {
	return c.auth
}

// Connector returns the underlying Connector, for calls this Client does not
// wrap.
func (c *Client) Connector() *Connector {
	return c.conn
}

// GetLiveness checks if the backend is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the backend is ready. A degraded backend answers 503,
// reported as UnknownError(503).
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := Do[HealthResponse](ctx, c.conn, RequestSpec{
		Operation: "health",
		Method:    http.MethodGet,
		Path:      path,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// credentials remembers the last successful login for WithAutoRelogin.
// A nil *credentials stores nothing.
type credentials struct {
	mu  sync.Mutex
	req *LoginRequest
}

func (s *credentials) store(req LoginRequest) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req = &req
}

func (s *credentials) load() (LoginRequest, bool) {
	if s == nil {
		return LoginRequest{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req == nil {
		return LoginRequest{}, false
	}
	return *s.req, true
}

func (s *credentials) forget() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req = nil
}
