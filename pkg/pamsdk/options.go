package pamsdk

import (
	"log/slog"
	"net/http"
)

// Option configures a Connector or Client.
type Option func(*options)

type options struct {
	transport   Transport
	refresh     RefreshFunc
	reauth      ReauthPolicy
	userAgent   string
	logger      *slog.Logger
	metrics     *Metrics
	autoRelogin bool
}

func newOptions(opts []Option) *options {
	o := &options{
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport()
	}
	return o
}

func (o *options) connector(baseURL string, auth *Authenticator) *Connector {
	return &Connector{
		baseURL:   baseURL,
		auth:      auth,
		transport: o.transport,
		refresh:   o.refresh,
		reauth:    o.reauth,
		userAgent: o.userAgent,
		logger:    o.logger,
		metrics:   o.metrics,
	}
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithHTTPClient sends requests through client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.transport = &HTTPTransport{Client: client}
	}
}

// WithRefreshStrategy sets how the Connector obtains a session when an
// authenticated call finds none. Without one such calls fail with
// ErrLoginRequired before touching the network.
func WithRefreshStrategy(fn RefreshFunc) Option {
	return func(o *options) {
		o.refresh = fn
	}
}

// WithReauthPolicy enables retrying a refused call once after re-authenticating.
// It has no effect without a refresh strategy.
func WithReauthPolicy(p ReauthPolicy) Option {
	return func(o *options) {
		o.reauth = p
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithLogger pins the logger. By default the logger is taken from the request
// context through slogx.FromContext.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records request and refresh metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithAutoRelogin makes the Client remember the credentials of the last
// successful Login and use them as the refresh strategy. They are forgotten on
// Logout. Ignored when WithRefreshStrategy is also given.
func WithAutoRelogin() Option {
	return func(o *options) {
		o.autoRelogin = true
	}
}
