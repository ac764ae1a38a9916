package pamsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/pamconnect/pkg/idx"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

// Header names used on the wire.
const (
	HeaderSessionID   = "X-SessionId"
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderUserAgent   = "User-Agent"

	contentTypeJSON  = "application/json"
	defaultUserAgent = "pamconnect-go"
)

var errEmptyBody = errors.New("empty response body")

// RequestSpec describes one logical backend call. It is a template: the
// Connector builds a fresh *http.Request from it on every attempt and never
// modifies it, so a spec can be shared between goroutines.
type RequestSpec struct {
	// Operation names the call in logs and metrics, e.g. "login".
	Operation string

	Method string
	Path   string
	Query  url.Values

	// Body is encoded as JSON when non-nil.
	Body any

	// Header holds extra headers. Decoration headers set by the Connector
	// take precedence, except X-Request-ID which is kept when present.
	Header http.Header

	// RequiresAuth makes the Connector attach the current session as
	// X-SessionId, obtaining one first if needed.
	RequiresAuth bool
}

// Clone returns a deep copy of the spec's maps. Body is shared.
func (s RequestSpec) Clone() RequestSpec {
	out := s
	out.Header = s.Header.Clone()
	if s.Query != nil {
		out.Query = make(url.Values, len(s.Query))
		for k, v := range s.Query {
			out.Query[k] = append([]string(nil), v...)
		}
	}
	return out
}

func (s RequestSpec) operation() string {
	if s.Operation != "" {
		return s.Operation
	}
	return strings.ToLower(s.Method)
}

// ReauthPolicy controls the opt-in retry of a call whose session was refused.
// When enabled for the error kind, the Connector forces a refresh and sends the
// original call exactly once more. The zero value never retries.
type ReauthPolicy struct {
	OnLoginRequired bool
	OnInvalidToken  bool
}

// RetryExpiredSessions retries 401s only. A 403 is treated as a permanent
// rejection of the session and surfaces to the caller.
var RetryExpiredSessions = ReauthPolicy{OnLoginRequired: true}

func (p ReauthPolicy) retries(err error) bool {
	switch KindOf(err) {
	case KindLoginRequired:
		return p.OnLoginRequired
	case KindInvalidToken:
		return p.OnInvalidToken
	default:
		return false
	}
}

// Connector executes RequestSpecs against the backend. It decorates requests
// with the session header, classifies every outcome into an
// *AuthenticationError and reports 401/403 to the Authenticator.
//
// Connector has no mutable state of its own and is safe for concurrent use.
type Connector struct {
	baseURL   string
	auth      *Authenticator
	transport Transport
	refresh   RefreshFunc
	reauth    ReauthPolicy
	userAgent string
	logger    *slog.Logger
	metrics   *Metrics
}

// NewConnector creates a Connector for baseURL sharing auth.
func NewConnector(baseURL string, auth *Authenticator, opts ...Option) *Connector {
	o := newOptions(opts)
	return o.connector(baseURL, auth)
}

// Authenticator returns the shared Authenticator.
func (c *Connector) Authenticator() *Authenticator {
	return c.auth
}

// Execute performs spec and decodes a 2xx body into out. A nil out discards
// the body. Request outcomes are always reported as *AuthenticationError; the
// only other error is a spec that cannot be encoded into a request.
func (c *Connector) Execute(ctx context.Context, spec RequestSpec, out any) error {
	start := time.Now()
	err := c.execute(ctx, spec, out)
	c.metrics.observeRequest(spec.operation(), err, time.Since(start))
	return err
}

// Do is Execute with a typed result.
func Do[T any](ctx context.Context, c *Connector, spec RequestSpec) (T, error) {
	var out T
	if err := c.Execute(ctx, spec, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Connector) execute(ctx context.Context, spec RequestSpec, out any) error {
	cleared, err := c.attempt(ctx, spec, out, false)
	if err == nil || !spec.RequiresAuth || c.refresh == nil || !c.reauth.retries(err) {
		return err
	}

	// When the refused session had already been replaced, the retry picks up
	// the replacement (or joins its refresh) instead of logging in again.
	c.log(ctx).Info("session refused, retrying after re-authentication",
		"operation", spec.operation(),
		"kind", KindOf(err).String(),
		"force_refresh", cleared,
	)
	_, err = c.attempt(ctx, spec, out, cleared)
	return err
}

// attempt sends spec once. cleared reports that the backend refused the
// session and it was still the current one.
func (c *Connector) attempt(ctx context.Context, spec RequestSpec, out any, forceRefresh bool) (cleared bool, err error) {
	var token SessionToken
	if spec.RequiresAuth {
		tok, err := c.auth.WithValidToken(ctx, forceRefresh, c.refresh)
		if err != nil {
			return false, classifyWaitError(err)
		}
		token = tok
	}

	req, err := c.newRequest(ctx, spec, token)
	if err != nil {
		return false, err
	}

	logger := c.log(ctx).With(
		"operation", spec.operation(),
		"method", req.Method,
		"path", req.URL.Path,
		"req_id", req.Header.Get(HeaderRequestID),
	)
	if !token.IsZero() {
		logger = logger.With("session", token.Fingerprint())
	}

	start := time.Now()
	resp, err := c.transport.Send(req)
	if err != nil {
		logger.Warn("pam request failed", "error", err)
		return false, TransportError(err)
	}
	defer resp.Body.Close()

	logger = logger.With(
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c.classify(logger, resp, token, out)
}

// classify maps a received response onto the error taxonomy.
func (c *Connector) classify(logger *slog.Logger, resp *http.Response, sent SessionToken, out any) (bool, error) {
	body, readErr := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if readErr != nil {
			logger.Warn("pam response body read failed", "error", readErr)
			return false, TransportError(fmt.Errorf("read response body: %w", readErr))
		}
		if err := decodeBody(body, out); err != nil {
			logger.Error("pam response did not match the expected shape", "error", err)
			return false, err
		}
		logger.Debug("pam request completed")
		return false, nil

	case resp.StatusCode == http.StatusUnauthorized:
		return c.reject(logger, sent, body), ErrLoginRequired

	case resp.StatusCode == http.StatusForbidden:
		return c.reject(logger, sent, body), ErrInvalidToken

	default:
		attrs := []any{}
		if apiErr := parseAPIError(resp.StatusCode, body); apiErr != nil {
			attrs = append(attrs, "api_error", apiErr.Code, "api_message", apiErr.Message)
		}
		logger.Warn("pam request returned an unexpected status", attrs...)
		return false, UnknownError(resp.StatusCode)
	}
}

// reject clears the session that the backend refused and reports whether it
// was still current. A request sent without a session says nothing about the
// current one, which is kept.
func (c *Connector) reject(logger *slog.Logger, sent SessionToken, body []byte) bool {
	attrs := []any{}
	if apiErr := parseAPIError(0, body); apiErr != nil {
		attrs = append(attrs, "api_error", apiErr.Code)
	}

	if sent.IsZero() {
		logger.Info("pam request refused", attrs...)
		return false
	}
	cleared := c.auth.clearIfCurrent(sent)
	logger.Info("pam session refused", append(attrs, "cleared", cleared)...)
	return cleared
}

func (c *Connector) newRequest(ctx context.Context, spec RequestSpec, token SessionToken) (*http.Request, error) {
	target := c.baseURL + spec.Path
	if len(spec.Query) > 0 {
		target += "?" + spec.Query.Encode()
	}

	var body io.Reader
	if spec.Body != nil {
		raw, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request body: %w", spec.operation(), err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", spec.operation(), err)
	}

	req.Header = spec.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set(HeaderAccept, contentTypeJSON)
	req.Header.Set(HeaderUserAgent, c.userAgent)
	if body != nil {
		req.Header.Set(HeaderContentType, contentTypeJSON)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, idx.New().String())
	}
	if !token.IsZero() {
		req.Header.Set(HeaderSessionID, token.SessionID)
	}

	return req, nil
}

func (c *Connector) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slogx.FromContext(ctx)
}

// decodeBody unmarshals a 2xx body into out.
func decodeBody(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return DecodingError(errEmptyBody)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return DecodingError(err)
	}
	return nil
}

// classifyWaitError converts the result of waiting for a session. Refresh
// errors are already classified; an abandoned wait is reported as a transport
// failure since no response was received.
func classifyWaitError(err error) error {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return TransportError(err)
	}
	return err
}
