package pamsdk

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Single-flight keys. Every refresh of the one session per Authenticator is
// the same operation and shares refreshKey. Explicit logins are keyed by
// their credentials under loginKeyPrefix.
const (
	refreshKey     = "session"
	loginKeyPrefix = "login:"
)

var errEmptySession = errors.New("refresh returned an empty session id")

// RefreshFunc obtains a brand new session, typically by logging in again.
// Errors should already be classified as *AuthenticationError.
type RefreshFunc func(ctx context.Context) (SessionToken, error)

// Authenticator is the single owner of the authentication state. It is meant to
// be created once per process and shared by every Connector and Client.
//
// State reads and writes go through a mutex. Token acquisition goes through a
// single-flight group so concurrent callers never trigger more than one login.
type Authenticator struct {
	logger  *slog.Logger
	metrics *Metrics

	mu    sync.Mutex
	state AuthenticationState
	pub   *statePublisher

	flight singleflight.Group
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithAuthenticatorLogger sets the logger used for state transitions.
func WithAuthenticatorLogger(logger *slog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

// WithAuthenticatorMetrics records refreshes and state changes on m.
func WithAuthenticatorMetrics(m *Metrics) AuthenticatorOption {
	return func(a *Authenticator) {
		a.metrics = m
	}
}

// NewAuthenticator creates an Authenticator in the initial state.
func NewAuthenticator(opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		logger: slog.Default(),
		state:  initialState,
		pub:    newStatePublisher(initialState),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.metrics.observeState(a.state)
	return a
}

// Subscribe returns a stream of state transitions. The current state is
// delivered first. The stream stays open until the subscription is closed.
func (a *Authenticator) Subscribe() *Subscription {
	return a.pub.subscribe()
}

// State returns a snapshot of the current state.
func (a *Authenticator) State() AuthenticationState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Token returns the session id when authenticated.
func (a *Authenticator) Token() (string, bool) {
	tok, ok := a.CurrentToken()
	return tok.SessionID, ok
}

// CurrentToken returns the full session token when authenticated.
func (a *Authenticator) CurrentToken() (SessionToken, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.IsAuthenticated() {
		return SessionToken{}, false
	}
	return a.state.Token, true
}

// HasValidToken reports whether the state is authenticated.
func (a *Authenticator) HasValidToken() bool {
	_, ok := a.CurrentToken()
	return ok
}

// UpdateToken replaces the session. A nil token moves to unauthenticated.
// Every call emits on the state stream, including repeats of an equal token.
func (a *Authenticator) UpdateToken(token *SessionToken) {
	if token == nil {
		a.transition(unauthenticatedState)
		return
	}
	a.transition(Authenticated(*token))
}

// Invalidate drops the current session.
func (a *Authenticator) Invalidate() {
	a.UpdateToken(nil)
}

// WithValidToken returns a usable session, running refresh when needed.
//
// With a valid token and forceRefresh unset the token is returned directly.
// Otherwise refresh runs once for every caller that arrives while it is in
// flight, and they all receive its result. A nil refresh with no valid token
// fails with ErrLoginRequired and leaves the state untouched.
//
// Cancelling ctx only stops this caller from waiting; the refresh keeps going
// for the others.
func (a *Authenticator) WithValidToken(
	ctx context.Context,
	forceRefresh bool,
	refresh RefreshFunc,
) (SessionToken, error) {
	if !forceRefresh {
		if tok, ok := a.CurrentToken(); ok {
			return tok, nil
		}
	}

	if refresh == nil {
		return SessionToken{}, ErrLoginRequired
	}

	return a.acquire(ctx, refreshKey, refresh, nil)
}

// Authenticate forces a new session through refresh. It is WithValidToken with
// forceRefresh set, so it joins a refresh that is already in flight.
func (a *Authenticator) Authenticate(ctx context.Context, refresh RefreshFunc) (SessionToken, error) {
	return a.WithValidToken(ctx, true, refresh)
}

// login runs refresh on a flight of its own named by key. Callers with
// different credentials must use different keys so none of them receives a
// session it did not ask for. commit runs under the state lock right after the
// token becomes current, and only in the caller whose refresh produced it.
func (a *Authenticator) login(
	ctx context.Context,
	key string,
	refresh RefreshFunc,
	commit func(SessionToken),
) (SessionToken, error) {
	return a.acquire(ctx, loginKeyPrefix+key, refresh, commit)
}

func (a *Authenticator) acquire(
	ctx context.Context,
	key string,
	refresh RefreshFunc,
	commit func(SessionToken),
) (SessionToken, error) {
	if err := ctx.Err(); err != nil {
		return SessionToken{}, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := a.flight.DoChan(key, func() (any, error) {
		return a.refresh(flightCtx, refresh, commit)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return SessionToken{}, res.Err
		}
		return res.Val.(SessionToken), nil
	case <-ctx.Done():
		return SessionToken{}, ctx.Err()
	}
}

// refresh runs inside the single-flight group.
func (a *Authenticator) refresh(ctx context.Context, refresh RefreshFunc, commit func(SessionToken)) (SessionToken, error) {
	a.transition(authenticatingState)
	start := time.Now()

	token, err := refresh(ctx)
	if err == nil && token.IsZero() {
		err = DecodingError(errEmptySession)
	}

	a.metrics.observeRefresh(err, time.Since(start))

	if err != nil {
		a.logger.Warn("session refresh failed", "error", err)
		a.transition(unauthenticatedState)
		return SessionToken{}, err
	}

	a.install(token, commit)
	return token, nil
}

// install makes token current and runs commit under the same lock, so
// anything tied to the session changes together with it.
func (a *Authenticator) install(token SessionToken, commit func(SessionToken)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transitionLocked(Authenticated(token))
	if commit != nil {
		commit(token)
	}
}

// clearIfCurrent moves to unauthenticated when sent is still the active
// session. A rejection of an older session must not discard a newer one that
// another caller obtained meanwhile.
func (a *Authenticator) clearIfCurrent(sent SessionToken) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.IsAuthenticated() || !a.state.Token.Equal(sent) {
		return false
	}
	a.transitionLocked(unauthenticatedState)
	return true
}

// transition applies next and publishes it while holding the mutex, which keeps
// the stream in the same total order as the state itself.
func (a *Authenticator) transition(next AuthenticationState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transitionLocked(next)
}

func (a *Authenticator) transitionLocked(next AuthenticationState) {
	prev := a.state
	a.state = next
	a.pub.publish(next)
	a.metrics.observeState(next)

	a.logger.Debug("authentication state changed",
		"from", prev.String(),
		"to", next.String(),
	)
}
