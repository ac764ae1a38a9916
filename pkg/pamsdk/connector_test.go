package pamsdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type echo struct {
	Value string `json:"value"`
}

func newTestConnector(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Connector, *Authenticator) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	auth := NewAuthenticator()
	return NewConnector(srv.URL, auth, opts...), auth
}

func statusHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

var authSpec = RequestSpec{
	Operation:    "echo",
	Method:       http.MethodGet,
	Path:         "/v1/echo",
	RequiresAuth: true,
}

func TestConnector_ClassifiesStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantErr   error
		keepToken bool
	}{
		{"unauthorized clears session", http.StatusUnauthorized, ErrLoginRequired, false},
		{"forbidden clears session", http.StatusForbidden, ErrInvalidToken, false},
		{"server error keeps session", http.StatusInternalServerError, UnknownError(500), true},
		{"not found keeps session", http.StatusNotFound, UnknownError(404), true},
		{"too many requests keeps session", http.StatusTooManyRequests, UnknownError(429), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, auth := newTestConnector(t, statusHandler(tt.status))
			auth.UpdateToken(&testToken)

			err := conn.Execute(context.Background(), authSpec, nil)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, tt.wantErr, err)
			require.Equal(t, tt.keepToken, auth.HasValidToken())
		})
	}
}

func TestConnector_UnknownErrorMessage(t *testing.T) {
	t.Parallel()

	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"server_error","message":"boom"}`)
	})
	auth.UpdateToken(&testToken)

	err := conn.Execute(context.Background(), authSpec, nil)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, KindUnknown, authErr.Kind)
	require.Equal(t, "Unknown error: 500", authErr.Message)

	id, ok := auth.Token()
	require.True(t, ok)
	require.Equal(t, testToken.SessionID, id)
}

func TestConnector_DecodesSuccess(t *testing.T) {
	t.Parallel()

	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(echo{Value: r.Header.Get(HeaderSessionID)})
	})
	auth.UpdateToken(&testToken)

	out, err := Do[echo](context.Background(), conn, authSpec)
	require.NoError(t, err)
	require.Equal(t, testToken.SessionID, out.Value)
}

func TestConnector_DecodingFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"value":`},
		{"wrong type", `{"value": 42}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			auth.UpdateToken(&testToken)

			_, err := Do[echo](context.Background(), conn, authSpec)
			require.True(t, IsDecodingFailed(err), "got %v", err)
			require.True(t, auth.HasValidToken())
		})
	}
}

func TestConnector_TransportFailure(t *testing.T) {
	t.Parallel()

	netErr := errors.New("dial tcp: connection refused")
	auth := NewAuthenticator()
	auth.UpdateToken(&testToken)

	conn := NewConnector("http://pam.invalid", auth, WithTransport(TransportFunc(func(*http.Request) (*http.Response, error) {
		return nil, netErr
	})))

	err := conn.Execute(context.Background(), authSpec, nil)
	require.True(t, IsTransport(err))
	require.True(t, IsRetryable(err))
	require.ErrorIs(t, err, netErr)
	require.False(t, RequiresReauthentication(err))
	require.True(t, auth.HasValidToken())
}

func TestConnector_NoSessionFailsWithoutNetwork(t *testing.T) {
	t.Parallel()

	var sent atomic.Int32
	auth := NewAuthenticator()
	conn := NewConnector("http://pam.invalid", auth, WithTransport(TransportFunc(func(*http.Request) (*http.Response, error) {
		sent.Add(1)
		return nil, errors.New("unexpected send")
	})))

	err := conn.Execute(context.Background(), authSpec, nil)
	require.Equal(t, ErrLoginRequired, err)
	require.Zero(t, sent.Load())
	require.Equal(t, StateInitial, auth.State().Kind)
}

func TestConnector_DecoratesFreshRequest(t *testing.T) {
	t.Parallel()

	var got http.Header
	var gotBody map[string]string
	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}, WithUserAgent("pamconnect-test/1.0"))
	auth.UpdateToken(&testToken)

	template := RequestSpec{
		Operation:    "update",
		Method:       http.MethodPost,
		Path:         "/v1/player/update",
		Body:         map[string]string{"nickname": "jobit"},
		Header:       http.Header{"X-Custom": []string{"yes"}},
		RequiresAuth: true,
	}
	before := template.Clone()

	require.NoError(t, conn.Execute(context.Background(), template, nil))

	require.Equal(t, testToken.SessionID, got.Get(HeaderSessionID))
	require.Equal(t, "application/json", got.Get(HeaderContentType))
	require.Equal(t, "application/json", got.Get(HeaderAccept))
	require.Equal(t, "pamconnect-test/1.0", got.Get(HeaderUserAgent))
	require.Equal(t, "yes", got.Get("X-Custom"))
	require.NotEmpty(t, got.Get(HeaderRequestID))
	require.Equal(t, map[string]string{"nickname": "jobit"}, gotBody)

	// The template is untouched.
	require.Equal(t, before, template)
	require.Empty(t, template.Header.Get(HeaderSessionID))
}

func TestConnector_KeepsCallerRequestID(t *testing.T) {
	t.Parallel()

	var got string
	conn, _ := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(HeaderRequestID)
		w.WriteHeader(http.StatusOK)
	})

	spec := RequestSpec{
		Method: http.MethodGet,
		Path:   "/livez",
		Header: http.Header{HeaderRequestID: []string{"req-123"}},
	}
	require.NoError(t, conn.Execute(context.Background(), spec, nil))
	require.Equal(t, "req-123", got)
}

func TestConnector_UnauthenticatedCallHasNoSessionHeader(t *testing.T) {
	t.Parallel()

	var got http.Header
	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusUnauthorized)
	})
	auth.UpdateToken(&testToken)

	err := conn.Execute(context.Background(), RequestSpec{Method: http.MethodGet, Path: "/public"}, nil)
	require.Equal(t, ErrLoginRequired, err)
	require.Empty(t, got.Get(HeaderSessionID))
	require.Empty(t, got.Get(HeaderContentType))

	// The refused request did not carry the session, so it stays.
	require.True(t, auth.HasValidToken())
}

func TestConnector_StaleRejectionKeepsNewerSession(t *testing.T) {
	t.Parallel()

	newer := NewSessionToken("fresh-session", testToken.UniversalID)

	var auth *Authenticator
	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		// Another caller replaced the session while this one was in flight.
		auth.UpdateToken(&newer)
		w.WriteHeader(http.StatusUnauthorized)
	})
	auth.UpdateToken(&testToken)

	err := conn.Execute(context.Background(), authSpec, nil)
	require.Equal(t, ErrLoginRequired, err)

	id, ok := auth.Token()
	require.True(t, ok)
	require.Equal(t, newer.SessionID, id)
}

// rotatingBackend accepts only the session named current.
func rotatingBackend(current *atomic.Value, hits *atomic.Int32, refusal int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get(HeaderSessionID) != current.Load().(string) {
			w.WriteHeader(refusal)
			return
		}
		_ = json.NewEncoder(w).Encode(echo{Value: "ok"})
	}
}

func TestConnector_ReauthPolicy(t *testing.T) {
	t.Parallel()

	renewed := NewSessionToken("renewed-session", testToken.UniversalID)

	tests := []struct {
		name        string
		refusal     int
		policy      ReauthPolicy
		wantErr     error
		wantHits    int32
		wantRefresh int32
	}{
		{"no policy surfaces 401", http.StatusUnauthorized, ReauthPolicy{}, ErrLoginRequired, 1, 0},
		{"retries 401", http.StatusUnauthorized, RetryExpiredSessions, nil, 2, 1},
		{"expired-only policy surfaces 403", http.StatusForbidden, RetryExpiredSessions, ErrInvalidToken, 1, 0},
		{"retries 403 when enabled", http.StatusForbidden, ReauthPolicy{OnInvalidToken: true}, nil, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var current atomic.Value
			current.Store(renewed.SessionID)
			var hits, refreshes atomic.Int32

			refresh := func(context.Context) (SessionToken, error) {
				refreshes.Add(1)
				return renewed, nil
			}

			conn, auth := newTestConnector(t,
				rotatingBackend(&current, &hits, tt.refusal),
				WithRefreshStrategy(refresh),
				WithReauthPolicy(tt.policy),
			)
			auth.UpdateToken(&testToken)

			out, err := Do[echo](context.Background(), conn, authSpec)
			require.Equal(t, tt.wantHits, hits.Load())
			require.Equal(t, tt.wantRefresh, refreshes.Load())

			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				require.False(t, auth.HasValidToken())
				return
			}
			require.NoError(t, err)
			require.Equal(t, "ok", out.Value)

			id, _ := auth.Token()
			require.Equal(t, renewed.SessionID, id)
		})
	}
}

func TestConnector_ReauthRetriesOnlyOnce(t *testing.T) {
	t.Parallel()

	var hits, refreshes atomic.Int32
	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	},
		WithRefreshStrategy(func(context.Context) (SessionToken, error) {
			refreshes.Add(1)
			return testToken, nil
		}),
		WithReauthPolicy(RetryExpiredSessions),
	)
	auth.UpdateToken(&testToken)

	err := conn.Execute(context.Background(), authSpec, nil)
	require.Equal(t, ErrLoginRequired, err)
	require.Equal(t, int32(2), hits.Load())
	require.Equal(t, int32(1), refreshes.Load())
}

func TestConnector_ConcurrentRefusalsLogInOnce(t *testing.T) {
	t.Parallel()

	renewed := NewSessionToken("renewed-session", testToken.UniversalID)

	var refused, refreshes atomic.Int32
	bothSent := make(chan struct{})

	var states *Subscription
	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderSessionID) == renewed.SessionID {
			_ = json.NewEncoder(w).Encode(echo{Value: "ok"})
			return
		}

		// Both calls go out with the expired session. The second refusal
		// only arrives once the first caller has logged in again.
		if refused.Add(1) == 2 {
			close(bothSent)
			for s := range states.C {
				if s.IsAuthenticated() && s.Token.Equal(renewed) {
					break
				}
			}
		}
		<-bothSent
		w.WriteHeader(http.StatusUnauthorized)
	},
		WithRefreshStrategy(func(context.Context) (SessionToken, error) {
			refreshes.Add(1)
			return renewed, nil
		}),
		WithReauthPolicy(RetryExpiredSessions),
	)
	auth.UpdateToken(&testToken)
	states = auth.Subscribe()
	t.Cleanup(states.Close)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Do[echo](context.Background(), conn, authSpec)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(2), refused.Load())
	require.Equal(t, int32(1), refreshes.Load())

	id, ok := auth.Token()
	require.True(t, ok)
	require.Equal(t, renewed.SessionID, id)
}

func TestConnector_RefreshOnMissingSession(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	conn, auth := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(echo{Value: r.Header.Get(HeaderSessionID)})
	}, WithRefreshStrategy(func(context.Context) (SessionToken, error) {
		refreshes.Add(1)
		return testToken, nil
	}))

	out, err := Do[echo](context.Background(), conn, authSpec)
	require.NoError(t, err)
	require.Equal(t, testToken.SessionID, out.Value)
	require.Equal(t, int32(1), refreshes.Load())
	require.True(t, auth.HasValidToken())
}

func TestConnector_CancelledWaitIsTransport(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	auth := NewAuthenticator()
	conn := NewConnector("http://pam.invalid", auth, WithRefreshStrategy(func(context.Context) (SessionToken, error) {
		<-release
		return testToken, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := conn.Execute(ctx, authSpec, nil)
	require.True(t, IsTransport(err))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRequestSpec_CloneIsDeep(t *testing.T) {
	t.Parallel()

	spec := RequestSpec{
		Header: http.Header{"X-A": []string{"1"}},
		Query:  map[string][]string{"page": {"1"}},
	}
	clone := spec.Clone()
	clone.Header.Set("X-A", "2")
	clone.Query.Set("page", "2")

	require.Equal(t, "1", spec.Header.Get("X-A"))
	require.Equal(t, "1", spec.Query.Get("page"))
}
