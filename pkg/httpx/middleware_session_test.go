package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func fakeVerifier(sessions map[string]error) httpx.SessionVerifier {
	return httpx.SessionVerifierFunc(func(_ context.Context, sessionID string) (string, error) {
		err, ok := sessions[sessionID]
		if !ok {
			return "", fmt.Errorf("lookup %q: %w", sessionID, httpx.ErrSessionUnknown)
		}
		if err != nil {
			return "", err
		}
		return "player-123456", nil
	})
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	verifier := fakeVerifier(map[string]error{
		"live":    nil,
		"revoked": fmt.Errorf("session: %w", httpx.ErrSessionRevoked),
		"broken":  errors.New("database is locked"),
	})

	tests := []struct {
		name    string
		session string
		want    int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"unknown session", "nope", http.StatusUnauthorized},
		{"revoked session", "revoked", http.StatusForbidden},
		{"verifier failure", "broken", http.StatusInternalServerError},
		{"live session", "live", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotSession, gotPlayer string
			h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSession = httpx.SessionIDFromContext(r.Context())
				gotPlayer = httpx.PlayerIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}), httpx.SessionMiddleware(verifier))

			req := httptest.NewRequest(http.MethodGet, "/v1/player/player-123456/balance", nil)
			if tt.session != "" {
				req.Header.Set(httpx.SessionHeader, tt.session)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				require.Equal(t, "live", gotSession)
				require.Equal(t, "player-123456", gotPlayer)
			} else {
				require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestRequireOwnPlayer(t *testing.T) {
	t.Parallel()

	verifier := fakeVerifier(map[string]error{"live": nil})

	mux := http.NewServeMux()
	mux.Handle("GET /v1/player/{playerID}/balance", httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		httpx.SessionMiddleware(verifier),
		httpx.RequireOwnPlayer("playerID"),
	))

	for path, want := range map[string]int{
		"/v1/player/player-123456/balance": http.StatusOK,
		"/v1/player/player-999/balance":    http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(httpx.SessionHeader, "live")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, path)
	}
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}
