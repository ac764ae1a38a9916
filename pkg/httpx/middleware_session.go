package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

// SessionHeader carries the session on authenticated PAM calls.
const SessionHeader = "X-SessionId"

var (
	// ErrSessionUnknown means the session does not exist or has expired.
	// It is answered with 401.
	ErrSessionUnknown = errors.New("session unknown or expired")

	// ErrSessionRevoked means the session exists but was rejected, e.g. it was
	// revoked or the account is blocked. It is answered with 403.
	ErrSessionRevoked = errors.New("session revoked")
)

// SessionVerifier resolves a session id to the player it belongs to.
// Implementations return errors wrapping ErrSessionUnknown or ErrSessionRevoked.
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (playerID string, err error)
}

// SessionVerifierFunc adapts a function to SessionVerifier.
type SessionVerifierFunc func(ctx context.Context, sessionID string) (string, error)

func (f SessionVerifierFunc) VerifySession(ctx context.Context, sessionID string) (string, error) {
	return f(ctx, sessionID)
}

// SessionMiddleware requires a valid X-SessionId header and injects the
// session and player into the request context.
func SessionMiddleware(v SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sessionID == "" {
				WriteError(w, http.StatusUnauthorized, "login_required", "missing session")
				return
			}

			playerID, err := v.VerifySession(ctx, sessionID)
			switch {
			case err == nil:
			case errors.Is(err, ErrSessionRevoked):
				log.Info("session rejected", "reason", err)
				WriteError(w, http.StatusForbidden, "invalid_session", "session rejected")
				return
			case errors.Is(err, ErrSessionUnknown):
				WriteError(w, http.StatusUnauthorized, "login_required", "session expired")
				return
			default:
				log.Error("session verification failed", "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "session verification failed")
				return
			}

			ctx = contextWithSession(ctx, sessionID, playerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
