package httpx

import "net/http"

// RequireOwnPlayer rejects requests whose path {param} names a player other
// than the one bound to the session. Must run after SessionMiddleware.
func RequireOwnPlayer(param string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. The session's player must be known.
			have := PlayerIDFromContext(r.Context())
			if have == "" {
				WriteError(w, http.StatusUnauthorized, "login_required", "missing session")
				return
			}

			// 2. It must match the addressed player.
			if r.PathValue(param) != have {
				WriteError(w, http.StatusForbidden, "invalid_session", "session does not belong to this player")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
