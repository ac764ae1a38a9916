package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/service"
	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

type LogoutHandler struct {
	PlayerService *service.PlayerService
}

// ServeHTTP ends the session named by the X-SessionId header.
//
//	@Summary		Log a player out
//	@Description	Ends the session named by the X-SessionId header. Any session may be ended, not only the caller's own.
//	@Tags			Player
//	@Param			X-SessionId	header	string			true	"Session to end"
//	@Success		204			"Session ended"
//	@Failure		401			{object}	httpx.ErrorBody	"Missing, unknown or expired session"
//	@Router			/v1/player/session/player [delete].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := strings.TrimSpace(r.Header.Get(httpx.SessionHeader))
	if sessionID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "login_required", "missing session")
		return
	}

	err := h.PlayerService.Logout(ctx, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, httpx.ErrSessionUnknown):
		httpx.WriteError(w, http.StatusUnauthorized, "login_required", "session unknown or expired")
		return
	default:
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "logout failed")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
