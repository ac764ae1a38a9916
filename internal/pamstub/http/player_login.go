package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/service"
	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

const maxBodyBytes = 1 << 20

type LoginHandler struct {
	PlayerService *service.PlayerService
	Metrics       *Metrics
}

// ServeHTTP handles player login.
//
//	@Summary		Log a player in
//	@Description	Verifies username and password and opens a new session. The returned sessionID must be sent in the X-SessionId header of authenticated calls.
//	@Tags			Player
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pamsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	pamsdk.SessionToken		"New session"
//	@Failure		400		{object}	httpx.ErrorBody			"Malformed request"
//	@Failure		401		{object}	httpx.ErrorBody			"Invalid credentials"
//	@Failure		403		{object}	httpx.ErrorBody			"Player is blocked"
//	@Failure		429		{object}	httpx.ErrorBody			"Too many login attempts"
//	@Router			/v1/player/login/player [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pamsdk.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.PlayerService.Login(ctx, req.Username, req.Password)
	h.Metrics.observeLogin(err)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	case errors.Is(err, service.ErrPlayerBlocked):
		httpx.WriteError(w, http.StatusForbidden, "player_blocked", "player is blocked")
		return
	default:
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "login failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSessionToken(res.SessionID, res.Player))
}
