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

type RegisterHandler struct {
	PlayerService *service.PlayerService
	Metrics       *Metrics
}

// ServeHTTP handles player registration.
//
//	@Summary		Register a player
//	@Description	Creates a player with an empty wallet and signs them in. The response carries the profile and the new session.
//	@Tags			Player
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pamsdk.RegisterRequest	true	"Registration data"
//	@Success		200		{object}	pamsdk.RegisterResponse	"Profile and session"
//	@Failure		400		{object}	httpx.ErrorBody			"Malformed request or validation failed"
//	@Failure		409		{object}	httpx.ErrorBody			"Username or email already registered"
//	@Failure		429		{object}	httpx.ErrorBody			"Too many registrations"
//	@Router			/v1/player/register [put].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pamsdk.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	res, err := h.PlayerService.Register(ctx, fromRegisterRequest(req), req.Password)
	h.Metrics.observeRegistration(err)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPlayerExists):
		httpx.WriteError(w, http.StatusConflict, "player_exists", "username or email already registered")
		return
	default:
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "registration failed")
		return
	}

	tok := toSessionToken(res.SessionID, res.Player)
	httpx.WriteJSON(w, http.StatusOK, pamsdk.RegisterResponse{
		Profile:       toProfile(res.Player),
		SessionID:     tok.SessionID,
		UniversalID:   tok.UniversalID,
		HasToAcceptTC: tok.HasToAcceptTC,
		HasToSetPass:  tok.HasToSetPass,
	})
}
