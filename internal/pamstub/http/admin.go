package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/service"
	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

// AdminTokenHeader carries the operator token on /admin routes.
const AdminTokenHeader = "X-Admin-Token"

// CreditRequest is the body of POST /admin/players/{id}/credit. Amounts are
// in minor units.
type CreditRequest struct {
	RealMinor  int64 `json:"realMinor"`
	BonusMinor int64 `json:"bonusMinor"`
}

// AdminHandler exposes operator actions used to drive test scenarios.
// The routes are only mounted when an admin token is configured.
type AdminHandler struct {
	PlayerService *service.PlayerService
	Token         string
}

// RequireToken rejects requests without the configured admin token.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(AdminTokenHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) != 1 {
			slogx.FromContext(r.Context()).Warn("unauthorized admin attempt")
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "admin token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleBlock blocks a player and revokes their sessions.
//
//	@Summary		Block a player
//	@Description	Blocks the player and revokes every live session. Later calls with those sessions are answered with 403.
//	@Tags			Admin
//	@Param			X-Admin-Token	header	string	true	"Admin token"
//	@Param			id				path	string	true	"Player universal id"
//	@Success		204				"Player blocked"
//	@Failure		401				{object}	httpx.ErrorBody	"Missing or invalid admin token"
//	@Failure		404				{object}	httpx.ErrorBody	"Player not found"
//	@Router			/admin/players/{id}/block [post].
func (h *AdminHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	err := h.PlayerService.Block(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCredit adds money to a player's wallet.
//
//	@Summary		Credit a wallet
//	@Tags			Admin
//	@Accept			json
//	@Param			X-Admin-Token	header	string			true	"Admin token"
//	@Param			id				path	string			true	"Player universal id"
//	@Param			request			body	CreditRequest	true	"Amounts in minor units"
//	@Success		204				"Wallet credited"
//	@Failure		400				{object}	httpx.ErrorBody	"Malformed request"
//	@Failure		401				{object}	httpx.ErrorBody	"Missing or invalid admin token"
//	@Failure		404				{object}	httpx.ErrorBody	"Player not found"
//	@Router			/admin/players/{id}/credit [post].
func (h *AdminHandler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.RealMinor < 0 || req.BonusMinor < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "amounts must not be negative")
		return
	}

	if err := h.PlayerService.Credit(r.Context(), r.PathValue("id"), req.RealMinor, req.BonusMinor); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrPlayerNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "player not found")
		return
	}
	slogx.FromContext(r.Context()).Error("admin action failed", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "admin action failed")
}
