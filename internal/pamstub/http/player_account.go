package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/service"
	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

// AccountHandler serves the session-bound player reads. Both routes run
// behind SessionMiddleware and RequireOwnPlayer("id").
type AccountHandler struct {
	PlayerService *service.PlayerService
}

// HandleBalance returns the player's wallet balance.
//
//	@Summary		Get wallet balance
//	@Tags			Player
//	@Security		SessionAuth
//	@Produce		json
//	@Param			id	path		string			true	"Player universal id"
//	@Success		200	{object}	pamsdk.Balance	"Balance in the account currency"
//	@Failure		401	{object}	httpx.ErrorBody	"Missing, unknown or expired session"
//	@Failure		403	{object}	httpx.ErrorBody	"Session revoked or belongs to another player"
//	@Router			/v1/player/{id}/balance [get].
func (h *AccountHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := httpx.PlayerIDFromContext(ctx)

	wallet, err := h.PlayerService.Balance(ctx, playerID)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBalance(wallet))
}

// HandleProfile returns the player's account data.
//
//	@Summary		Get player profile
//	@Tags			Player
//	@Security		SessionAuth
//	@Produce		json
//	@Param			id	path		string			true	"Player universal id"
//	@Success		200	{object}	pamsdk.Profile	"Profile"
//	@Failure		401	{object}	httpx.ErrorBody	"Missing, unknown or expired session"
//	@Failure		403	{object}	httpx.ErrorBody	"Session revoked or belongs to another player"
//	@Router			/v1/player/{id}/profile [get].
func (h *AccountHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := httpx.PlayerIDFromContext(ctx)

	player, err := h.PlayerService.Profile(ctx, playerID)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfile(player))
}

func (h *AccountHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrPlayerNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "player not found")
		return
	}
	slogx.FromContext(r.Context()).Error("player lookup failed", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "player lookup failed")
}
