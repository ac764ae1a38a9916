package pamsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Player endpoint paths.
const (
	pathLogin    = "/v1/player/login/player"
	pathRegister = "/v1/player/register"
	pathSession  = "/v1/player/session/player"
)

var errMissingPlayerID = errors.New("player id is required")

func playerPath(playerID, resource string) string {
	return "/v1/player/" + url.PathEscape(playerID) + "/" + resource
}

// Login signs the player in and makes the returned session current.
//
// The state moves to authenticating while the call is in flight, then to
// authenticated or unauthenticated. Concurrent logins with the same
// credentials share one backend call; logins with different credentials each
// get their own, and the one that completes last holds the session.
func (c *Client) Login(ctx context.Context, username, password string) (SessionToken, error) {
	req := LoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return SessionToken{}, invalid(err)
	}

	login := func(ctx context.Context) (SessionToken, error) {
		return c.performLogin(ctx, req)
	}
	remember := func(SessionToken) {
		c.creds.store(req)
	}
	return c.auth.login(ctx, req.flightKey(), login, remember)
}

func (c *Client) performLogin(ctx context.Context, req LoginRequest) (SessionToken, error) {
	return Do[SessionToken](ctx, c.conn, RequestSpec{
		Operation: "login",
		Method:    http.MethodPost,
		Path:      pathLogin,
		Body:      req,
	})
}

// relogin is the refresh strategy installed by WithAutoRelogin.
func (c *Client) relogin(ctx context.Context) (SessionToken, error) {
	req, ok := c.creds.load()
	if !ok {
		return SessionToken{}, ErrLoginRequired
	}

	token, err := c.performLogin(ctx, req)
	if RequiresReauthentication(err) {
		// The stored credentials no longer work.
		c.creds.forget()
	}
	return token, err
}

// Register creates a player account. When the backend signs the new player in,
// the returned session becomes current; otherwise the state is unchanged.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	resp, err := Do[RegisterResponse](ctx, c.conn, RequestSpec{
		Operation: "register",
		Method:    http.MethodPut,
		Path:      pathRegister,
		Body:      req,
	})
	if err != nil {
		return nil, err
	}

	if token, ok := resp.Session(); ok {
		c.auth.install(token, func(SessionToken) {
			c.creds.store(LoginRequest{Username: req.Username, Password: req.Password})
		})
	}
	return &resp, nil
}

// Logout ends sessionID on the backend. The session is sent explicitly so any
// session can be ended, not just the current one. When sessionID is the
// current session it is also cleared locally, including when the backend
// reports it as already gone.
func (c *Client) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return invalid(errors.New("session id is required"))
	}

	header := make(http.Header)
	header.Set(HeaderSessionID, sessionID)

	err := c.conn.Execute(ctx, RequestSpec{
		Operation: "logout",
		Method:    http.MethodDelete,
		Path:      pathSession,
		Header:    header,
	}, nil)

	if err == nil || RequiresReauthentication(err) {
		if current, ok := c.auth.CurrentToken(); ok && current.SessionID == sessionID {
			c.auth.clearIfCurrent(current)
			c.creds.forget()
		}
	}
	return err
}

// LogoutCurrent ends the current session.
func (c *Client) LogoutCurrent(ctx context.Context) error {
	sessionID, ok := c.auth.Token()
	if !ok {
		return ErrLoginRequired
	}
	return c.Logout(ctx, sessionID)
}

// GetBalance reads the wallet balance of playerID.
func (c *Client) GetBalance(ctx context.Context, playerID string) (*Balance, error) {
	if playerID == "" {
		return nil, invalid(errMissingPlayerID)
	}

	balance, err := Do[Balance](ctx, c.conn, RequestSpec{
		Operation:    "balance",
		Method:       http.MethodGet,
		Path:         playerPath(playerID, "balance"),
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetProfile reads the account data of playerID.
func (c *Client) GetProfile(ctx context.Context, playerID string) (*Profile, error) {
	if playerID == "" {
		return nil, invalid(errMissingPlayerID)
	}

	profile, err := Do[Profile](ctx, c.conn, RequestSpec{
		Operation:    "profile",
		Method:       http.MethodGet,
		Path:         playerPath(playerID, "profile"),
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
