package httpx

import "context"

type ctxKey string

const (
	CtxKeyPlayerID  ctxKey = "player_id"
	CtxKeySessionID ctxKey = "session_id"
)

// PlayerIDFromContext returns the player bound to the request's session.
func PlayerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyPlayerID).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext returns the session presented with the request.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySessionID).(string); ok {
		return v
	}
	return ""
}

func contextWithSession(ctx context.Context, sessionID, playerID string) context.Context {
	ctx = context.WithValue(ctx, CtxKeySessionID, sessionID)
	ctx = context.WithValue(ctx, CtxKeyPlayerID, playerID)
	return ctx
}
