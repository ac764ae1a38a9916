package domain

import "time"

// Session is a player login. The clear session id is only ever returned to
// the player; the store keeps its fingerprint.
type Session struct {
	ID        string
	TokenHash string
	PlayerID  string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
