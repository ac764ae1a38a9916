package pamsdk

import (
	"github.com/aussiebroadwan/pamconnect/pkg/cryptox"
)

// SessionToken represents an authenticated player session as issued by the PAM
// backend on login or registration.
//
// It is a value type: copies are independent and a token never changes once
// constructed. Two tokens are the same session when Equal reports true; the
// follow-up flags are informational only.
type SessionToken struct {
	// SessionID is the opaque session value sent as X-SessionId on every
	// authenticated call.
	SessionID string `json:"sessionID"`

	// UniversalID identifies the player account and is stable across sessions.
	UniversalID string `json:"universalID"`

	// HasToAcceptTC is set when the backend requires the player to accept new
	// terms and conditions before continuing.
	HasToAcceptTC bool `json:"hasToAcceptTC"`

	// HasToSetPass is set when the backend requires the player to choose a new
	// password before continuing.
	HasToSetPass bool `json:"hasToSetPass"`
}

// NewSessionToken creates a token with both follow-up flags cleared.
func NewSessionToken(sessionID, universalID string) SessionToken {
	return SessionToken{
		SessionID:   sessionID,
		UniversalID: universalID,
	}
}

// Equal reports whether t and other describe the same session.
// Only SessionID and UniversalID take part in the comparison.
func (t SessionToken) Equal(other SessionToken) bool {
	return t.SessionID == other.SessionID && t.UniversalID == other.UniversalID
}

// IsZero reports whether the token carries no session.
func (t SessionToken) IsZero() bool {
	return t.SessionID == ""
}

// RequiresAction reports whether the backend asked for a follow-up step.
func (t SessionToken) RequiresAction() bool {
	return t.HasToAcceptTC || t.HasToSetPass
}

// Fingerprint returns a short, non-reversible identifier for the session that
// is safe to put in logs.
func (t SessionToken) Fingerprint() string {
	return fingerprint(t.SessionID)
}

func fingerprint(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return cryptox.FingerprintToken(sessionID)[:12]
}
