package pamsdk

import "fmt"

// StateKind enumerates the phases of the session lifecycle.
type StateKind int

const (
	StateInitial StateKind = iota
	StateAuthenticating
	StateAuthenticated
	StateUnauthenticated
)

func (k StateKind) String() string {
	switch k {
	case StateInitial:
		return "initial"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// AuthenticationState is a snapshot of the Authenticator's lifecycle.
// Token is only meaningful when Kind is StateAuthenticated.
type AuthenticationState struct {
	Kind  StateKind
	Token SessionToken
}

var (
	initialState         = AuthenticationState{Kind: StateInitial}
	authenticatingState  = AuthenticationState{Kind: StateAuthenticating}
	unauthenticatedState = AuthenticationState{Kind: StateUnauthenticated}
)

// Authenticated builds the authenticated(token) state.
func Authenticated(token SessionToken) AuthenticationState {
	return AuthenticationState{Kind: StateAuthenticated, Token: token}
}

// Initial, Authenticating and Unauthenticated return the payload-free states.
func Initial() AuthenticationState         { return initialState }
func Authenticating() AuthenticationState  { return authenticatingState }
func Unauthenticated() AuthenticationState { return unauthenticatedState }

// IsAuthenticated reports whether the state carries a usable session.
func (s AuthenticationState) IsAuthenticated() bool {
	return s.Kind == StateAuthenticated
}

// Equal compares kinds and, for authenticated states, the session identity.
func (s AuthenticationState) Equal(other AuthenticationState) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.Kind == StateAuthenticated {
		return s.Token.Equal(other.Token)
	}
	return true
}

func (s AuthenticationState) String() string {
	if s.Kind == StateAuthenticated {
		return fmt.Sprintf("authenticated(%s)", s.Token.Fingerprint())
	}
	return s.Kind.String()
}
