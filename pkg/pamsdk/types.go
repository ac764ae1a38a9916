package pamsdk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/pamconnect/pkg/cryptox"
)

// ============================================================================
// Login
// ============================================================================

// LoginRequest is the body of POST /v1/player/login/player.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// flightKey identifies the credentials without keeping the password readable.
func (r LoginRequest) flightKey() string {
	return cryptox.FingerprintToken(r.Username + "\x00" + r.Password)
}

// ============================================================================
// Registration
// ============================================================================

// BirthDate is the player's date of birth.
type BirthDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Time returns the date at midnight UTC.
func (b BirthDate) Time() time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether the fields form a real calendar date.
func (b BirthDate) Valid() bool {
	if b.Year < 1900 || b.Month < 1 || b.Month > 12 || b.Day < 1 {
		return false
	}
	t := b.Time()
	return t.Day() == b.Day && int(t.Month()) == b.Month
}

// Mobile is a phone number split into its international prefix and number.
type Mobile struct {
	Prefix string `json:"prefix"`
	Number string `json:"number"`
}

// UserConsents are the opt-ins given at registration.
type UserConsents struct {
	TermsAndConditions bool `json:"termsandconditions"`
	EmailMarketing     bool `json:"emailmarketing"`
	SMS                bool `json:"sms"`
	ThirdParty         bool `json:"3rdparty"`
}

// RegisterRequest is the body of PUT /v1/player/register.
type RegisterRequest struct {
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	Password     string       `json:"password"`
	FirstName    string       `json:"firstname"`
	LastName     string       `json:"lastname"`
	Birth        BirthDate    `json:"birth"`
	Mobile       Mobile       `json:"mobile"`
	Country      string       `json:"country"`
	Currency     string       `json:"currency"`
	UserConsents UserConsents `json:"userConsents"`
}

// Validate performs client-side checks before the request is sent.
func (r RegisterRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if !strings.Contains(r.Email, "@") {
		errs = append(errs, fmt.Errorf("invalid email %q", r.Email))
	}
	if r.Password == "" {
		errs = append(errs, errors.New("password is required"))
	}
	if !r.Birth.Valid() {
		errs = append(errs, errors.New("invalid birth date"))
	}
	if !r.UserConsents.TermsAndConditions {
		errs = append(errs, errors.New("terms and conditions must be accepted"))
	}
	return errors.Join(errs...)
}

// Profile is a registered player's account data.
type Profile struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstname"`
	LastName     string       `json:"lastname"`
	Birth        BirthDate    `json:"birth"`
	Mobile       Mobile       `json:"mobile"`
	Country      string       `json:"country"`
	Currency     string       `json:"currency"`
	UserConsents UserConsents `json:"userConsents"`
}

// RegisterResponse is the created profile. Backends that sign the player in
// on registration also return the session fields.
type RegisterResponse struct {
	Profile

	SessionID     string `json:"sessionID,omitempty"`
	UniversalID   string `json:"universalID,omitempty"`
	HasToAcceptTC bool   `json:"hasToAcceptTC,omitempty"`
	HasToSetPass  bool   `json:"hasToSetPass,omitempty"`
}

// Session returns the session carried by the response, if any.
func (r RegisterResponse) Session() (SessionToken, bool) {
	if r.SessionID == "" {
		return SessionToken{}, false
	}
	universalID := r.UniversalID
	if universalID == "" {
		universalID = r.ID
	}
	return SessionToken{
		SessionID:     r.SessionID,
		UniversalID:   universalID,
		HasToAcceptTC: r.HasToAcceptTC,
		HasToSetPass:  r.HasToSetPass,
	}, true
}

// ============================================================================
// Wallet
// ============================================================================

// Balance is the player's wallet balance in the account currency.
type Balance struct {
	Currency    string  `json:"currency"`
	TotalAmount float64 `json:"totalAmount"`
	RealAmount  float64 `json:"realAmount"`
	BonusAmount float64 `json:"bonusAmount"`
}

// ============================================================================
// Health
// ============================================================================

// HealthChecks reports the status of the backend's dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the backend's liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
