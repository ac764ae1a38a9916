package pamsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Authentication Error Taxonomy
// ============================================================================

// ErrorKind identifies one variant of the closed AuthenticationError set.
type ErrorKind int

const (
	// KindLoginRequired: HTTP 401, no session or the session expired.
	KindLoginRequired ErrorKind = iota + 1
	// KindInvalidToken: HTTP 403, the session was presented and rejected.
	KindInvalidToken
	// KindUnknown: any other non-2xx status.
	KindUnknown
	// KindDecodingFailed: a 2xx body did not match the expected shape.
	KindDecodingFailed
	// KindTransport: no HTTP response was received at all.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoginRequired:
		return "login_required"
	case KindInvalidToken:
		return "invalid_token"
	case KindUnknown:
		return "unknown"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// AuthenticationError is the only error type the Connector produces for a
// request outcome. Two values are equal when Kind, StatusCode and Message
// match, which makes both errors.Is and require.Equal usable in tests.
type AuthenticationError struct {
	Kind ErrorKind

	// StatusCode is the HTTP status that produced the error, 0 for transport
	// and decoding failures.
	StatusCode int

	// Message is the payload of the unknown variant and a fixed description for
	// the others.
	Message string

	// Err is the underlying cause for transport and decoding failures.
	Err error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the transport or decoding cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is matches another *AuthenticationError by variant and payload.
// A transport or decoding target without a cause matches any cause, so
// errors.Is(err, &AuthenticationError{Kind: KindTransport}) works as a kind check.
func (e *AuthenticationError) Is(target error) bool {
	t, ok := target.(*AuthenticationError)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	switch e.Kind {
	case KindTransport, KindDecodingFailed:
		return t.Err == nil || errors.Is(e.Err, t.Err)
	default:
		return e.StatusCode == t.StatusCode && e.Message == t.Message
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrLoginRequired is returned on HTTP 401, or without a network call when
	// an authenticated request has no session and no way to obtain one.
	ErrLoginRequired = &AuthenticationError{
		Kind:       KindLoginRequired,
		StatusCode: http.StatusUnauthorized,
		Message:    "login required",
	}

	// ErrInvalidToken is returned on HTTP 403.
	ErrInvalidToken = &AuthenticationError{
		Kind:       KindInvalidToken,
		StatusCode: http.StatusForbidden,
		Message:    "session token rejected",
	}
)

// UnknownError builds the unknown variant for an unmapped HTTP status.
func UnknownError(statusCode int) *AuthenticationError {
	return &AuthenticationError{
		Kind:       KindUnknown,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("Unknown error: %d", statusCode),
	}
}

// DecodingError builds the decoding variant around the decoder's error.
func DecodingError(err error) *AuthenticationError {
	return &AuthenticationError{
		Kind:    KindDecodingFailed,
		Message: "failed to decode response",
		Err:     err,
	}
}

// TransportError builds the transport variant around a network failure.
func TransportError(err error) *AuthenticationError {
	return &AuthenticationError{
		Kind:    KindTransport,
		Message: "failed to send request",
		Err:     err,
	}
}

// ============================================================================
// Classification Helpers
// ============================================================================

// KindOf returns the variant of err, or 0 when err is not an AuthenticationError.
func KindOf(err error) ErrorKind {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return 0
}

// IsLoginRequired reports whether err is the 401 variant.
func IsLoginRequired(err error) bool { return KindOf(err) == KindLoginRequired }

// IsInvalidToken reports whether err is the 403 variant.
func IsInvalidToken(err error) bool { return KindOf(err) == KindInvalidToken }

// IsDecodingFailed reports whether err is a response contract mismatch.
func IsDecodingFailed(err error) bool { return KindOf(err) == KindDecodingFailed }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// RequiresReauthentication reports whether the session itself was refused,
// meaning the token has already been cleared.
func RequiresReauthentication(err error) bool {
	k := KindOf(err)
	return k == KindLoginRequired || k == KindInvalidToken
}

// IsRetryable reports whether retrying the same call may succeed without a new
// session. Only transport failures qualify; backoff is the caller's concern.
func IsRetryable(err error) bool {
	return IsTransport(err)
}

// ============================================================================
// Backend Error Body
// ============================================================================

// APIError is the JSON error body returned by the PAM backend. The Connector
// only logs it; classification is driven by the status code alone.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// parseAPIError attempts to read an APIError from a non-2xx body.
func parseAPIError(statusCode int, body []byte) *APIError {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Code == "" {
		return nil
	}
	apiErr.StatusCode = statusCode
	return &apiErr
}
