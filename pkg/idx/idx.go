package idx

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in its canonical 26 character form. Request ids travel in this
// form; player ids use the prefixed rendering from Prefixed.
type ID string

// Zero is the empty ID.
const Zero ID = ""

// ErrInvalid reports a malformed identifier.
var ErrInvalid = errors.New("idx: invalid id")

// lowerCrockford is Crockford base32 in lowercase, the alphabet of prefixed ids.
var lowerCrockford = base32.NewEncoding("0123456789abcdefghjkmnpqrstvwxyz").WithPadding(base32.NoPadding)

// Source hands out strictly increasing IDs. It is safe for concurrent use.
type Source struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewSource creates a Source reading time from now. A nil now uses the wall
// clock.
func NewSource(now func() time.Time) *Source {
	if now == nil {
		now = time.Now
	}
	return &Source{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next returns the next ID. IDs minted within the same millisecond keep
// increasing through the monotonic entropy.
func (s *Source) Next() ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String())
}

var defaultSource = sync.OnceValue(func() *Source { return NewSource(nil) })

// New returns an ID from the process wide Source.
func New() ID {
	return defaultSource().Next()
}

// NewPrefixed is New().Prefixed(prefix).
func NewPrefixed(prefix string) string {
	return New().Prefixed(prefix)
}

// Parse validates s as a canonical ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

// ParsePrefixed is the inverse of Prefixed: it accepts "<prefix>-<id>" and
// returns the ID it was rendered from.
func ParsePrefixed(s, prefix string) (ID, error) {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok {
		return Zero, ErrInvalid
	}

	raw, err := lowerCrockford.DecodeString(rest)
	if err != nil || len(raw) != len(ulid.ULID{}) {
		return Zero, ErrInvalid
	}

	var u ulid.ULID
	copy(u[:], raw)
	return ID(u.String()), nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Time is the millisecond timestamp embedded in id, or the zero time when id
// is not a valid ULID.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// Prefixed renders id as "<prefix>-<lowercase base32>", for example
// "player-01hq7t3z1mz0jq3m6mzq1fq3zv". Invalid IDs render as "".
func (id ID) Prefixed(prefix string) string {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return ""
	}
	return prefix + "-" + lowerCrockford.EncodeToString(u[:])
}
