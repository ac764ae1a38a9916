package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/pamconnect/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(" " + id.String() + " ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	for _, bad := range []string{"", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err = idx.Parse(bad)
		require.ErrorIs(t, err, idx.ErrInvalid, bad)
	}
}

func TestSource_IncreasesWithinOneMillisecond(t *testing.T) {
	t.Parallel()

	frozen := time.UnixMilli(1700000000000).UTC()
	src := idx.NewSource(func() time.Time { return frozen })

	prev := src.Next()
	for range 50 {
		next := src.Next()
		require.Less(t, prev.String(), next.String())
		require.True(t, frozen.Equal(next.Time()))
		prev = next
	}
}

func TestTimeOfInvalidID(t *testing.T) {
	t.Parallel()

	require.True(t, idx.Zero.Time().IsZero())
	require.True(t, idx.ID("nope").Time().IsZero())
}

func TestPrefixed(t *testing.T) {
	t.Parallel()

	id, err := idx.Parse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
	require.NoError(t, err)

	p := id.Prefixed("player")
	require.True(t, strings.HasPrefix(p, "player-"))
	require.Equal(t, strings.ToLower(p), p)
	require.Len(t, p, len("player-")+26)
	require.Empty(t, idx.Zero.Prefixed("player"))

	back, err := idx.ParsePrefixed(p, "player")
	require.NoError(t, err)
	require.Equal(t, id, back)

	require.NotEqual(t, idx.NewPrefixed("player"), idx.NewPrefixed("player"))
}

func TestParsePrefixed_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"wrong prefix", "wallet-01hq7t3z1mz0jq3m6mzq1fq3zv"},
		{"missing separator", "player01hq7t3z1mz0jq3m6mzq1fq3zv"},
		{"short body", "player-01hq7t3z"},
		{"outside alphabet", "player-01hq7t3z1mz0jq3m6mzq1fq3zu"},
		{"legacy numeric", "player-123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := idx.ParsePrefixed(tt.input, "player")
			require.ErrorIs(t, err, idx.ErrInvalid)
		})
	}
}
