package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
	"github.com/aussiebroadwan/pamconnect/internal/pamstub/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore("file:" + filepath.Join(t.TempDir(), "pam.db") + "?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testPlayer(id, username string) domain.Player {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Player{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		FirstName:    "Jo",
		LastName:     "Bit",
		BirthDate:    time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
		MobilePrefix: "+33",
		MobileNumber: "612345678",
		Country:      "FR",
		Currency:     "EUR",
		ConsentTerms: true,
		ConsentSMS:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	p := testPlayer("player-01", "jobit11000")
	require.NoError(t, s.Players().CreatePlayer(ctx, p))

	t.Run("get by id", func(t *testing.T) {
		got, err := s.Players().GetPlayerByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p, got)
	})

	t.Run("username is case insensitive", func(t *testing.T) {
		got, err := s.Players().GetPlayerByUsername(ctx, "JoBit11000")
		require.NoError(t, err)
		require.Equal(t, p.ID, got.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := testPlayer("player-02", "jobit11000")
		dup.Email = "other@example.com"
		err := s.Players().CreatePlayer(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Players().GetPlayerByID(ctx, "player-missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Players().SetBlocked(ctx, "player-missing", true), store.ErrNotFound)
	})
}

func TestSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Players().CreatePlayer(ctx, testPlayer("player-01", "jobit11000")))

	now := time.Now().UTC().Truncate(time.Millisecond)
	live := domain.Session{ID: "s1", TokenHash: "hash-live", PlayerID: "player-01", ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now}
	old := domain.Session{ID: "s2", TokenHash: "hash-old", PlayerID: "player-01", ExpiresAt: now.Add(-time.Hour), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, old))

	got, err := s.Sessions().GetSessionByHash(ctx, "hash-live")
	require.NoError(t, err)
	require.Equal(t, live, got)
	require.False(t, got.Expired(now))

	require.NoError(t, s.Sessions().RevokeSession(ctx, "hash-live"))
	got, err = s.Sessions().GetSessionByHash(ctx, "hash-live")
	require.NoError(t, err)
	require.True(t, got.Revoked)
	require.ErrorIs(t, s.Sessions().RevokeSession(ctx, "hash-missing"), store.ErrNotFound)

	require.NoError(t, s.Sessions().DeleteSession(ctx, "hash-live"))
	require.ErrorIs(t, s.Sessions().DeleteSession(ctx, "hash-live"), store.ErrNotFound)

	n, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.Sessions().GetSessionByHash(ctx, "hash-old")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessions_UnknownPlayerViolatesForeignKey(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Now()
	err := s.Sessions().CreateSession(context.Background(), domain.Session{
		ID: "s1", TokenHash: "h", PlayerID: "player-ghost", ExpiresAt: now, CreatedAt: now, UpdatedAt: now,
	})
	require.Error(t, err)
}

func TestWallets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Players().CreatePlayer(ctx, testPlayer("player-01", "jobit11000")))
	require.NoError(t, s.Wallets().CreateWallet(ctx, domain.Wallet{PlayerID: "player-01", Currency: "EUR", UpdatedAt: time.Now()}))

	require.NoError(t, s.Wallets().Credit(ctx, "player-01", 1000, 250))
	w, err := s.Wallets().GetWallet(ctx, "player-01")
	require.NoError(t, err)
	require.Equal(t, int64(1250), w.TotalMinor())
	require.Equal(t, 12.5, domain.MinorToMajor(w.TotalMinor()))

	require.ErrorIs(t, s.Wallets().Credit(ctx, "player-missing", 1, 0), store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Players().CreatePlayer(ctx, testPlayer("player-01", "jobit11000")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Players().GetPlayerByID(ctx, "player-01")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Players().CreatePlayer(ctx, testPlayer("player-01", "jobit11000"))
	}))
	_, err = s.Players().GetPlayerByID(ctx, "player-01")
	require.NoError(t, err)
}
