package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories are exposed as
// methods so a Tx-scoped Store can hand out the same repositories without
// allowing transactions within transactions.
type Store interface {
	Players() Players
	Sessions() Sessions
	Wallets() Wallets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. It commits when fn returns nil
	// and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Players interface {
	GetPlayerByID(ctx context.Context, id string) (domain.Player, error)

	// GetPlayerByUsername is used during login. Usernames are matched case-insensitively.
	GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error)

	// CreatePlayer inserts a new player. Returns ErrAlreadyExists when the
	// username or email is taken.
	CreatePlayer(ctx context.Context, p domain.Player) error

	SetBlocked(ctx context.Context, playerID string, blocked bool) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByHash returns the session by its fingerprint.
	GetSessionByHash(ctx context.Context, hash string) (domain.Session, error)

	// DeleteSession removes a session on logout. Deleting an unknown session is ErrNotFound.
	DeleteSession(ctx context.Context, hash string) error

	// RevokeSession marks a session revoked. Revoking an unknown session is ErrNotFound.
	RevokeSession(ctx context.Context, hash string) error

	// RevokePlayerSessions revokes every live session of a player.
	RevokePlayerSessions(ctx context.Context, playerID string) error

	// DeleteExpiredSessions removes sessions that expired before the given time.
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type Wallets interface {
	CreateWallet(ctx context.Context, w domain.Wallet) error
	GetWallet(ctx context.Context, playerID string) (domain.Wallet, error)

	// Credit adds to the real and bonus balances.
	Credit(ctx context.Context, playerID string, realMinor, bonusMinor int64) error
}
