package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
	"github.com/aussiebroadwan/pamconnect/internal/pamstub/store"
	"github.com/aussiebroadwan/pamconnect/pkg/cryptox"
	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/aussiebroadwan/pamconnect/pkg/idx"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
)

// DefaultSessionTTL is how long a login stays valid when no TTL is configured.
const DefaultSessionTTL = 30 * time.Minute

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPlayerExists       = errors.New("username or email already registered")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerBlocked      = errors.New("player is blocked")
)

// PlayerService implements the player-facing PAM operations.
type PlayerService struct {
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	SessionTTL time.Duration

	// WelcomeBonusMinor is credited as bonus money to every new wallet.
	WelcomeBonusMinor int64

	// Now is overridable in tests.
	Now func() time.Time
}

// LoginResult is a freshly created session. SessionID is the clear value
// handed to the player; only its fingerprint is stored.
type LoginResult struct {
	SessionID string
	Player    domain.Player
}

func (s *PlayerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *PlayerService) ttl() time.Duration {
	if s.SessionTTL <= 0 {
		return DefaultSessionTTL
	}
	return s.SessionTTL
}

// Register creates a player with an empty wallet and signs them in.
func (s *PlayerService) Register(ctx context.Context, p domain.Player, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	p.ID = idx.NewPrefixed("player")
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	p.PasswordHash = hash
	p.CreatedAt = now
	p.UpdatedAt = now

	var sessionID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Players().CreatePlayer(ctx, p); err != nil {
			return err
		}
		wallet := domain.Wallet{
			PlayerID:   p.ID,
			Currency:   p.Currency,
			BonusMinor: s.WelcomeBonusMinor,
			UpdatedAt:  now,
		}
		if err := tx.Wallets().CreateWallet(ctx, wallet); err != nil {
			return err
		}

		var err error
		sessionID, err = s.createSession(ctx, tx, p.ID)
		return err
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return LoginResult{}, ErrPlayerExists
	}
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("player registered", slog.String("player_id", p.ID))
	return LoginResult{SessionID: sessionID, Player: p}, nil
}

// Login verifies credentials and opens a new session.
func (s *PlayerService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Store.Players().GetPlayerByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Hasher.Verify(password, p.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unreadable", slog.String("player_id", p.ID), slog.Any("error", err))
		}
		return LoginResult{}, ErrInvalidCredentials
	}
	if p.Blocked {
		return LoginResult{}, ErrPlayerBlocked
	}

	sessionID, err := s.createSession(ctx, s.Store, p.ID)
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("player logged in", slog.String("player_id", p.ID))
	return LoginResult{SessionID: sessionID, Player: p}, nil
}

func (s *PlayerService) createSession(ctx context.Context, st store.Store, playerID string) (string, error) {
	sessionID, err := cryptox.GenerateSessionID()
	if err != nil {
		return "", err
	}

	now := s.now()
	err = st.Sessions().CreateSession(ctx, domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(sessionID),
		PlayerID:  playerID,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

// Logout ends a session. Unknown and expired sessions report httpx.ErrSessionUnknown.
func (s *PlayerService) Logout(ctx context.Context, sessionID string) error {
	err := s.Store.Sessions().DeleteSession(ctx, cryptox.FingerprintToken(sessionID))
	if errors.Is(err, store.ErrNotFound) {
		return httpx.ErrSessionUnknown
	}
	return err
}

// VerifySession resolves a session id to its player. Missing or expired
// sessions are httpx.ErrSessionUnknown; revoked sessions and sessions of
// blocked players are httpx.ErrSessionRevoked.
func (s *PlayerService) VerifySession(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.Store.Sessions().GetSessionByHash(ctx, cryptox.FingerprintToken(sessionID))
	if errors.Is(err, store.ErrNotFound) {
		return "", httpx.ErrSessionUnknown
	}
	if err != nil {
		return "", err
	}

	switch {
	case sess.Revoked:
		return "", httpx.ErrSessionRevoked
	case sess.Expired(s.now()):
		return "", httpx.ErrSessionUnknown
	}
	return sess.PlayerID, nil
}

// Profile returns a player's account data.
func (s *PlayerService) Profile(ctx context.Context, playerID string) (domain.Player, error) {
	p, err := s.Store.Players().GetPlayerByID(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Player{}, ErrPlayerNotFound
	}
	return p, err
}

// Balance returns a player's wallet.
func (s *PlayerService) Balance(ctx context.Context, playerID string) (domain.Wallet, error) {
	w, err := s.Store.Wallets().GetWallet(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Wallet{}, ErrPlayerNotFound
	}
	return w, err
}

// Credit adds real and bonus money to a wallet.
func (s *PlayerService) Credit(ctx context.Context, playerID string, realMinor, bonusMinor int64) error {
	err := s.Store.Wallets().Credit(ctx, playerID, realMinor, bonusMinor)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPlayerNotFound
	}
	return err
}

// Block marks a player blocked and revokes their live sessions, so further
// calls with those sessions are rejected with 403.
func (s *PlayerService) Block(ctx context.Context, playerID string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Players().SetBlocked(ctx, playerID, true); err != nil {
			return err
		}
		return tx.Sessions().RevokePlayerSessions(ctx, playerID)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrPlayerNotFound
	}
	if err == nil {
		slogx.FromContext(ctx).Info("player blocked", slog.String("player_id", playerID))
	}
	return err
}
