package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions
		(id, token_hash, player_id, expires_at, revoked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.PlayerID, toMillis(s.ExpiresAt), s.Revoked,
		toMillis(s.CreatedAt), toMillis(s.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByHash(ctx context.Context, hash string) (domain.Session, error) {
	var (
		s                               domain.Session
		expiresAt, createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, token_hash, player_id, expires_at, revoked, created_at, updated_at
		FROM sessions WHERE token_hash = ?`, hash,
	).Scan(&s.ID, &s.TokenHash, &s.PlayerID, &expiresAt, &s.Revoked, &createdAt, &updatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.ExpiresAt = fromMillis(expiresAt)
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updatedAt)
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, hash string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, hash))
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, hash string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1, updated_at = ? WHERE token_hash = ?`,
		toMillis(time.Now()), hash,
	))
}

func (r *sessionsRepo) RevokePlayerSessions(ctx context.Context, playerID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1, updated_at = ? WHERE player_id = ? AND revoked = 0`,
		toMillis(time.Now()), playerID,
	)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, toMillis(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
