package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
)

type walletsRepo struct {
	db dbtx
}

func (r *walletsRepo) CreateWallet(ctx context.Context, w domain.Wallet) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO wallets
		(player_id, currency, real_minor, bonus_minor, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		w.PlayerID, w.Currency, w.RealMinor, w.BonusMinor, toMillis(w.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *walletsRepo) GetWallet(ctx context.Context, playerID string) (domain.Wallet, error) {
	var (
		w         domain.Wallet
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT player_id, currency, real_minor, bonus_minor, updated_at
		FROM wallets WHERE player_id = ?`, playerID,
	).Scan(&w.PlayerID, &w.Currency, &w.RealMinor, &w.BonusMinor, &updatedAt)
	if err != nil {
		return domain.Wallet{}, mapNotFound(err)
	}
	w.UpdatedAt = fromMillis(updatedAt)
	return w, nil
}

func (r *walletsRepo) Credit(ctx context.Context, playerID string, realMinor, bonusMinor int64) error {
	return requireAffected(r.db.ExecContext(ctx, `UPDATE wallets
		SET real_minor = real_minor + ?, bonus_minor = bonus_minor + ?, updated_at = ?
		WHERE player_id = ?`,
		realMinor, bonusMinor, toMillis(time.Now()), playerID,
	))
}
