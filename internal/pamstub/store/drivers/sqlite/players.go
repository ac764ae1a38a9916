package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
)

const birthDateLayout = "2006-01-02"

const playerColumns = `id, username, email, password_hash, first_name, last_name, birth_date,
	mobile_prefix, mobile_number, country, currency,
	consent_terms, consent_email_marketing, consent_sms, consent_third_party,
	has_to_accept_tc, has_to_set_pass, blocked, created_at, updated_at`

type playersRepo struct {
	db dbtx
}

func (r *playersRepo) GetPlayerByID(ctx context.Context, id string) (domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

func (r *playersRepo) GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE username = ?`, username)
	return scanPlayer(row)
}

func (r *playersRepo) CreatePlayer(ctx context.Context, p domain.Player) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Username, p.Email, p.PasswordHash, p.FirstName, p.LastName,
		p.BirthDate.Format(birthDateLayout),
		p.MobilePrefix, p.MobileNumber, p.Country, p.Currency,
		p.ConsentTerms, p.ConsentEmailMarketing, p.ConsentSMS, p.ConsentThirdParty,
		p.HasToAcceptTC, p.HasToSetPass, p.Blocked,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *playersRepo) SetBlocked(ctx context.Context, playerID string, blocked bool) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE players SET blocked = ?, updated_at = ? WHERE id = ?`,
		blocked, toMillis(time.Now()), playerID,
	))
}

func scanPlayer(row *sql.Row) (domain.Player, error) {
	var (
		p                    domain.Player
		birth                string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &birth,
		&p.MobilePrefix, &p.MobileNumber, &p.Country, &p.Currency,
		&p.ConsentTerms, &p.ConsentEmailMarketing, &p.ConsentSMS, &p.ConsentThirdParty,
		&p.HasToAcceptTC, &p.HasToSetPass, &p.Blocked, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Player{}, mapNotFound(err)
	}

	p.BirthDate, err = time.Parse(birthDateLayout, birth)
	if err != nil {
		return domain.Player{}, err
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
