package domain

import "time"

type Player struct {
	ID           string // "player-" prefixed ULID, exposed as universalID
	Username     string
	Email        string
	PasswordHash string // argon2 encoded
	FirstName    string
	LastName     string
	BirthDate    time.Time
	MobilePrefix string
	MobileNumber string
	Country      string // ISO 3166-1 alpha-2
	Currency     string // ISO 4217

	ConsentTerms          bool
	ConsentEmailMarketing bool
	ConsentSMS            bool
	ConsentThirdParty     bool

	HasToAcceptTC bool
	HasToSetPass  bool
	Blocked       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
