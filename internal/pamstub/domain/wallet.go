package domain

import "time"

// Wallet amounts are in minor units (cents).
type Wallet struct {
	PlayerID   string
	Currency   string
	RealMinor  int64
	BonusMinor int64
	UpdatedAt  time.Time
}

func (w Wallet) TotalMinor() int64 { return w.RealMinor + w.BonusMinor }

// MinorToMajor converts minor units to the decimal amount sent on the wire.
func MinorToMajor(v int64) float64 { return float64(v) / 100 }
