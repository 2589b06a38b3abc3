package entities

import (
	"fmt"
	"time"
)

// BazaarStatus represents the lifecycle state of a bazaar
type BazaarStatus string

const (
	BazaarStatusActive      BazaarStatus = "active"
	BazaarStatusInactive    BazaarStatus = "inactive"
	BazaarStatusMaintenance BazaarStatus = "maintenance"
)

// Default stake bounds applied when a bazaar is created without overrides.
const (
	DefaultMinBet int64 = 10
	DefaultMaxBet int64 = 100000
)

// Bazaar represents a named game session. Open and close times are
// times-of-day in "15:04" form, interpreted in UTC for each session date.
// Bazaars are never hard-deleted; retirement is a status change.
type Bazaar struct {
	ID          int64              `db:"id"`
	Name        string             `db:"name"`
	OpenTime    string             `db:"open_time"`
	CloseTime   string             `db:"close_time"`
	Status      BazaarStatus       `db:"status"`
	MinBet      int64              `db:"min_bet"`
	MaxBet      int64              `db:"max_bet"`
	Multipliers map[BetType]int64  `db:"multipliers"`
	CreatedAt   time.Time          `db:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

// IsActive returns true if the bazaar is accepting bets
func (b *Bazaar) IsActive() bool {
	return b.Status == BazaarStatusActive
}

// Validate checks the schedule and stake-bound invariants
func (b *Bazaar) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("bazaar name cannot be empty: %w", ErrValidation)
	}
	open, err := parseTimeOfDay(b.OpenTime)
	if err != nil {
		return fmt.Errorf("open time %q: %w", b.OpenTime, ErrValidation)
	}
	close, err := parseTimeOfDay(b.CloseTime)
	if err != nil {
		return fmt.Errorf("close time %q: %w", b.CloseTime, ErrValidation)
	}
	if close <= open {
		return fmt.Errorf("close time must be after open time: %w", ErrValidation)
	}
	if b.MinBet <= 0 || b.MaxBet < b.MinBet {
		return fmt.Errorf("stake bounds [%d, %d] are invalid: %w", b.MinBet, b.MaxBet, ErrValidation)
	}
	for betType := range b.Multipliers {
		if !betType.IsValid() {
			return fmt.Errorf("multiplier override for unknown bet type %q: %w", betType, ErrUnsupportedBetType)
		}
	}
	return nil
}

// OpenAt returns the absolute opening time of the session on the given date
func (b *Bazaar) OpenAt(date time.Time) time.Time {
	return atTimeOfDay(date, b.OpenTime)
}

// CloseAt returns the absolute closing time of the session on the given date
func (b *Bazaar) CloseAt(date time.Time) time.Time {
	return atTimeOfDay(date, b.CloseTime)
}

// BettingCutoff returns the last instant a bet may be placed for the session
// on the given date: close time minus the grace window.
func (b *Bazaar) BettingCutoff(date time.Time, grace time.Duration) time.Time {
	return b.CloseAt(date).Add(-grace)
}

// MultiplierFor resolves the payout multiplier for a bet type, preferring the
// bazaar's configured table over the canonical fallback.
func (b *Bazaar) MultiplierFor(betType BetType) (int64, error) {
	if m, ok := b.Multipliers[betType]; ok && m > 0 {
		return m, nil
	}
	return betType.FallbackMultiplier()
}

// ValidateStake checks the stake against the bazaar's bounds
func (b *Bazaar) ValidateStake(stake int64) error {
	if stake < b.MinBet || stake > b.MaxBet {
		return fmt.Errorf("stake %d outside [%d, %d]: %w", stake, b.MinBet, b.MaxBet, ErrInvalidAmount)
	}
	return nil
}

// parseTimeOfDay parses "15:04" into minutes since midnight
func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// atTimeOfDay anchors a "15:04" time-of-day onto a date in UTC. The string is
// assumed valid; Validate rejects bazaars with unparseable schedules.
func atTimeOfDay(date time.Time, timeOfDay string) time.Time {
	minutes, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}
	}
	year, month, day := date.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}
