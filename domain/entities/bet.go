package entities

import (
	"fmt"
	"strings"
	"time"
)

// BetType represents a matka bet category
type BetType string

const (
	BetTypeSingle      BetType = "single"
	BetTypeJodi        BetType = "jodi"
	BetTypeSinglePanna BetType = "single_panna"
	BetTypeDoublePanna BetType = "double_panna"
	BetTypeTriplePanna BetType = "triple_panna"
	BetTypeHalfSangam  BetType = "half_sangam"
	BetTypeFullSangam  BetType = "full_sangam"
)

// Canonical fallback multipliers, used only when the owning bazaar carries no
// override for the bet type. The source platforms disagree on several of
// these literals; the per-bazaar table is the authoritative value.
var fallbackMultipliers = map[BetType]int64{
	BetTypeSingle:      9,
	BetTypeJodi:        90,
	BetTypeSinglePanna: 140,
	BetTypeDoublePanna: 280,
	BetTypeTriplePanna: 600,
	BetTypeHalfSangam:  1000,
	BetTypeFullSangam:  10000,
}

// IsValid returns true if the bet type is a known category
func (bt BetType) IsValid() bool {
	_, ok := fallbackMultipliers[bt]
	return ok
}

// FallbackMultiplier returns the canonical default multiplier for the type
func (bt BetType) FallbackMultiplier() (int64, error) {
	m, ok := fallbackMultipliers[bt]
	if !ok {
		return 0, fmt.Errorf("bet type %q: %w", bt, ErrUnsupportedBetType)
	}
	return m, nil
}

// BetStatus represents the lifecycle state of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusCancelled BetStatus = "cancelled"
	BetStatusRefunded  BetStatus = "refunded"
)

// IsTerminal returns true if no further transition is allowed from the status
func (bs BetStatus) IsTerminal() bool {
	return bs == BetStatusWon || bs == BetStatusLost ||
		bs == BetStatusCancelled || bs == BetStatusRefunded
}

// Bet represents a single wager on a bazaar session. Bets are append-only:
// they are never deleted, only status-transitioned, and settle exactly once.
type Bet struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`
	BazaarID     int64      `db:"bazaar_id"`
	BetDate      time.Time  `db:"bet_date"`
	Type         BetType    `db:"bet_type"`
	Number       string     `db:"number"`
	Stake        int64      `db:"stake"`
	PotentialWin int64      `db:"potential_win"`
	Status       BetStatus  `db:"status"`
	WinAmount    int64      `db:"win_amount"`
	ResultID     *int64     `db:"result_id"`
	PlacedAt     time.Time  `db:"placed_at"`
	SettledAt    *time.Time `db:"settled_at"`
}

// IsPending returns true if the bet is still awaiting settlement
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// CanCancel reports whether the bet may still be cancelled at the given
// instant: only pending bets, and only within the cancellation window from
// placement.
func (b *Bet) CanCancel(now time.Time, window time.Duration) bool {
	return b.IsPending() && now.Sub(b.PlacedAt) <= window
}

// NetProfit returns the net gain or loss once the bet is settled
func (b *Bet) NetProfit() int64 {
	if b.Status == BetStatusWon {
		return b.WinAmount - b.Stake
	}
	if b.Status == BetStatusLost {
		return -b.Stake
	}
	return 0
}

// ValidateNumber checks that the wagered number is well-formed for the bet
// type. Panna classes additionally require the digit pattern matching their
// name: all distinct for single panna, exactly one pair for double, all equal
// for triple.
func (b *Bet) ValidateNumber() error {
	switch b.Type {
	case BetTypeSingle:
		if !isDigits(b.Number, 1) {
			return fmt.Errorf("single bet number %q must be one digit: %w", b.Number, ErrValidation)
		}
	case BetTypeJodi:
		if !isDigits(b.Number, 2) {
			return fmt.Errorf("jodi bet number %q must be two digits: %w", b.Number, ErrValidation)
		}
	case BetTypeSinglePanna:
		if !IsSinglePanna(b.Number) {
			return fmt.Errorf("number %q is not a single panna: %w", b.Number, ErrValidation)
		}
	case BetTypeDoublePanna:
		if !IsDoublePanna(b.Number) {
			return fmt.Errorf("number %q is not a double panna: %w", b.Number, ErrValidation)
		}
	case BetTypeTriplePanna:
		if !IsTriplePanna(b.Number) {
			return fmt.Errorf("number %q is not a triple panna: %w", b.Number, ErrValidation)
		}
	case BetTypeHalfSangam:
		panna, digit, ok := SplitHalfSangam(b.Number)
		if !ok || !isDigits(panna, 3) || !isDigits(digit, 1) {
			return fmt.Errorf("half sangam number %q must be of form PPP-D: %w", b.Number, ErrValidation)
		}
	case BetTypeFullSangam:
		// The encoded number is the sum of the two pannas, 0 through 1998.
		if len(b.Number) < 1 || len(b.Number) > 4 || !isDigits(b.Number, len(b.Number)) {
			return fmt.Errorf("full sangam number %q must be the panna sum: %w", b.Number, ErrValidation)
		}
	default:
		return fmt.Errorf("bet type %q: %w", b.Type, ErrUnsupportedBetType)
	}
	return nil
}

// IsSinglePanna reports whether s is a 3-digit number with all digits distinct
func IsSinglePanna(s string) bool {
	return isDigits(s, 3) && s[0] != s[1] && s[1] != s[2] && s[0] != s[2]
}

// IsDoublePanna reports whether s is a 3-digit number with exactly one
// repeated digit
func IsDoublePanna(s string) bool {
	if !isDigits(s, 3) {
		return false
	}
	pairs := 0
	if s[0] == s[1] {
		pairs++
	}
	if s[1] == s[2] {
		pairs++
	}
	if s[0] == s[2] {
		pairs++
	}
	return pairs == 1
}

// IsTriplePanna reports whether s is a 3-digit number with all digits equal
func IsTriplePanna(s string) bool {
	return isDigits(s, 3) && s[0] == s[1] && s[1] == s[2]
}

// SplitHalfSangam splits a "PPP-D" or "D-PPP" half sangam number into its
// panna and single-digit parts. The second return is the digit side.
func SplitHalfSangam(s string) (panna string, digit string, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	if len(parts[0]) == 3 && len(parts[1]) == 1 {
		return parts[0], parts[1], true
	}
	if len(parts[0]) == 1 && len(parts[1]) == 3 {
		return parts[1], parts[0], true
	}
	return "", "", false
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
