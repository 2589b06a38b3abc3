package entities

import (
	"strconv"
	"time"
)

// GameResult is an immutable result declaration for one bazaar session.
// Open and close are canonical 3-digit panna strings; jodi is derived at
// declaration time and stored alongside. At most one result may exist per
// (bazaar, date), and a declared result is never edited: corrections are a
// product decision modeled as new declarations, not in-place mutation.
type GameResult struct {
	ID         int64     `db:"id"`
	BazaarID   int64     `db:"bazaar_id"`
	ResultDate time.Time `db:"result_date"`
	Open       string    `db:"open_panna"`
	Close      string    `db:"close_panna"`
	Jodi       string    `db:"jodi"`
	DeclaredAt time.Time `db:"declared_at"`
}

// OpenDigit returns the single digit drawn from the open panna (value mod 10)
func (r *GameResult) OpenDigit() string {
	return lastDigit(r.Open)
}

// CloseDigit returns the single digit drawn from the close panna
func (r *GameResult) CloseDigit() string {
	return lastDigit(r.Close)
}

// OpenValue returns the open panna as an integer
func (r *GameResult) OpenValue() int {
	v, _ := strconv.Atoi(r.Open)
	return v
}

// CloseValue returns the close panna as an integer
func (r *GameResult) CloseValue() int {
	v, _ := strconv.Atoi(r.Close)
	return v
}

// PannaSum returns the sum of the open and close panna values, the quantity a
// full sangam bet wagers on
func (r *GameResult) PannaSum() int {
	return r.OpenValue() + r.CloseValue()
}

// DeriveJodi computes the two-digit jodi from canonical open and close
// pannas: the digit sum of each side, mod 10, concatenated.
func DeriveJodi(open, close string) string {
	return strconv.Itoa(digitSumMod10(open)) + strconv.Itoa(digitSumMod10(close))
}

func digitSumMod10(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i] - '0')
	}
	return sum % 10
}

func lastDigit(s string) string {
	if s == "" {
		return ""
	}
	return s[len(s)-1:]
}
