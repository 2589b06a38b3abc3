package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validBazaar() *Bazaar {
	return &Bazaar{
		Name:      "Kalyan",
		OpenTime:  "09:00",
		CloseTime: "21:00",
		Status:    BazaarStatusActive,
		MinBet:    DefaultMinBet,
		MaxBet:    DefaultMaxBet,
	}
}

func TestBazaar_Validate(t *testing.T) {
	assert.NoError(t, validBazaar().Validate())

	noName := validBazaar()
	noName.Name = ""
	assert.ErrorIs(t, noName.Validate(), ErrValidation)

	badOpen := validBazaar()
	badOpen.OpenTime = "9am"
	assert.ErrorIs(t, badOpen.Validate(), ErrValidation)

	inverted := validBazaar()
	inverted.OpenTime = "21:00"
	inverted.CloseTime = "09:00"
	assert.ErrorIs(t, inverted.Validate(), ErrValidation)

	badBounds := validBazaar()
	badBounds.MinBet = 100
	badBounds.MaxBet = 10
	assert.ErrorIs(t, badBounds.Validate(), ErrValidation)

	badOverride := validBazaar()
	badOverride.Multipliers = map[BetType]int64{"roulette": 2}
	assert.ErrorIs(t, badOverride.Validate(), ErrUnsupportedBetType)
}

func TestBazaar_BettingCutoff(t *testing.T) {
	bazaar := validBazaar()
	date := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cutoff := bazaar.BettingCutoff(date, 5*time.Minute)
	assert.Equal(t, time.Date(2026, 3, 15, 20, 55, 0, 0, time.UTC), cutoff)

	assert.Equal(t, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), bazaar.OpenAt(date))
	assert.Equal(t, time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC), bazaar.CloseAt(date))
}

func TestBazaar_MultiplierFor(t *testing.T) {
	bazaar := validBazaar()

	m, err := bazaar.MultiplierFor(BetTypeJodi)
	assert.NoError(t, err)
	assert.Equal(t, int64(90), m)

	bazaar.Multipliers = map[BetType]int64{BetTypeJodi: 95}
	m, err = bazaar.MultiplierFor(BetTypeJodi)
	assert.NoError(t, err)
	assert.Equal(t, int64(95), m)

	_, err = bazaar.MultiplierFor(BetType("roulette"))
	assert.ErrorIs(t, err, ErrUnsupportedBetType)
}

func TestBazaar_ValidateStake(t *testing.T) {
	bazaar := validBazaar()

	assert.NoError(t, bazaar.ValidateStake(10))
	assert.NoError(t, bazaar.ValidateStake(100000))
	assert.ErrorIs(t, bazaar.ValidateStake(9), ErrInvalidAmount)
	assert.ErrorIs(t, bazaar.ValidateStake(100001), ErrInvalidAmount)
}
