package testutil

import (
	"time"

	"matka/domain/entities"
)

// CreateTestBazaar creates an active bazaar with default bounds
func CreateTestBazaar(name string) *entities.Bazaar {
	return &entities.Bazaar{
		Name:      name,
		OpenTime:  "09:00",
		CloseTime: "21:00",
		Status:    entities.BazaarStatusActive,
		MinBet:    entities.DefaultMinBet,
		MaxBet:    entities.DefaultMaxBet,
	}
}

// CreateTestBet creates a pending single-digit bet on the given bazaar session
func CreateTestBet(userID, bazaarID int64, date time.Time) *entities.Bet {
	return &entities.Bet{
		UserID:       userID,
		BazaarID:     bazaarID,
		BetDate:      date,
		Type:         entities.BetTypeSingle,
		Number:       "6",
		Stake:        10,
		PotentialWin: 90,
		Status:       entities.BetStatusPending,
	}
}

// CreateTestResult creates a canonical result declaration for a session
func CreateTestResult(bazaarID int64, date time.Time) *entities.GameResult {
	return &entities.GameResult{
		BazaarID:   bazaarID,
		ResultDate: date,
		Open:       "123",
		Close:      "456",
		Jodi:       entities.DeriveJodi("123", "456"),
	}
}
