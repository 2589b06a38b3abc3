package services

import (
	"fmt"
	"strings"
	"time"

	"matka/domain/entities"
)

// ResultIntakeService validates and normalizes incoming result declarations
// before the settlement engine acts on them.
type ResultIntakeService struct{}

// NewResultIntakeService creates a new ResultIntakeService
func NewResultIntakeService() *ResultIntakeService {
	return &ResultIntakeService{}
}

// Normalize turns raw open/close values into a GameResult with canonical
// 3-digit pannas and the derived jodi. Raw values may be 1-3 digits and are
// left-padded with zeros.
func (s *ResultIntakeService) Normalize(bazaarID int64, date time.Time, open, close string) (*entities.GameResult, error) {
	openPanna, err := normalizePanna(open)
	if err != nil {
		return nil, fmt.Errorf("open value %q: %w", open, err)
	}
	closePanna, err := normalizePanna(close)
	if err != nil {
		return nil, fmt.Errorf("close value %q: %w", close, err)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("result date is required: %w", entities.ErrMalformedResult)
	}

	return &entities.GameResult{
		BazaarID:   bazaarID,
		ResultDate: truncateToDate(date),
		Open:       openPanna,
		Close:      closePanna,
		Jodi:       entities.DeriveJodi(openPanna, closePanna),
	}, nil
}

func normalizePanna(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if len(v) < 1 || len(v) > 3 {
		return "", entities.ErrMalformedResult
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return "", entities.ErrMalformedResult
		}
	}
	return strings.Repeat("0", 3-len(v)) + v, nil
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
