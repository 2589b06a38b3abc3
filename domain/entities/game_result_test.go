package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameResult_Digits(t *testing.T) {
	result := &GameResult{Open: "123", Close: "456"}
	assert.Equal(t, "3", result.OpenDigit())
	assert.Equal(t, "6", result.CloseDigit())
}

func TestGameResult_PannaSum(t *testing.T) {
	result := &GameResult{Open: "123", Close: "456"}
	assert.Equal(t, 579, result.PannaSum())

	low := &GameResult{Open: "001", Close: "008"}
	assert.Equal(t, 9, low.PannaSum())

	max := &GameResult{Open: "999", Close: "999"}
	assert.Equal(t, 1998, max.PannaSum())
}

func TestDeriveJodi(t *testing.T) {
	tests := []struct {
		open  string
		close string
		want  string
	}{
		// 1+2+3=6, 4+5+6=15%10=5
		{"123", "456", "65"},
		{"000", "000", "00"},
		// 9+9+9=27%10=7
		{"999", "999", "77"},
		{"100", "550", "10"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveJodi(tt.open, tt.close),
			"jodi for %s/%s", tt.open, tt.close)
	}
}
