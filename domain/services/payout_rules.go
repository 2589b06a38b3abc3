package services

import (
	"fmt"
	"strconv"

	"matka/domain/entities"
)

// PayoutRuleService contains the pure numeric rules mapping a bet and a
// declared result to a verdict. It performs no I/O; multipliers come from the
// owning bazaar's table with canonical fallbacks.
type PayoutRuleService struct{}

// NewPayoutRuleService creates a new PayoutRuleService
func NewPayoutRuleService() *PayoutRuleService {
	return &PayoutRuleService{}
}

// Evaluate computes the verdict for one bet against a declared result. The
// payout for a winning bet is the bet's fixed potential win, computed from
// the multiplier at placement time and never recomputed here; the multiplier
// is resolved again only to report it in the verdict.
func (s *PayoutRuleService) Evaluate(bet *entities.Bet, result *entities.GameResult, bazaar *entities.Bazaar) (*entities.Verdict, error) {
	if len(result.Open) != 3 || len(result.Close) != 3 {
		return nil, fmt.Errorf("result %q/%q not in canonical form: %w", result.Open, result.Close, entities.ErrMalformedResult)
	}

	won, err := s.isWinning(bet, result)
	if err != nil {
		return nil, err
	}

	multiplier, err := bazaar.MultiplierFor(bet.Type)
	if err != nil {
		return nil, err
	}

	verdict := &entities.Verdict{Won: won, Multiplier: multiplier}
	if won {
		verdict.Payout = bet.PotentialWin
	}
	return verdict, nil
}

func (s *PayoutRuleService) isWinning(bet *entities.Bet, result *entities.GameResult) (bool, error) {
	switch bet.Type {
	case entities.BetTypeSingle:
		return bet.Number == result.OpenDigit() || bet.Number == result.CloseDigit(), nil

	case entities.BetTypeJodi:
		return bet.Number == result.Jodi, nil

	case entities.BetTypeSinglePanna, entities.BetTypeDoublePanna, entities.BetTypeTriplePanna:
		return bet.Number == result.Open || bet.Number == result.Close, nil

	case entities.BetTypeHalfSangam:
		panna, digit, ok := entities.SplitHalfSangam(bet.Number)
		if !ok {
			return false, fmt.Errorf("half sangam number %q: %w", bet.Number, entities.ErrValidation)
		}
		openSide := panna == result.Open && digit == result.CloseDigit()
		closeSide := panna == result.Close && digit == result.OpenDigit()
		return openSide || closeSide, nil

	case entities.BetTypeFullSangam:
		wagered, err := strconv.Atoi(bet.Number)
		if err != nil {
			return false, fmt.Errorf("full sangam number %q: %w", bet.Number, entities.ErrValidation)
		}
		return wagered == result.PannaSum(), nil

	default:
		return false, fmt.Errorf("bet type %q: %w", bet.Type, entities.ErrUnsupportedBetType)
	}
}
