package services

import (
	"context"
	"fmt"
	"time"

	"matka/config"
	"matka/domain/entities"
	"matka/domain/events"
	"matka/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// BettingService handles bet placement and cancellation against the bet
// ledger. Settlement transitions live in the settlement engine; this service
// only ever creates pending bets or cancels them inside the window.
type BettingService struct {
	config         *config.Config
	bazaarRepo     interfaces.BazaarRepository
	betRepo        interfaces.BetRepository
	walletService  *WalletService
	eventPublisher interfaces.EventPublisher
	now            func() time.Time
}

// NewBettingService creates a new BettingService bound to tx-scoped repositories
func NewBettingService(
	bazaarRepo interfaces.BazaarRepository,
	betRepo interfaces.BetRepository,
	walletService *WalletService,
	eventPublisher interfaces.EventPublisher,
) *BettingService {
	return &BettingService{
		config:         config.Get(),
		bazaarRepo:     bazaarRepo,
		betRepo:        betRepo,
		walletService:  walletService,
		eventPublisher: eventPublisher,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBet validates and inserts a pending bet, debiting the stake
// atomically with the insert. The potential win is fixed here from the
// bazaar's multiplier table and never recomputed.
func (s *BettingService) PlaceBet(ctx context.Context, userID, bazaarID int64, betType entities.BetType, number string, stake int64) (*entities.Bet, error) {
	bazaar, err := s.bazaarRepo.GetByID(ctx, bazaarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bazaar: %w", err)
	}
	if bazaar == nil {
		return nil, fmt.Errorf("bazaar %d: %w", bazaarID, entities.ErrNotFound)
	}
	if !bazaar.IsActive() {
		return nil, fmt.Errorf("bazaar %q is %s: %w", bazaar.Name, bazaar.Status, entities.ErrBazaarInactive)
	}

	now := s.now()
	if now.After(bazaar.BettingCutoff(now, s.config.BettingGrace)) {
		return nil, fmt.Errorf("bazaar %q closed for bets at %s: %w",
			bazaar.Name, bazaar.BettingCutoff(now, s.config.BettingGrace).Format(time.RFC3339), entities.ErrBettingClosed)
	}

	if err := bazaar.ValidateStake(stake); err != nil {
		return nil, err
	}

	bet := &entities.Bet{
		UserID:   userID,
		BazaarID: bazaarID,
		BetDate:  now.Truncate(24 * time.Hour),
		Type:     betType,
		Number:   number,
		Stake:    stake,
		Status:   entities.BetStatusPending,
	}
	if err := bet.ValidateNumber(); err != nil {
		return nil, err
	}

	multiplier, err := bazaar.MultiplierFor(betType)
	if err != nil {
		return nil, err
	}
	bet.PotentialWin = stake * multiplier

	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	if _, err := s.walletService.Debit(ctx, userID, stake, entities.CategoryBet, &bet.ID); err != nil {
		return nil, err
	}

	event := events.BetPlacedEvent{
		BetID:    bet.ID,
		UserID:   userID,
		BazaarID: bazaarID,
		BetType:  betType,
		Number:   number,
		Stake:    stake,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("betID", bet.ID).Error("Failed to publish bet placed event")
	}

	log.WithFields(log.Fields{
		"betID":        bet.ID,
		"userID":       userID,
		"bazaar":       bazaar.Name,
		"betType":      betType,
		"stake":        stake,
		"potentialWin": bet.PotentialWin,
	}).Info("Bet placed")

	return bet, nil
}

// CancelBet cancels a pending bet inside the cancellation window and refunds
// exactly the stake. The status transition is a compare-and-swap, so a
// settlement racing this call makes one of the two a no-op.
func (s *BettingService) CancelBet(ctx context.Context, betID, userID int64) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, entities.ErrNotFound)
	}
	if bet.UserID != userID {
		return nil, fmt.Errorf("bet %d does not belong to user %d: %w", betID, userID, entities.ErrNotFound)
	}

	now := s.now()
	if !bet.CanCancel(now, s.config.CancelWindow) {
		return nil, fmt.Errorf("bet %d placed at %s: %w", betID, bet.PlacedAt.Format(time.RFC3339), entities.ErrNotCancellable)
	}

	cancelled, err := s.betRepo.MarkCancelled(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel bet: %w", err)
	}
	if !cancelled {
		return nil, fmt.Errorf("bet %d settled concurrently: %w", betID, entities.ErrNotCancellable)
	}

	if _, err := s.walletService.Credit(ctx, userID, bet.Stake, entities.CategoryRefund, &bet.ID); err != nil {
		return nil, err
	}

	event := events.BetCancelledEvent{
		BetID:  betID,
		UserID: userID,
		Refund: bet.Stake,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("betID", betID).Error("Failed to publish bet cancelled event")
	}

	bet.Status = entities.BetStatusCancelled
	log.WithFields(log.Fields{
		"betID":  betID,
		"userID": userID,
		"refund": bet.Stake,
	}).Info("Bet cancelled")

	return bet, nil
}
