package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"matka/config"
	"matka/domain/entities"
	"matka/domain/events"
	"matka/domain/services"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SettlementEngine turns one declared result into terminal bet states and
// wallet credits. Each bet settles in its own unit of work, so a failure on
// one bet never blocks the rest of the batch and a re-invocation picks up
// only the bets still pending.
type SettlementEngine struct {
	config     *config.Config
	uowFactory UnitOfWorkFactory
	intake     *services.ResultIntakeService
	rules      *services.PayoutRuleService
}

// NewSettlementEngine creates a new SettlementEngine
func NewSettlementEngine(uowFactory UnitOfWorkFactory) *SettlementEngine {
	return &SettlementEngine{
		config:     config.Get(),
		uowFactory: uowFactory,
		intake:     services.NewResultIntakeService(),
		rules:      services.NewPayoutRuleService(),
	}
}

// SettleResult declares a result for (bazaar, date) and settles every pending
// bet of that session. Re-declaring the identical result resumes the batch
// over whatever is still pending; a conflicting declaration fails with
// DUPLICATE_RESULT and the stored result is never overwritten.
func (e *SettlementEngine) SettleResult(ctx context.Context, bazaarID int64, date time.Time, open, close string) (*entities.SettlementReport, error) {
	result, err := e.intake.Normalize(bazaarID, date, open, close)
	if err != nil {
		return nil, err
	}

	bazaar, result, pending, err := e.declareResult(ctx, result)
	if err != nil {
		return nil, err
	}

	report := &entities.SettlementReport{
		BazaarID:   bazaarID,
		ResultID:   result.ID,
		ResultDate: result.ResultDate,
		TotalBets:  len(pending),
	}

	log.WithFields(log.Fields{
		"bazaar":      bazaar.Name,
		"date":        result.ResultDate.Format("2006-01-02"),
		"open":        result.Open,
		"close":       result.Close,
		"jodi":        result.Jodi,
		"pendingBets": len(pending),
	}).Info("Result declared, settling bets")

	// Verdict computation is pure and wallet mutation is a single atomic
	// update, so bets settle independently on a bounded worker pool.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.SettlementWorkers)

	for _, bet := range pending {
		bet := bet
		g.Go(func() error {
			outcome, err := e.settleOne(gctx, bazaar, result, bet)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failures = append(report.Failures, entities.SettlementFailure{
					BetID:  bet.ID,
					Reason: err.Error(),
				})
			case outcome == nil:
				report.SkippedCount++
			case outcome.Won:
				report.WonCount++
				report.TotalPayout += outcome.Payout
			default:
				report.LostCount++
			}
			return nil
		})
	}
	g.Wait()

	log.WithFields(log.Fields{
		"bazaar":      bazaar.Name,
		"won":         report.WonCount,
		"lost":        report.LostCount,
		"skipped":     report.SkippedCount,
		"failed":      len(report.Failures),
		"totalPayout": report.TotalPayout,
	}).Info("Settlement run complete")

	return report, nil
}

// declareResult persists the immutable declaration and loads the affected
// pending bets in one transaction. A re-declaration carrying the same open and
// close pannas is treated as a resume and returns the stored result; any other
// collision is a duplicate.
func (e *SettlementEngine) declareResult(ctx context.Context, result *entities.GameResult) (*entities.Bazaar, *entities.GameResult, []*entities.Bet, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bazaar, err := uow.BazaarRepository().GetByID(ctx, result.BazaarID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get bazaar: %w", err)
	}
	if bazaar == nil {
		return nil, nil, nil, fmt.Errorf("bazaar %d: %w", result.BazaarID, entities.ErrNotFound)
	}

	inserted, err := uow.GameResultRepository().Insert(ctx, result)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to insert result: %w", err)
	}
	if !inserted {
		existing, err := uow.GameResultRepository().GetByBazaarDate(ctx, result.BazaarID, result.ResultDate)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to get declared result: %w", err)
		}
		if existing == nil || existing.Open != result.Open || existing.Close != result.Close {
			return nil, nil, nil, fmt.Errorf("bazaar %d on %s: %w",
				result.BazaarID, result.ResultDate.Format("2006-01-02"), entities.ErrDuplicateResult)
		}
		log.WithFields(log.Fields{
			"resultID": existing.ID,
			"bazaarID": existing.BazaarID,
		}).Info("Result already declared, resuming settlement")
		result = existing
	}

	pending, err := uow.BetRepository().GetPendingByBazaarDate(ctx, result.BazaarID, result.ResultDate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load pending bets: %w", err)
	}

	if inserted {
		if err := uow.EventBus().Publish(events.ResultDeclaredEvent{
			ResultID:   result.ID,
			BazaarID:   result.BazaarID,
			ResultDate: result.ResultDate,
			Open:       result.Open,
			Close:      result.Close,
			Jodi:       result.Jodi,
		}); err != nil {
			log.WithError(err).Error("Failed to publish result declared event")
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to commit result declaration: %w", err)
	}

	return bazaar, result, pending, nil
}

// SettleBetStrict settles one bet against the already declared result for its
// session, failing with ALREADY_SETTLED instead of skipping when the bet is
// terminal. Used to retry individual bets reported as failed by a batch run.
func (e *SettlementEngine) SettleBetStrict(ctx context.Context, betID int64) (*entities.Verdict, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, entities.ErrNotFound)
	}
	if !bet.IsPending() {
		return nil, fmt.Errorf("bet %d is %s: %w", betID, bet.Status, entities.ErrAlreadySettled)
	}

	bazaar, err := uow.BazaarRepository().GetByID(ctx, bet.BazaarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bazaar: %w", err)
	}
	if bazaar == nil {
		return nil, fmt.Errorf("bazaar %d: %w", bet.BazaarID, entities.ErrNotFound)
	}

	result, err := uow.GameResultRepository().GetByBazaarDate(ctx, bet.BazaarID, bet.BetDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("no result declared for bazaar %d on %s: %w",
			bet.BazaarID, bet.BetDate.Format("2006-01-02"), entities.ErrNotFound)
	}

	verdict, err := e.rules.Evaluate(bet, result, bazaar)
	if err != nil {
		return nil, err
	}

	status := entities.BetStatusLost
	if verdict.Won {
		status = entities.BetStatusWon
	}

	settled, err := uow.BetRepository().MarkSettled(ctx, bet.ID, status, verdict.Payout, result.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to settle bet: %w", err)
	}
	if !settled {
		return nil, fmt.Errorf("bet %d settled concurrently: %w", betID, entities.ErrAlreadySettled)
	}

	if verdict.Won {
		walletService := services.NewWalletService(
			uow.WalletRepository(), uow.TransactionRepository(), uow.EventBus())
		if _, err := walletService.Credit(ctx, bet.UserID, bet.PotentialWin, entities.CategoryWin, &bet.ID); err != nil {
			return nil, err
		}
	}

	if err := uow.EventBus().Publish(events.BetSettledEvent{
		BetID:    bet.ID,
		UserID:   bet.UserID,
		BazaarID: bet.BazaarID,
		Won:      verdict.Won,
		Amount:   verdict.Payout,
	}); err != nil {
		log.WithError(err).WithField("betID", bet.ID).Error("Failed to publish bet settled event")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return verdict, nil
}

// settleOne settles a single bet in its own unit of work. Returns the verdict
// acted on, or nil when the bet was already terminal (idempotent no-op).
func (e *SettlementEngine) settleOne(ctx context.Context, bazaar *entities.Bazaar, result *entities.GameResult, bet *entities.Bet) (*entities.Verdict, error) {
	verdict, err := e.rules.Evaluate(bet, result, bazaar)
	if err != nil {
		return nil, err
	}

	status := entities.BetStatusLost
	if verdict.Won {
		status = entities.BetStatusWon
	}

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settled, err := uow.BetRepository().MarkSettled(ctx, bet.ID, status, verdict.Payout, result.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to settle bet: %w", err)
	}
	if !settled {
		// Already terminal: settled by an earlier attempt or cancelled
		// concurrently. Tolerated for at-least-once delivery.
		log.WithFields(log.Fields{
			"betID":    bet.ID,
			"resultID": result.ID,
		}).Warn("Bet already settled, skipping")
		return nil, uow.Rollback()
	}

	if verdict.Won {
		walletService := services.NewWalletService(
			uow.WalletRepository(), uow.TransactionRepository(), uow.EventBus())
		if _, err := walletService.Credit(ctx, bet.UserID, bet.PotentialWin, entities.CategoryWin, &bet.ID); err != nil {
			return nil, err
		}
	}

	if err := uow.EventBus().Publish(events.BetSettledEvent{
		BetID:    bet.ID,
		UserID:   bet.UserID,
		BazaarID: bet.BazaarID,
		Won:      verdict.Won,
		Amount:   verdict.Payout,
	}); err != nil {
		log.WithError(err).WithField("betID", bet.ID).Error("Failed to publish bet settled event")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return verdict, nil
}
