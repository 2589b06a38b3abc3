package application

import (
	"context"
	"fmt"
	"time"

	"matka/domain/entities"
	"matka/domain/services"
)

// App exposes the platform's use cases to the transport layer. Each call runs
// inside one unit of work: domain services receive tx-scoped repositories and
// events flush only after commit.
type App struct {
	uowFactory UnitOfWorkFactory
	engine     *SettlementEngine
}

// New creates the application facade
func New(uowFactory UnitOfWorkFactory) *App {
	return &App{
		uowFactory: uowFactory,
		engine:     NewSettlementEngine(uowFactory),
	}
}

// SettleResult declares a result and settles the session's pending bets
func (a *App) SettleResult(ctx context.Context, bazaarID int64, date time.Time, open, close string) (*entities.SettlementReport, error) {
	return a.engine.SettleResult(ctx, bazaarID, date, open, close)
}

// SettleBet retries settlement of a single bet against its declared result,
// failing if the bet is already terminal
func (a *App) SettleBet(ctx context.Context, betID int64) (*entities.Verdict, error) {
	return a.engine.SettleBetStrict(ctx, betID)
}

// PlaceBet places a bet for a user
func (a *App) PlaceBet(ctx context.Context, userID, bazaarID int64, betType entities.BetType, number string, stake int64) (*entities.Bet, error) {
	var bet *entities.Bet
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		walletService := services.NewWalletService(uow.WalletRepository(), uow.TransactionRepository(), uow.EventBus())
		bettingService := services.NewBettingService(uow.BazaarRepository(), uow.BetRepository(), walletService, uow.EventBus())
		var err error
		bet, err = bettingService.PlaceBet(ctx, userID, bazaarID, betType, number, stake)
		return err
	})
	return bet, err
}

// CancelBet cancels a pending bet inside its window and refunds the stake
func (a *App) CancelBet(ctx context.Context, betID, userID int64) (*entities.Bet, error) {
	var bet *entities.Bet
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		walletService := services.NewWalletService(uow.WalletRepository(), uow.TransactionRepository(), uow.EventBus())
		bettingService := services.NewBettingService(uow.BazaarRepository(), uow.BetRepository(), walletService, uow.EventBus())
		var err error
		bet, err = bettingService.CancelBet(ctx, betID, userID)
		return err
	})
	return bet, err
}

// Deposit credits external funds into a user's wallet
func (a *App) Deposit(ctx context.Context, userID, amount int64) (*entities.Transaction, error) {
	return a.walletOp(ctx, func(ws *services.WalletService) (*entities.Transaction, error) {
		return ws.Deposit(ctx, userID, amount)
	})
}

// Withdraw debits funds out of a user's wallet
func (a *App) Withdraw(ctx context.Context, userID, amount int64) (*entities.Transaction, error) {
	return a.walletOp(ctx, func(ws *services.WalletService) (*entities.Transaction, error) {
		return ws.Withdraw(ctx, userID, amount)
	})
}

// AdminAdjust applies a signed manual balance correction
func (a *App) AdminAdjust(ctx context.Context, userID, amount int64) (*entities.Transaction, error) {
	return a.walletOp(ctx, func(ws *services.WalletService) (*entities.Transaction, error) {
		return ws.AdminAdjust(ctx, userID, amount)
	})
}

// GetWallet returns a user's wallet
func (a *App) GetWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	var wallet *entities.Wallet
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		var err error
		wallet, err = uow.WalletRepository().GetByUserID(ctx, userID)
		if err == nil && wallet == nil {
			err = fmt.Errorf("wallet for user %d: %w", userID, entities.ErrNotFound)
		}
		return err
	})
	return wallet, err
}

// GetTransactions returns a user's recent transactions
func (a *App) GetTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	var transactions []*entities.Transaction
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		var err error
		transactions, err = uow.TransactionRepository().GetByUser(ctx, userID, limit)
		return err
	})
	return transactions, err
}

// GetBets returns a user's recent bets
func (a *App) GetBets(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	var bets []*entities.Bet
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		var err error
		bets, err = uow.BetRepository().GetByUser(ctx, userID, limit)
		return err
	})
	return bets, err
}

// GetBetStats returns betting statistics for a user
func (a *App) GetBetStats(ctx context.Context, userID int64) (*entities.BetStats, error) {
	var stats *entities.BetStats
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		var err error
		stats, err = uow.BetRepository().GetStats(ctx, userID)
		return err
	})
	return stats, err
}

// CreateBazaar registers a new bazaar after validating its schedule
func (a *App) CreateBazaar(ctx context.Context, bazaar *entities.Bazaar) error {
	if bazaar.Status == "" {
		bazaar.Status = entities.BazaarStatusActive
	}
	if bazaar.MinBet == 0 {
		bazaar.MinBet = entities.DefaultMinBet
	}
	if bazaar.MaxBet == 0 {
		bazaar.MaxBet = entities.DefaultMaxBet
	}
	if err := bazaar.Validate(); err != nil {
		return err
	}
	return a.inTransaction(ctx, func(uow UnitOfWork) error {
		return uow.BazaarRepository().Create(ctx, bazaar)
	})
}

// ListActiveBazaars returns all bazaars accepting bets
func (a *App) ListActiveBazaars(ctx context.Context) ([]*entities.Bazaar, error) {
	var bazaars []*entities.Bazaar
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		var err error
		bazaars, err = uow.BazaarRepository().GetActive(ctx)
		return err
	})
	return bazaars, err
}

// UpdateBazaarStatus soft-transitions a bazaar's status; bazaars are never deleted
func (a *App) UpdateBazaarStatus(ctx context.Context, bazaarID int64, status entities.BazaarStatus) error {
	switch status {
	case entities.BazaarStatusActive, entities.BazaarStatusInactive, entities.BazaarStatusMaintenance:
	default:
		return fmt.Errorf("bazaar status %q: %w", status, entities.ErrValidation)
	}
	return a.inTransaction(ctx, func(uow UnitOfWork) error {
		bazaar, err := uow.BazaarRepository().GetByID(ctx, bazaarID)
		if err != nil {
			return err
		}
		if bazaar == nil {
			return fmt.Errorf("bazaar %d: %w", bazaarID, entities.ErrNotFound)
		}
		return uow.BazaarRepository().UpdateStatus(ctx, bazaarID, status)
	})
}

func (a *App) walletOp(ctx context.Context, op func(*services.WalletService) (*entities.Transaction, error)) (*entities.Transaction, error) {
	var transaction *entities.Transaction
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		walletService := services.NewWalletService(uow.WalletRepository(), uow.TransactionRepository(), uow.EventBus())
		var err error
		transaction, err = op(walletService)
		return err
	})
	return transaction, err
}

func (a *App) inTransaction(ctx context.Context, fn func(UnitOfWork) error) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
