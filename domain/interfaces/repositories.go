package interfaces

import (
	"context"
	"time"

	"matka/domain/entities"
	"matka/domain/events"
)

// BazaarRepository defines the interface for bazaar data access
type BazaarRepository interface {
	// Create inserts a new bazaar
	Create(ctx context.Context, bazaar *entities.Bazaar) error

	// GetByID retrieves a bazaar by its ID, nil if absent
	GetByID(ctx context.Context, id int64) (*entities.Bazaar, error)

	// GetActive returns all bazaars currently accepting bets
	GetActive(ctx context.Context) ([]*entities.Bazaar, error)

	// Update persists schedule, bounds and multiplier changes
	Update(ctx context.Context, bazaar *entities.Bazaar) error

	// UpdateStatus soft-transitions a bazaar's status
	UpdateStatus(ctx context.Context, id int64, status entities.BazaarStatus) error
}

// BetRepository defines the interface for bet data access. Status transitions
// are compare-and-swap updates guarded on status=pending, which is what makes
// settlement idempotent and cancellation race-safe.
type BetRepository interface {
	// Create inserts a new pending bet
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet by its ID, nil if absent
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetPendingByBazaarDate returns all pending bets for one session
	GetPendingByBazaarDate(ctx context.Context, bazaarID int64, date time.Time) ([]*entities.Bet, error)

	// GetByUser returns recent bets for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error)

	// GetStats returns betting statistics for a user
	GetStats(ctx context.Context, userID int64) (*entities.BetStats, error)

	// MarkSettled transitions pending -> won|lost. Returns false without
	// error when the bet was already terminal.
	MarkSettled(ctx context.Context, betID int64, status entities.BetStatus, winAmount int64, resultID int64) (bool, error)

	// MarkCancelled transitions pending -> cancelled. Returns false without
	// error when the bet was already terminal.
	MarkCancelled(ctx context.Context, betID int64) (bool, error)
}

// WalletRepository defines atomic balance mutation primitives. Both mutations
// are single conditional updates; the debit floor check happens inside the
// statement, never as a read-modify-write.
type WalletRepository interface {
	// GetByUserID retrieves a wallet, nil if absent
	GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)

	// CreateIfAbsent ensures a zero-balance wallet row exists
	CreateIfAbsent(ctx context.Context, userID int64) error

	// Credit atomically increments the balance and returns the new value
	Credit(ctx context.Context, userID int64, amount int64, category entities.TransactionCategory) (int64, error)

	// Debit atomically decrements the balance, failing with
	// entities.ErrInsufficientBalance when the floor would be crossed
	Debit(ctx context.Context, userID int64, amount int64, category entities.TransactionCategory) (int64, error)
}

// TransactionRepository defines the append-only audit trail
type TransactionRepository interface {
	// Record appends a transaction
	Record(ctx context.Context, tx *entities.Transaction) error

	// GetByUser returns recent transactions for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error)
}

// GameResultRepository defines result declaration storage
type GameResultRepository interface {
	// Insert stores a declaration if none exists for (bazaar, date).
	// Returns false when a declaration was already present.
	Insert(ctx context.Context, result *entities.GameResult) (bool, error)

	// GetByBazaarDate retrieves a declaration, nil if absent
	GetByBazaarDate(ctx context.Context, bazaarID int64, date time.Time) (*entities.GameResult, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a unit of work and
// releases them only after commit
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events, called after commit
	Flush(ctx context.Context) error

	// Discard drops all pending events, called on rollback
	Discard()
}
