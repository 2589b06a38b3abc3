package application

import (
	"context"

	"matka/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// All repositories returned by one unit of work share a single database
// transaction; events published through EventBus are buffered and released
// only after Commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	BazaarRepository() interfaces.BazaarRepository
	BetRepository() interfaces.BetRepository
	WalletRepository() interfaces.WalletRepository
	TransactionRepository() interfaces.TransactionRepository
	GameResultRepository() interfaces.GameResultRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
