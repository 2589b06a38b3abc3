package repository

import (
	"context"
	"fmt"

	"matka/application"
	"matka/database"
	"matka/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface over one pgx
// transaction
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher

	bazaarRepo      interfaces.BazaarRepository
	betRepo         interfaces.BetRepository
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
	gameResultRepo  interfaces.GameResultRepository
}

type unitOfWorkFactory struct {
	db               *database.DB
	publisherFactory func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. publisherFactory
// must return a fresh transactional publisher per unit of work so buffered
// events cannot leak between transactions.
func NewUnitOfWorkFactory(db *database.DB, publisherFactory func() interfaces.TransactionalEventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:               db,
		publisherFactory: publisherFactory,
	}
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: f.publisherFactory(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.bazaarRepo = newBazaarRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.walletRepo = newWalletRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.gameResultRepo = newGameResultRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

func (u *unitOfWork) BazaarRepository() interfaces.BazaarRepository {
	if u.bazaarRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.bazaarRepo
}

func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

func (u *unitOfWork) GameResultRepository() interfaces.GameResultRepository {
	if u.gameResultRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameResultRepo
}

func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
