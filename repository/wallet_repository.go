package repository

import (
	"context"
	"fmt"

	"matka/database"
	"matka/domain/entities"
	"matka/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type walletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository on the pool
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a new wallet repository bound to a transaction
func newWalletRepositoryWithTx(tx Queryable) interfaces.WalletRepository {
	return &walletRepository{q: tx}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		SELECT user_id, balance, total_deposited, total_withdrawn, created_at, updated_at
		FROM wallets
		WHERE user_id = $1`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&wallet.TotalDeposited,
		&wallet.TotalWithdrawn,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

func (r *walletRepository) CreateIfAbsent(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// Credit is a single atomic increment; the deposit running total moves in the
// same statement so the two can never diverge.
func (r *walletRepository) Credit(ctx context.Context, userID int64, amount int64, category entities.TransactionCategory) (int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2,
		    total_deposited = total_deposited + CASE WHEN $3 = 'deposit' THEN $2 ELSE 0 END,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, amount, string(category)).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("wallet for user %d: %w", userID, entities.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}

	return newBalance, nil
}

// Debit decrements only when the balance covers the amount; the floor check
// lives inside the statement, so concurrent debits cannot overdraw.
func (r *walletRepository) Debit(ctx context.Context, userID int64, amount int64, category entities.TransactionCategory) (int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $2,
		    total_withdrawn = total_withdrawn + CASE WHEN $3 = 'withdrawal' THEN $2 ELSE 0 END,
		    updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, amount, string(category)).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Missing wallet and covered-but-absent row look the same here;
		// either way the debit must not happen.
		return 0, fmt.Errorf("user %d debit %d: %w", userID, amount, entities.ErrInsufficientBalance)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit wallet: %w", err)
	}

	return newBalance, nil
}
