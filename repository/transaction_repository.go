package repository

import (
	"context"
	"fmt"

	"matka/database"
	"matka/domain/entities"
	"matka/domain/interfaces"
)

type transactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository on the pool
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &transactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository bound to a transaction
func newTransactionRepositoryWithTx(tx Queryable) interfaces.TransactionRepository {
	return &transactionRepository{q: tx}
}

func (r *transactionRepository) Record(ctx context.Context, transaction *entities.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	query := `
		INSERT INTO transactions (user_id, type, category, amount, balance_after, reference_no, related_bet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		transaction.UserID,
		transaction.Type,
		transaction.Category,
		transaction.Amount,
		transaction.BalanceAfter,
		transaction.ReferenceNo,
		transaction.RelatedBetID,
	).Scan(&transaction.ID, &transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return nil
}

func (r *transactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, user_id, type, category, amount, balance_after, reference_no, related_bet_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var t entities.Transaction
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Type,
			&t.Category,
			&t.Amount,
			&t.BalanceAfter,
			&t.ReferenceNo,
			&t.RelatedBetID,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
