package repository

import (
	"context"
	"fmt"
	"time"

	"matka/database"
	"matka/domain/entities"
	"matka/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type gameResultRepository struct {
	q Queryable
}

// NewGameResultRepository creates a new game result repository on the pool
func NewGameResultRepository(db *database.DB) interfaces.GameResultRepository {
	return &gameResultRepository{q: db.Pool}
}

// newGameResultRepositoryWithTx creates a new game result repository bound to a transaction
func newGameResultRepositoryWithTx(tx Queryable) interfaces.GameResultRepository {
	return &gameResultRepository{q: tx}
}

// Insert is insert-if-absent on (bazaar, date): the unique index plus
// ON CONFLICT DO NOTHING makes duplicate declarations return false instead of
// overwriting, which is what keeps declarations immutable.
func (r *gameResultRepository) Insert(ctx context.Context, result *entities.GameResult) (bool, error) {
	query := `
		INSERT INTO game_results (bazaar_id, result_date, open_panna, close_panna, jodi)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (bazaar_id, result_date) DO NOTHING
		RETURNING id, declared_at`

	err := r.q.QueryRow(ctx, query,
		result.BazaarID,
		result.ResultDate,
		result.Open,
		result.Close,
		result.Jodi,
	).Scan(&result.ID, &result.DeclaredAt)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert game result: %w", err)
	}

	return true, nil
}

func (r *gameResultRepository) GetByBazaarDate(ctx context.Context, bazaarID int64, date time.Time) (*entities.GameResult, error) {
	query := `
		SELECT id, bazaar_id, result_date, open_panna, close_panna, jodi, declared_at
		FROM game_results
		WHERE bazaar_id = $1 AND result_date = $2`

	var result entities.GameResult
	err := r.q.QueryRow(ctx, query, bazaarID, date).Scan(
		&result.ID,
		&result.BazaarID,
		&result.ResultDate,
		&result.Open,
		&result.Close,
		&result.Jodi,
		&result.DeclaredAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}

	return &result, nil
}
