package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"matka/database"
	"matka/domain/entities"
	"matka/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type bazaarRepository struct {
	q Queryable
}

// NewBazaarRepository creates a new bazaar repository on the pool
func NewBazaarRepository(db *database.DB) interfaces.BazaarRepository {
	return &bazaarRepository{q: db.Pool}
}

// newBazaarRepositoryWithTx creates a new bazaar repository bound to a transaction
func newBazaarRepositoryWithTx(tx Queryable) interfaces.BazaarRepository {
	return &bazaarRepository{q: tx}
}

const bazaarColumns = `id, name, open_time, close_time, status, min_bet, max_bet, multipliers, created_at, updated_at`

func (r *bazaarRepository) Create(ctx context.Context, bazaar *entities.Bazaar) error {
	multipliers, err := json.Marshal(multiplierMap(bazaar.Multipliers))
	if err != nil {
		return fmt.Errorf("failed to marshal multipliers: %w", err)
	}

	query := `
		INSERT INTO bazaars (name, open_time, close_time, status, min_bet, max_bet, multipliers)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err = r.q.QueryRow(ctx, query,
		bazaar.Name,
		bazaar.OpenTime,
		bazaar.CloseTime,
		bazaar.Status,
		bazaar.MinBet,
		bazaar.MaxBet,
		multipliers,
	).Scan(&bazaar.ID, &bazaar.CreatedAt, &bazaar.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bazaar: %w", err)
	}

	return nil
}

func (r *bazaarRepository) GetByID(ctx context.Context, id int64) (*entities.Bazaar, error) {
	query := `SELECT ` + bazaarColumns + ` FROM bazaars WHERE id = $1`

	bazaar, err := scanBazaar(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bazaar: %w", err)
	}

	return bazaar, nil
}

func (r *bazaarRepository) GetActive(ctx context.Context) ([]*entities.Bazaar, error) {
	query := `SELECT ` + bazaarColumns + ` FROM bazaars WHERE status = $1 ORDER BY name`

	rows, err := r.q.Query(ctx, query, entities.BazaarStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query bazaars: %w", err)
	}
	defer rows.Close()

	var bazaars []*entities.Bazaar
	for rows.Next() {
		bazaar, err := scanBazaar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bazaar: %w", err)
		}
		bazaars = append(bazaars, bazaar)
	}

	return bazaars, rows.Err()
}

func (r *bazaarRepository) Update(ctx context.Context, bazaar *entities.Bazaar) error {
	multipliers, err := json.Marshal(multiplierMap(bazaar.Multipliers))
	if err != nil {
		return fmt.Errorf("failed to marshal multipliers: %w", err)
	}

	query := `
		UPDATE bazaars
		SET name = $2, open_time = $3, close_time = $4, min_bet = $5, max_bet = $6, multipliers = $7, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query,
		bazaar.ID,
		bazaar.Name,
		bazaar.OpenTime,
		bazaar.CloseTime,
		bazaar.MinBet,
		bazaar.MaxBet,
		multipliers,
	)
	if err != nil {
		return fmt.Errorf("failed to update bazaar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bazaar %d: %w", bazaar.ID, entities.ErrNotFound)
	}

	return nil
}

func (r *bazaarRepository) UpdateStatus(ctx context.Context, id int64, status entities.BazaarStatus) error {
	query := `UPDATE bazaars SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update bazaar status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bazaar %d: %w", id, entities.ErrNotFound)
	}

	return nil
}

func scanBazaar(row pgx.Row) (*entities.Bazaar, error) {
	var bazaar entities.Bazaar
	var multipliers []byte
	err := row.Scan(
		&bazaar.ID,
		&bazaar.Name,
		&bazaar.OpenTime,
		&bazaar.CloseTime,
		&bazaar.Status,
		&bazaar.MinBet,
		&bazaar.MaxBet,
		&multipliers,
		&bazaar.CreatedAt,
		&bazaar.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	raw := map[string]int64{}
	if len(multipliers) > 0 {
		if err := json.Unmarshal(multipliers, &raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal multipliers: %w", err)
		}
	}
	bazaar.Multipliers = make(map[entities.BetType]int64, len(raw))
	for betType, m := range raw {
		bazaar.Multipliers[entities.BetType(betType)] = m
	}

	return &bazaar, nil
}

func multiplierMap(m map[entities.BetType]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for betType, multiplier := range m {
		out[string(betType)] = multiplier
	}
	return out
}
