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

type betRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository on the pool
func NewBetRepository(db *database.DB) interfaces.BetRepository {
	return &betRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository bound to a transaction
func newBetRepositoryWithTx(tx Queryable) interfaces.BetRepository {
	return &betRepository{q: tx}
}

const betColumns = `id, user_id, bazaar_id, bet_date, bet_type, number, stake, potential_win, status, win_amount, result_id, placed_at, settled_at`

func (r *betRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (user_id, bazaar_id, bet_date, bet_type, number, stake, potential_win, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, placed_at`

	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.BazaarID,
		bet.BetDate,
		bet.Type,
		bet.Number,
		bet.Stake,
		bet.PotentialWin,
		bet.Status,
	).Scan(&bet.ID, &bet.PlacedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

func (r *betRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

func (r *betRepository) GetPendingByBazaarDate(ctx context.Context, bazaarID int64, date time.Time) ([]*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE bazaar_id = $1 AND bet_date = $2 AND status = $3
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, bazaarID, date, entities.BetStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

func (r *betRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE user_id = $1
		ORDER BY placed_at DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

func (r *betRepository) GetStats(ctx context.Context, userID int64) (*entities.BetStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_bets,
			COUNT(*) FILTER (WHERE status = 'won') AS total_wins,
			COUNT(*) FILTER (WHERE status = 'lost') AS total_losses,
			COALESCE(SUM(stake) FILTER (WHERE status IN ('won', 'lost')), 0) AS total_staked,
			COALESCE(SUM(win_amount) FILTER (WHERE status = 'won'), 0) AS total_won,
			COALESCE(SUM(stake) FILTER (WHERE status = 'lost'), 0) AS total_lost,
			COALESCE(MAX(win_amount) FILTER (WHERE status = 'won'), 0) AS biggest_win,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_bets,
			COALESCE(SUM(stake) FILTER (WHERE status = 'pending'), 0) AS pending_stake
		FROM bets
		WHERE user_id = $1`

	var stats entities.BetStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.TotalBets,
		&stats.TotalWins,
		&stats.TotalLosses,
		&stats.TotalStaked,
		&stats.TotalWon,
		&stats.TotalLost,
		&stats.BiggestWin,
		&stats.PendingBets,
		&stats.PendingStake,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats: %w", err)
	}

	return &stats, nil
}

// MarkSettled is the compare-and-swap that enforces exactly-once settlement:
// the guard on status=pending makes a repeat call affect zero rows.
func (r *betRepository) MarkSettled(ctx context.Context, betID int64, status entities.BetStatus, winAmount int64, resultID int64) (bool, error) {
	query := `
		UPDATE bets
		SET status = $2, win_amount = $3, result_id = $4, settled_at = NOW()
		WHERE id = $1 AND status = $5`

	tag, err := r.q.Exec(ctx, query, betID, status, winAmount, resultID, entities.BetStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to settle bet: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *betRepository) MarkCancelled(ctx context.Context, betID int64) (bool, error) {
	query := `
		UPDATE bets
		SET status = $2, settled_at = NOW()
		WHERE id = $1 AND status = $3`

	tag, err := r.q.Exec(ctx, query, betID, entities.BetStatusCancelled, entities.BetStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to cancel bet: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func scanBet(row pgx.Row) (*entities.Bet, error) {
	var bet entities.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.BazaarID,
		&bet.BetDate,
		&bet.Type,
		&bet.Number,
		&bet.Stake,
		&bet.PotentialWin,
		&bet.Status,
		&bet.WinAmount,
		&bet.ResultID,
		&bet.PlacedAt,
		&bet.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func scanBets(rows pgx.Rows) ([]*entities.Bet, error) {
	var bets []*entities.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}
