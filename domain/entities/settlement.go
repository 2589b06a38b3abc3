package entities

import "time"

// Verdict is the outcome of evaluating one bet against a declared result
type Verdict struct {
	Won        bool
	Multiplier int64
	Payout     int64
}

// SettlementFailure records one bet that could not be settled during a batch.
// The bet remains pending and is picked up by a re-invocation.
type SettlementFailure struct {
	BetID  int64  `json:"bet_id"`
	Reason string `json:"reason"`
}

// SettlementReport summarizes one settlement run for a declared result.
// Counts cover only bets acted on in this run; bets already terminal (settled
// by an earlier attempt or cancelled concurrently) are counted as skipped.
type SettlementReport struct {
	BazaarID     int64               `json:"bazaar_id"`
	ResultID     int64               `json:"result_id"`
	ResultDate   time.Time           `json:"result_date"`
	TotalBets    int                 `json:"total_bets"`
	WonCount     int                 `json:"won_count"`
	LostCount    int                 `json:"lost_count"`
	SkippedCount int                 `json:"skipped_count"`
	TotalPayout  int64               `json:"total_payout"`
	Failures     []SettlementFailure `json:"failures,omitempty"`
}

// FullySettled returns true if no bet in the batch needs a retry
func (r *SettlementReport) FullySettled() bool {
	return len(r.Failures) == 0
}

// FailedBetIDs returns the IDs of bets that need a retry
func (r *SettlementReport) FailedBetIDs() []int64 {
	ids := make([]int64, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.BetID)
	}
	return ids
}

// BetStats aggregates a user's betting history
type BetStats struct {
	TotalBets    int   `json:"total_bets"`
	TotalWins    int   `json:"total_wins"`
	TotalLosses  int   `json:"total_losses"`
	TotalStaked  int64 `json:"total_staked"`
	TotalWon     int64 `json:"total_won"`
	TotalLost    int64 `json:"total_lost"`
	BiggestWin   int64 `json:"biggest_win"`
	PendingBets  int   `json:"pending_bets"`
	PendingStake int64 `json:"pending_stake"`
}
