package entities

import "time"

// Wallet holds a user's balance and running totals. The balance is mutated
// only through the wallet ledger's credit/debit primitives, each of which
// pairs the change with a Transaction record; direct balance writes are not
// part of any interface.
type Wallet struct {
	UserID         int64     `db:"user_id"`
	Balance        int64     `db:"balance"`
	TotalDeposited int64     `db:"total_deposited"`
	TotalWithdrawn int64     `db:"total_withdrawn"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// CanAfford returns true if the balance covers the given amount
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}
