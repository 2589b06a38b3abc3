package entities

import (
	"errors"
	"time"
)

// TransactionType represents the direction of a wallet mutation
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// TransactionCategory classifies why a wallet mutation happened
type TransactionCategory string

const (
	CategoryBet             TransactionCategory = "bet"
	CategoryWin             TransactionCategory = "win"
	CategoryRefund          TransactionCategory = "refund"
	CategoryDeposit         TransactionCategory = "deposit"
	CategoryWithdrawal      TransactionCategory = "withdrawal"
	CategoryAdminAdjustment TransactionCategory = "admin_adjustment"
)

// IsGamblingRelated returns true if the category originates from bet activity
func (tc TransactionCategory) IsGamblingRelated() bool {
	return tc == CategoryBet || tc == CategoryWin || tc == CategoryRefund
}

// Transaction is the immutable audit record paired with one wallet mutation.
// It is created in the same database transaction as the balance change and is
// never updated or deleted.
type Transaction struct {
	ID           int64               `db:"id"`
	UserID       int64               `db:"user_id"`
	Type         TransactionType     `db:"type"`
	Category     TransactionCategory `db:"category"`
	Amount       int64               `db:"amount"`
	BalanceAfter int64               `db:"balance_after"`
	ReferenceNo  string              `db:"reference_no"`
	RelatedBetID *int64              `db:"related_bet_id"`
	CreatedAt    time.Time           `db:"created_at"`
}

// IsCredit returns true for balance-increasing transactions
func (t *Transaction) IsCredit() bool {
	return t.Type == TransactionTypeCredit
}

// SignedAmount returns the amount with the sign of its balance effect
func (t *Transaction) SignedAmount() int64 {
	if t.IsCredit() {
		return t.Amount
	}
	return -t.Amount
}

// Validate performs basic consistency checks on the record
func (t *Transaction) Validate() error {
	if t.Amount <= 0 {
		return errors.New("transaction amount must be positive")
	}
	if t.Type != TransactionTypeCredit && t.Type != TransactionTypeDebit {
		return errors.New("transaction type must be credit or debit")
	}
	if t.BalanceAfter < 0 {
		return errors.New("balance after transaction cannot be negative")
	}
	return nil
}
