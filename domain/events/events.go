package events

import (
	"time"

	"matka/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeBetPlaced      EventType = "bet_placed"
	EventTypeBetCancelled   EventType = "bet_cancelled"
	EventTypeBetSettled     EventType = "bet_settled"
	EventTypeResultDeclared EventType = "result_declared"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet balance change that occurred
type BalanceChangeEvent struct {
	UserID       int64                        `json:"user_id"`
	OldBalance   int64                        `json:"old_balance"`
	NewBalance   int64                        `json:"new_balance"`
	ChangeAmount int64                        `json:"change_amount"`
	Category     entities.TransactionCategory `json:"category"`
	ReferenceNo  string                       `json:"reference_no"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetPlacedEvent represents a bet that was accepted
type BetPlacedEvent struct {
	BetID    int64            `json:"bet_id"`
	UserID   int64            `json:"user_id"`
	BazaarID int64            `json:"bazaar_id"`
	BetType  entities.BetType `json:"bet_type"`
	Number   string           `json:"number"`
	Stake    int64            `json:"stake"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetCancelledEvent represents a bet cancelled inside its window
type BetCancelledEvent struct {
	BetID  int64 `json:"bet_id"`
	UserID int64 `json:"user_id"`
	Refund int64 `json:"refund"`
}

func (e BetCancelledEvent) Type() EventType {
	return EventTypeBetCancelled
}

// BetSettledEvent is emitted once per settled bet for the external notifier
type BetSettledEvent struct {
	BetID    int64 `json:"bet_id"`
	UserID   int64 `json:"user_id"`
	BazaarID int64 `json:"bazaar_id"`
	Won      bool  `json:"won"`
	Amount   int64 `json:"amount"`
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// ResultDeclaredEvent represents an accepted result declaration
type ResultDeclaredEvent struct {
	ResultID   int64     `json:"result_id"`
	BazaarID   int64     `json:"bazaar_id"`
	ResultDate time.Time `json:"result_date"`
	Open       string    `json:"open"`
	Close      string    `json:"close"`
	Jodi       string    `json:"jodi"`
}

func (e ResultDeclaredEvent) Type() EventType {
	return EventTypeResultDeclared
}
