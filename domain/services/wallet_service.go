package services

import (
	"context"
	"fmt"

	"matka/domain/entities"
	"matka/domain/events"
	"matka/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// WalletService is the wallet ledger: the single entry point for balance
// mutations. Every change goes through an atomic repository primitive and is
// paired with an appended Transaction record inside the same unit of work.
type WalletService struct {
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewWalletService creates a new WalletService bound to tx-scoped repositories
func NewWalletService(
	walletRepo interfaces.WalletRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) *WalletService {
	return &WalletService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// Credit increments a user's balance and appends the audit transaction
func (s *WalletService) Credit(ctx context.Context, userID, amount int64, category entities.TransactionCategory, relatedBetID *int64) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount %d: %w", amount, entities.ErrInvalidAmount)
	}

	if err := s.walletRepo.CreateIfAbsent(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure wallet exists: %w", err)
	}

	newBalance, err := s.walletRepo.Credit(ctx, userID, amount, category)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	return s.record(ctx, userID, entities.TransactionTypeCredit, category, amount, newBalance, relatedBetID)
}

// Debit decrements a user's balance, failing cleanly when the non-negative
// floor would be crossed, and appends the audit transaction
func (s *WalletService) Debit(ctx context.Context, userID, amount int64, category entities.TransactionCategory, relatedBetID *int64) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount %d: %w", amount, entities.ErrInvalidAmount)
	}

	newBalance, err := s.walletRepo.Debit(ctx, userID, amount, category)
	if err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	return s.record(ctx, userID, entities.TransactionTypeDebit, category, amount, newBalance, relatedBetID)
}

// Deposit credits external funds into the wallet
func (s *WalletService) Deposit(ctx context.Context, userID, amount int64) (*entities.Transaction, error) {
	return s.Credit(ctx, userID, amount, entities.CategoryDeposit, nil)
}

// Withdraw debits funds out of the wallet
func (s *WalletService) Withdraw(ctx context.Context, userID, amount int64) (*entities.Transaction, error) {
	return s.Debit(ctx, userID, amount, entities.CategoryWithdrawal, nil)
}

// AdminAdjust applies a signed manual correction
func (s *WalletService) AdminAdjust(ctx context.Context, userID, amount int64) (*entities.Transaction, error) {
	if amount >= 0 {
		return s.Credit(ctx, userID, amount, entities.CategoryAdminAdjustment, nil)
	}
	return s.Debit(ctx, userID, -amount, entities.CategoryAdminAdjustment, nil)
}

// GetWallet returns the wallet for a user
func (s *WalletService) GetWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet for user %d: %w", userID, entities.ErrNotFound)
	}
	return wallet, nil
}

// GetTransactions returns recent transactions for a user
func (s *WalletService) GetTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	return s.transactionRepo.GetByUser(ctx, userID, limit)
}

func (s *WalletService) record(ctx context.Context, userID int64, txType entities.TransactionType, category entities.TransactionCategory, amount, newBalance int64, relatedBetID *int64) (*entities.Transaction, error) {
	transaction := &entities.Transaction{
		UserID:       userID,
		Type:         txType,
		Category:     category,
		Amount:       amount,
		BalanceAfter: newBalance,
		ReferenceNo:  uuid.NewString(),
		RelatedBetID: relatedBetID,
	}
	if err := s.transactionRepo.Record(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	change := transaction.SignedAmount()
	event := events.BalanceChangeEvent{
		UserID:       userID,
		OldBalance:   newBalance - change,
		NewBalance:   newBalance,
		ChangeAmount: change,
		Category:     category,
		ReferenceNo:  transaction.ReferenceNo,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"userID":   userID,
			"category": category,
		}).Error("Failed to publish balance change event")
	}

	return transaction, nil
}
