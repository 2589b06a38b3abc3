package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"matka/domain/entities"
	"matka/domain/events"
)

// MockBazaarRepository is a mock implementation of BazaarRepository
type MockBazaarRepository struct {
	mock.Mock
}

func (m *MockBazaarRepository) Create(ctx context.Context, bazaar *entities.Bazaar) error {
	args := m.Called(ctx, bazaar)
	return args.Error(0)
}

func (m *MockBazaarRepository) GetByID(ctx context.Context, id int64) (*entities.Bazaar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bazaar), args.Error(1)
}

func (m *MockBazaarRepository) GetActive(ctx context.Context) ([]*entities.Bazaar, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bazaar), args.Error(1)
}

func (m *MockBazaarRepository) Update(ctx context.Context, bazaar *entities.Bazaar) error {
	args := m.Called(ctx, bazaar)
	return args.Error(0)
}

func (m *MockBazaarRepository) UpdateStatus(ctx context.Context, id int64, status entities.BazaarStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingByBazaarDate(ctx context.Context, bazaarID int64, date time.Time) ([]*entities.Bet, error) {
	args := m.Called(ctx, bazaarID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetStats(ctx context.Context, userID int64) (*entities.BetStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetStats), args.Error(1)
}

func (m *MockBetRepository) MarkSettled(ctx context.Context, betID int64, status entities.BetStatus, winAmount int64, resultID int64) (bool, error) {
	args := m.Called(ctx, betID, status, winAmount, resultID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) MarkCancelled(ctx context.Context, betID int64) (bool, error) {
	args := m.Called(ctx, betID)
	return args.Bool(0), args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) CreateIfAbsent(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID int64, amount int64, category entities.TransactionCategory) (int64, error) {
	args := m.Called(ctx, userID, amount, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID int64, amount int64, category entities.TransactionCategory) (int64, error) {
	args := m.Called(ctx, userID, amount, category)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// MockGameResultRepository is a mock implementation of GameResultRepository
type MockGameResultRepository struct {
	mock.Mock
}

func (m *MockGameResultRepository) Insert(ctx context.Context, result *entities.GameResult) (bool, error) {
	args := m.Called(ctx, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameResultRepository) GetByBazaarDate(ctx context.Context, bazaarID int64, date time.Time) (*entities.GameResult, error) {
	args := m.Called(ctx, bazaarID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameResult), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
