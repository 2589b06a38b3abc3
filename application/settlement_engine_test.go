package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"matka/config"
	"matka/domain/entities"
	"matka/domain/events"
	"matka/domain/interfaces"
	"matka/domain/testhelpers"
)

// recordingPublisher collects events across concurrent units of work
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) countByType(et events.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type() == et {
			n++
		}
	}
	return n
}

// stubUnitOfWork backs every transaction with the same shared mocks; the
// engine under test opens several units of work per settlement run.
type stubUnitOfWork struct {
	bazaarRepo      *testhelpers.MockBazaarRepository
	betRepo         *testhelpers.MockBetRepository
	walletRepo      *testhelpers.MockWalletRepository
	transactionRepo *testhelpers.MockTransactionRepository
	gameResultRepo  *testhelpers.MockGameResultRepository
	publisher       *recordingPublisher
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *stubUnitOfWork) Commit() error                   { return nil }
func (u *stubUnitOfWork) Rollback() error                 { return nil }

func (u *stubUnitOfWork) BazaarRepository() interfaces.BazaarRepository { return u.bazaarRepo }
func (u *stubUnitOfWork) BetRepository() interfaces.BetRepository       { return u.betRepo }
func (u *stubUnitOfWork) WalletRepository() interfaces.WalletRepository { return u.walletRepo }
func (u *stubUnitOfWork) TransactionRepository() interfaces.TransactionRepository {
	return u.transactionRepo
}
func (u *stubUnitOfWork) GameResultRepository() interfaces.GameResultRepository {
	return u.gameResultRepo
}
func (u *stubUnitOfWork) EventBus() interfaces.EventPublisher { return u.publisher }

type stubUowFactory struct {
	uow *stubUnitOfWork
}

func (f *stubUowFactory) Create() UnitOfWork { return f.uow }

func newEngineFixture() (*SettlementEngine, *stubUnitOfWork) {
	uow := &stubUnitOfWork{
		bazaarRepo:      new(testhelpers.MockBazaarRepository),
		betRepo:         new(testhelpers.MockBetRepository),
		walletRepo:      new(testhelpers.MockWalletRepository),
		transactionRepo: new(testhelpers.MockTransactionRepository),
		gameResultRepo:  new(testhelpers.MockGameResultRepository),
		publisher:       &recordingPublisher{},
	}
	engine := NewSettlementEngine(&stubUowFactory{uow: uow})
	return engine, uow
}

func settlementDate() time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func TestSettlementEngine_SettleResult(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{
		ID: 1, Name: "Kalyan", OpenTime: "09:00", CloseTime: "21:00",
		Status: entities.BazaarStatusActive,
		MinBet: entities.DefaultMinBet, MaxBet: entities.DefaultMaxBet,
	}
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)

	uow.gameResultRepo.On("Insert", ctx, mock.MatchedBy(func(r *entities.GameResult) bool {
		return r.BazaarID == 1 && r.Open == "123" && r.Close == "456" && r.Jodi == "65"
	})).Return(true, nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.GameResult).ID = 7
	})

	pending := []*entities.Bet{
		{ID: 10, UserID: 100, BazaarID: 1, Type: entities.BetTypeSingle, Number: "6", Stake: 10, PotentialWin: 90, Status: entities.BetStatusPending},
		{ID: 11, UserID: 100, BazaarID: 1, Type: entities.BetTypeSingle, Number: "2", Stake: 10, PotentialWin: 90, Status: entities.BetStatusPending},
		{ID: 12, UserID: 200, BazaarID: 1, Type: entities.BetTypeJodi, Number: "65", Stake: 10, PotentialWin: 900, Status: entities.BetStatusPending},
	}
	uow.betRepo.On("GetPendingByBazaarDate", ctx, int64(1), settlementDate()).Return(pending, nil)

	uow.betRepo.On("MarkSettled", mock.Anything, int64(10), entities.BetStatusWon, int64(90), int64(7)).Return(true, nil)
	uow.betRepo.On("MarkSettled", mock.Anything, int64(11), entities.BetStatusLost, int64(0), int64(7)).Return(true, nil)
	uow.betRepo.On("MarkSettled", mock.Anything, int64(12), entities.BetStatusWon, int64(900), int64(7)).Return(true, nil)

	// Winner credits
	uow.walletRepo.On("CreateIfAbsent", mock.Anything, int64(100)).Return(nil)
	uow.walletRepo.On("CreateIfAbsent", mock.Anything, int64(200)).Return(nil)
	uow.walletRepo.On("Credit", mock.Anything, int64(100), int64(90), entities.CategoryWin).Return(int64(1090), nil)
	uow.walletRepo.On("Credit", mock.Anything, int64(200), int64(900), entities.CategoryWin).Return(int64(1900), nil)
	uow.transactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.Transaction")).Return(nil)

	report, err := engine.SettleResult(ctx, 1, settlementDate(), "123", "456")
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalBets)
	assert.Equal(t, 2, report.WonCount)
	assert.Equal(t, 1, report.LostCount)
	assert.Equal(t, 0, report.SkippedCount)
	assert.Equal(t, int64(990), report.TotalPayout)
	assert.Empty(t, report.Failures)
	assert.True(t, report.FullySettled())

	assert.Equal(t, 1, uow.publisher.countByType(events.EventTypeResultDeclared))
	assert.Equal(t, 3, uow.publisher.countByType(events.EventTypeBetSettled))

	uow.betRepo.AssertExpectations(t)
	uow.walletRepo.AssertExpectations(t)
	uow.gameResultRepo.AssertExpectations(t)
}

func TestSettlementEngine_ConflictingResult(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{ID: 1, Name: "Kalyan", Status: entities.BazaarStatusActive}
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)
	uow.gameResultRepo.On("Insert", ctx, mock.AnythingOfType("*entities.GameResult")).Return(false, nil)

	// A different result is already on record for the session
	stored := &entities.GameResult{ID: 7, BazaarID: 1, ResultDate: settlementDate(), Open: "788", Close: "456", Jodi: "35"}
	uow.gameResultRepo.On("GetByBazaarDate", ctx, int64(1), settlementDate()).Return(stored, nil)

	_, err := engine.SettleResult(ctx, 1, settlementDate(), "123", "456")
	assert.ErrorIs(t, err, entities.ErrDuplicateResult)
	uow.betRepo.AssertNotCalled(t, "GetPendingByBazaarDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementEngine_ResumesIdenticalDeclaration(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{
		ID: 1, Name: "Kalyan", Status: entities.BazaarStatusActive,
		MinBet: entities.DefaultMinBet, MaxBet: entities.DefaultMaxBet,
	}
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)
	uow.gameResultRepo.On("Insert", ctx, mock.AnythingOfType("*entities.GameResult")).Return(false, nil)

	// Same open and close as the stored row: the batch resumes against it
	stored := &entities.GameResult{ID: 7, BazaarID: 1, ResultDate: settlementDate(), Open: "123", Close: "456", Jodi: "65"}
	uow.gameResultRepo.On("GetByBazaarDate", ctx, int64(1), settlementDate()).Return(stored, nil)

	pending := []*entities.Bet{
		{ID: 10, UserID: 100, BazaarID: 1, Type: entities.BetTypeSingle, Number: "6", Stake: 10, PotentialWin: 90, Status: entities.BetStatusPending},
	}
	uow.betRepo.On("GetPendingByBazaarDate", ctx, int64(1), settlementDate()).Return(pending, nil)
	uow.betRepo.On("MarkSettled", mock.Anything, int64(10), entities.BetStatusWon, int64(90), int64(7)).Return(true, nil)
	uow.walletRepo.On("CreateIfAbsent", mock.Anything, int64(100)).Return(nil)
	uow.walletRepo.On("Credit", mock.Anything, int64(100), int64(90), entities.CategoryWin).Return(int64(90), nil)
	uow.transactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.Transaction")).Return(nil)

	report, err := engine.SettleResult(ctx, 1, settlementDate(), "123", "456")
	require.NoError(t, err)

	assert.Equal(t, 1, report.WonCount)
	assert.Equal(t, int64(7), report.ResultID)
	assert.True(t, report.FullySettled())

	// Resuming does not re-announce the declaration
	assert.Equal(t, 0, uow.publisher.countByType(events.EventTypeResultDeclared))
	assert.Equal(t, 1, uow.publisher.countByType(events.EventTypeBetSettled))
}

func TestSettlementEngine_BazaarNotFound(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	uow.bazaarRepo.On("GetByID", ctx, int64(9)).Return(nil, nil)

	_, err := engine.SettleResult(ctx, 9, settlementDate(), "123", "456")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestSettlementEngine_MalformedResult(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, _ := newEngineFixture()

	_, err := engine.SettleResult(ctx, 1, settlementDate(), "12a4", "456")
	assert.ErrorIs(t, err, entities.ErrMalformedResult)
}

func TestSettlementEngine_SkipsAlreadySettledBets(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{
		ID: 1, Name: "Kalyan", Status: entities.BazaarStatusActive,
		MinBet: entities.DefaultMinBet, MaxBet: entities.DefaultMaxBet,
	}
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)
	uow.gameResultRepo.On("Insert", ctx, mock.AnythingOfType("*entities.GameResult")).Return(true, nil).
		Run(func(args mock.Arguments) { args.Get(1).(*entities.GameResult).ID = 7 })

	pending := []*entities.Bet{
		{ID: 10, UserID: 100, BazaarID: 1, Type: entities.BetTypeSingle, Number: "6", Stake: 10, PotentialWin: 90, Status: entities.BetStatusPending},
	}
	uow.betRepo.On("GetPendingByBazaarDate", ctx, int64(1), settlementDate()).Return(pending, nil)

	// The compare-and-swap reports the bet already terminal
	uow.betRepo.On("MarkSettled", mock.Anything, int64(10), entities.BetStatusWon, int64(90), int64(7)).Return(false, nil)

	report, err := engine.SettleResult(ctx, 1, settlementDate(), "123", "456")
	require.NoError(t, err)

	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, 0, report.WonCount)
	assert.Equal(t, int64(0), report.TotalPayout)
	assert.True(t, report.FullySettled())

	// No wallet credit for a skipped bet
	uow.walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementEngine_SettleBetStrict(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{
		ID: 1, Name: "Kalyan", Status: entities.BazaarStatusActive,
		MinBet: entities.DefaultMinBet, MaxBet: entities.DefaultMaxBet,
	}
	bet := &entities.Bet{
		ID: 10, UserID: 100, BazaarID: 1, BetDate: settlementDate(),
		Type: entities.BetTypeSingle, Number: "6", Stake: 10, PotentialWin: 90,
		Status: entities.BetStatusPending,
	}
	result := &entities.GameResult{ID: 7, BazaarID: 1, ResultDate: settlementDate(), Open: "123", Close: "456", Jodi: "65"}

	uow.betRepo.On("GetByID", ctx, int64(10)).Return(bet, nil)
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)
	uow.gameResultRepo.On("GetByBazaarDate", ctx, int64(1), settlementDate()).Return(result, nil)
	uow.betRepo.On("MarkSettled", ctx, int64(10), entities.BetStatusWon, int64(90), int64(7)).Return(true, nil)
	uow.walletRepo.On("CreateIfAbsent", ctx, int64(100)).Return(nil)
	uow.walletRepo.On("Credit", ctx, int64(100), int64(90), entities.CategoryWin).Return(int64(1090), nil)
	uow.transactionRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)

	verdict, err := engine.SettleBetStrict(ctx, 10)
	require.NoError(t, err)
	assert.True(t, verdict.Won)
	assert.Equal(t, int64(90), verdict.Payout)

	uow.betRepo.AssertExpectations(t)
	uow.walletRepo.AssertExpectations(t)
}

func TestSettlementEngine_SettleBetStrict_AlreadyTerminal(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	settledBet := &entities.Bet{
		ID: 10, UserID: 100, BazaarID: 1, BetDate: settlementDate(),
		Type: entities.BetTypeSingle, Number: "6", Stake: 10, PotentialWin: 90,
		Status: entities.BetStatusWon,
	}
	uow.betRepo.On("GetByID", ctx, int64(10)).Return(settledBet, nil)

	_, err := engine.SettleBetStrict(ctx, 10)
	assert.ErrorIs(t, err, entities.ErrAlreadySettled)
	uow.betRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementEngine_SettleBetStrict_NoResultDeclared(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{ID: 1, Name: "Kalyan", Status: entities.BazaarStatusActive}
	bet := &entities.Bet{
		ID: 10, UserID: 100, BazaarID: 1, BetDate: settlementDate(),
		Type: entities.BetTypeSingle, Number: "6", Stake: 10, PotentialWin: 90,
		Status: entities.BetStatusPending,
	}
	uow.betRepo.On("GetByID", ctx, int64(10)).Return(bet, nil)
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)
	uow.gameResultRepo.On("GetByBazaarDate", ctx, int64(1), settlementDate()).Return(nil, nil)

	_, err := engine.SettleBetStrict(ctx, 10)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestSettlementEngine_PartialFailure(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	engine, uow := newEngineFixture()

	bazaar := &entities.Bazaar{
		ID: 1, Name: "Kalyan", Status: entities.BazaarStatusActive,
		MinBet: entities.DefaultMinBet, MaxBet: entities.DefaultMaxBet,
	}
	uow.bazaarRepo.On("GetByID", ctx, int64(1)).Return(bazaar, nil)
	uow.gameResultRepo.On("Insert", ctx, mock.AnythingOfType("*entities.GameResult")).Return(true, nil).
		Run(func(args mock.Arguments) { args.Get(1).(*entities.GameResult).ID = 7 })

	pending := []*entities.Bet{
		{ID: 10, UserID: 100, BazaarID: 1, Type: entities.BetTypeSingle, Number: "2", Stake: 10, PotentialWin: 90, Status: entities.BetStatusPending},
		{ID: 11, UserID: 100, BazaarID: 1, Type: entities.BetTypeSingle, Number: "5", Stake: 10, PotentialWin: 90, Status: entities.BetStatusPending},
	}
	uow.betRepo.On("GetPendingByBazaarDate", ctx, int64(1), settlementDate()).Return(pending, nil)

	uow.betRepo.On("MarkSettled", mock.Anything, int64(10), entities.BetStatusLost, int64(0), int64(7)).Return(true, nil)
	uow.betRepo.On("MarkSettled", mock.Anything, int64(11), entities.BetStatusLost, int64(0), int64(7)).
		Return(false, errors.New("connection reset"))

	report, err := engine.SettleResult(ctx, 1, settlementDate(), "123", "456")
	require.NoError(t, err)

	assert.Equal(t, 1, report.LostCount)
	assert.Len(t, report.Failures, 1)
	assert.Equal(t, []int64{11}, report.FailedBetIDs())
	assert.False(t, report.FullySettled())
}
