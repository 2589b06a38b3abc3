package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matka/domain/entities"
	"matka/repository/testutil"
)

func TestWalletRepository_CreditAndDebit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreateIfAbsent(ctx, 100))
	// Creating again is a no-op
	require.NoError(t, repo.CreateIfAbsent(ctx, 100))

	balance, err := repo.Credit(ctx, 100, 1000, entities.CategoryDeposit)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	balance, err = repo.Debit(ctx, 100, 300, entities.CategoryBet)
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)

	wallet, err := repo.GetByUserID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(700), wallet.Balance)
	// Only deposit credits move the running total
	assert.Equal(t, int64(1000), wallet.TotalDeposited)
	assert.Equal(t, int64(0), wallet.TotalWithdrawn)
}

func TestWalletRepository_DebitFloor(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreateIfAbsent(ctx, 100))
	_, err := repo.Credit(ctx, 100, 50, entities.CategoryDeposit)
	require.NoError(t, err)

	_, err = repo.Debit(ctx, 100, 51, entities.CategoryBet)
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)

	// The failed debit left the balance untouched
	wallet, err := repo.GetByUserID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), wallet.Balance)

	// Exactly the full balance is still debitable
	balance, err := repo.Debit(ctx, 100, 50, entities.CategoryBet)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestWalletRepository_WithdrawalTotals(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreateIfAbsent(ctx, 200))
	_, err := repo.Credit(ctx, 200, 1000, entities.CategoryDeposit)
	require.NoError(t, err)

	_, err = repo.Debit(ctx, 200, 400, entities.CategoryWithdrawal)
	require.NoError(t, err)

	wallet, err := repo.GetByUserID(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(600), wallet.Balance)
	assert.Equal(t, int64(400), wallet.TotalWithdrawn)
}

func TestWalletRepository_MissingWallet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	wallet, err := repo.GetByUserID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, wallet)

	_, err = repo.Credit(ctx, 999, 100, entities.CategoryDeposit)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = repo.Debit(ctx, 999, 100, entities.CategoryBet)
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
}
