package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	credit := &Transaction{Type: TransactionTypeCredit, Amount: 90}
	assert.Equal(t, int64(90), credit.SignedAmount())
	assert.True(t, credit.IsCredit())

	debit := &Transaction{Type: TransactionTypeDebit, Amount: 10}
	assert.Equal(t, int64(-10), debit.SignedAmount())
	assert.False(t, debit.IsCredit())
}

func TestTransaction_Validate(t *testing.T) {
	valid := &Transaction{Type: TransactionTypeCredit, Amount: 10, BalanceAfter: 10}
	assert.NoError(t, valid.Validate())

	zeroAmount := &Transaction{Type: TransactionTypeCredit, Amount: 0, BalanceAfter: 10}
	assert.Error(t, zeroAmount.Validate())

	badType := &Transaction{Type: "transfer", Amount: 10, BalanceAfter: 10}
	assert.Error(t, badType.Validate())

	negativeBalance := &Transaction{Type: TransactionTypeDebit, Amount: 10, BalanceAfter: -5}
	assert.Error(t, negativeBalance.Validate())
}

func TestTransactionCategory_IsGamblingRelated(t *testing.T) {
	assert.True(t, CategoryBet.IsGamblingRelated())
	assert.True(t, CategoryWin.IsGamblingRelated())
	assert.True(t, CategoryRefund.IsGamblingRelated())
	assert.False(t, CategoryDeposit.IsGamblingRelated())
	assert.False(t, CategoryAdminAdjustment.IsGamblingRelated())
}
