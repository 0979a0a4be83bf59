package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(t *testing.T) (*AccountService, *LedgerService) {
	t.Helper()
	store := repository.NewStore(t.TempDir(), testLogger())
	accounts := NewAccountService(store, testLogger())
	ledger := NewLedgerService(store.Account(), store.Transaction(), testLogger())
	return accounts, ledger
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDepositIncreasesBalanceAndLogs(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("500.00"))
	require.NoError(t, err)

	tx, err := ledger.Deposit("Alice-C-1001", mustDecimal("100.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SystemAccount, tx.FromAccount)
	assert.Equal(t, "Alice-C-1001", tx.ToAccount)
	assert.Equal(t, domain.Deposit, tx.Type)
	assert.True(t, mustDecimal("100.00").Equal(tx.Amount))

	account, err := accounts.Get("Alice-C-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("600.00").Equal(account.Balance))
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("500.00"))
	require.NoError(t, err)

	before, err := ledger.History()
	require.NoError(t, err)

	_, err = ledger.Deposit("Alice-C-1001", decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	_, err = ledger.Deposit("Alice-C-1001", mustDecimal("-10"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	account, err := accounts.Get("Alice-C-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("500.00").Equal(account.Balance))

	after, err := ledger.History()
	require.NoError(t, err)
	assert.Len(t, after, len(before), "rejected deposit must not produce a record")
}

func TestWithdrawRecomputesSavingsTier(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateSavings("Alice", 1001, mustDecimal("1000.00"))
	require.NoError(t, err)

	account, err := accounts.Get("Alice-S-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("0.02").Equal(account.InterestRate))

	_, err = ledger.Withdraw("Alice-S-1001", mustDecimal("200.00"))
	require.NoError(t, err)

	account, err = accounts.Get("Alice-S-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("800.00").Equal(account.Balance))
	assert.True(t, mustDecimal("0.01").Equal(account.InterestRate))
}

func TestWithdrawRejectsInsufficientFunds(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateSavings("Alice", 1001, mustDecimal("950.00"))
	require.NoError(t, err)

	before, err := ledger.History()
	require.NoError(t, err)

	_, err = ledger.Withdraw("Alice-S-1001", mustDecimal("10000.00"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	account, err := accounts.Get("Alice-S-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("950.00").Equal(account.Balance))

	after, err := ledger.History()
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestTransferConservesTotalBalance(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("600.00"))
	require.NoError(t, err)
	_, err = accounts.CreateSavings("Alice", 1001, mustDecimal("800.00"))
	require.NoError(t, err)

	historyBefore, err := ledger.History()
	require.NoError(t, err)

	tx, err := ledger.Transfer("Alice-C-1001", "Alice-S-1001", mustDecimal("150.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.Transfer, tx.Type)
	assert.Equal(t, "Alice-C-1001", tx.FromAccount)
	assert.Equal(t, "Alice-S-1001", tx.ToAccount)

	from, err := accounts.Get("Alice-C-1001")
	require.NoError(t, err)
	to, err := accounts.Get("Alice-S-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("450.00").Equal(from.Balance))
	assert.True(t, mustDecimal("950.00").Equal(to.Balance))
	assert.True(t, mustDecimal("1400.00").Equal(from.Balance.Add(to.Balance)))

	historyAfter, err := ledger.History()
	require.NoError(t, err)
	assert.Len(t, historyAfter, len(historyBefore)+1, "exactly one TRANSFER record")
}

func TestTransferToSelfIsRejected(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("600.00"))
	require.NoError(t, err)

	_, err = ledger.Transfer("Alice-C-1001", "Alice-C-1001", mustDecimal("50.00"))
	assert.ErrorIs(t, err, apperrors.ErrSameAccountTransfer)

	account, err := accounts.Get("Alice-C-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("600.00").Equal(account.Balance))
}

func TestTransferInsufficientFundsLeavesBothUntouched(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("100.00"))
	require.NoError(t, err)
	_, err = accounts.CreateChecking("Bob", 1002, mustDecimal("50.00"))
	require.NoError(t, err)

	_, err = ledger.Transfer("Alice-C-1001", "Bob-C-1002", mustDecimal("500.00"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	alice, err := accounts.Get("Alice-C-1001")
	require.NoError(t, err)
	bob, err := accounts.Get("Bob-C-1002")
	require.NoError(t, err)
	assert.True(t, mustDecimal("100.00").Equal(alice.Balance))
	assert.True(t, mustDecimal("50.00").Equal(bob.Balance))
}

func TestTransferToUnknownAccountIsNotFound(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("600.00"))
	require.NoError(t, err)

	_, err = ledger.Transfer("Alice-C-1001", "Ghost-C-9999", mustDecimal("50.00"))
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAdminMovementsUseAdminTypes(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("100.00"))
	require.NoError(t, err)

	deposit, err := ledger.AdminDeposit("Alice-C-1001", mustDecimal("40.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.AdminDeposit, deposit.Type)

	withdrawal, err := ledger.AdminWithdraw("Alice-C-1001", mustDecimal("20.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.AdminWithdrawal, withdrawal.Type)

	account, err := accounts.Get("Alice-C-1001")
	require.NoError(t, err)
	assert.True(t, mustDecimal("120.00").Equal(account.Balance))
}

func TestHistoryForOwnerSpansAllOwnedAccounts(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("500.00"))
	require.NoError(t, err)
	_, err = accounts.CreateSavings("Alice", 1001, mustDecimal("1000.00"))
	require.NoError(t, err)
	_, err = accounts.CreateChecking("Bob", 1002, mustDecimal("50.00"))
	require.NoError(t, err)

	_, err = ledger.Transfer("Alice-C-1001", "Bob-C-1002", mustDecimal("10.00"))
	require.NoError(t, err)

	// opening balances emitted 3 records; transfer touches Alice and Bob
	aliceHistory, err := ledger.HistoryForOwner(1001)
	require.NoError(t, err)
	assert.Len(t, aliceHistory, 3)

	bobHistory, err := ledger.HistoryForOwner(1002)
	require.NoError(t, err)
	assert.Len(t, bobHistory, 2)
}

func TestTransactionIDsStrictlyIncrease(t *testing.T) {
	accounts, ledger := newTestServices(t)

	_, err := accounts.CreateChecking("Alice", 1001, mustDecimal("500.00"))
	require.NoError(t, err)

	var prev int64
	for i := 0; i < 5; i++ {
		tx, err := ledger.Deposit("Alice-C-1001", mustDecimal("10.00"))
		require.NoError(t, err)
		assert.Greater(t, tx.ID, prev)
		prev = tx.ID
	}
}
