package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountID(t *testing.T) {
	assert.Equal(t, "Alice-C-1001", AccountID("Alice", Checking, 1001))
	assert.Equal(t, "Alice-S-1001", AccountID("Alice", Saving, 1001))
}

func TestInterestRateTiers(t *testing.T) {
	tests := []struct {
		balance string
		rate    string
	}{
		{"0", "0.01"},
		{"999.99", "0.01"},
		{"1000", "0.02"},
		{"4999.99", "0.02"},
		{"5000", "0.03"},
		{"9999.99", "0.03"},
		{"10000", "0.05"},
		{"250000", "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			balance := decimal.RequireFromString(tt.balance)
			rate := InterestRateFor(Saving, balance)
			assert.True(t, decimal.RequireFromString(tt.rate).Equal(rate),
				"balance %s: expected rate %s, got %s", tt.balance, tt.rate, rate)
		})
	}
}

func TestCheckingAccountsEarnNothing(t *testing.T) {
	rate := InterestRateFor(Checking, decimal.NewFromInt(50000))
	assert.True(t, rate.IsZero())
}

func TestNewSavingsComputesOpeningRate(t *testing.T) {
	account := NewSavings("Alice", 1001, decimal.NewFromInt(1000))

	assert.Equal(t, "Alice-S-1001", account.ID)
	assert.Equal(t, Saving, account.Type)
	assert.True(t, decimal.RequireFromString("0.02").Equal(account.InterestRate))
}

func TestNewCheckingHasZeroRate(t *testing.T) {
	account := NewChecking("Bob", 1002, decimal.NewFromInt(500))

	assert.Equal(t, "Bob-C-1002", account.ID)
	assert.Equal(t, Checking, account.Type)
	assert.True(t, account.InterestRate.IsZero())
}

func TestRefreshInterestRateTracksBalance(t *testing.T) {
	account := NewSavings("Alice", 1001, decimal.NewFromInt(1000))

	account.Balance = decimal.NewFromInt(800)
	account.RefreshInterestRate()
	assert.True(t, decimal.RequireFromString("0.01").Equal(account.InterestRate))

	account.Balance = decimal.NewFromInt(12000)
	account.RefreshInterestRate()
	assert.True(t, decimal.RequireFromString("0.05").Equal(account.InterestRate))
}
