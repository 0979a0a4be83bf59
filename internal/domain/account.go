package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	Checking AccountType = "CHECKING"
	Saving   AccountType = "SAVING"
)

// Code returns the single-letter type code embedded in account IDs.
func (t AccountType) Code() string {
	if t == Saving {
		return "S"
	}
	return "C"
}

type Account struct {
	ID      string          `json:"account_id"`
	OwnerID int64           `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
	Type    AccountType     `json:"account_type"`
	// InterestRate is derived from the balance for savings accounts and is
	// recomputed after every balance change; it is never authoritative on its own.
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// AccountID builds the deterministic account identifier, e.g. "Alice-C-1001".
func AccountID(ownerName string, t AccountType, ownerID int64) string {
	return fmt.Sprintf("%s-%s-%d", ownerName, t.Code(), ownerID)
}

// NewChecking builds an unpersisted checking account funded with initialDeposit.
// Amount validation is the caller's responsibility.
func NewChecking(ownerName string, ownerID int64, initialDeposit decimal.Decimal) *Account {
	return &Account{
		ID:      AccountID(ownerName, Checking, ownerID),
		OwnerID: ownerID,
		Balance: initialDeposit,
		Type:    Checking,
	}
}

// NewSavings builds an unpersisted savings account with its interest rate
// computed from the opening balance.
func NewSavings(ownerName string, ownerID int64, initialDeposit decimal.Decimal) *Account {
	a := &Account{
		ID:      AccountID(ownerName, Saving, ownerID),
		OwnerID: ownerID,
		Balance: initialDeposit,
		Type:    Saving,
	}
	a.RefreshInterestRate()
	return a
}

var (
	tier1Limit = decimal.NewFromInt(1000)
	tier2Limit = decimal.NewFromInt(5000)
	tier3Limit = decimal.NewFromInt(10000)

	rateTier1 = decimal.RequireFromString("0.01")
	rateTier2 = decimal.RequireFromString("0.02")
	rateTier3 = decimal.RequireFromString("0.03")
	rateTier4 = decimal.RequireFromString("0.05")
)

// InterestRateFor returns the annual rate for the given account type and
// balance. Checking accounts earn nothing; savings accounts fall into one of
// four balance tiers.
func InterestRateFor(t AccountType, balance decimal.Decimal) decimal.Decimal {
	if t != Saving {
		return decimal.Zero
	}
	switch {
	case balance.LessThan(tier1Limit):
		return rateTier1
	case balance.LessThan(tier2Limit):
		return rateTier2
	case balance.LessThan(tier3Limit):
		return rateTier3
	default:
		return rateTier4
	}
}

// RefreshInterestRate recomputes the derived rate from the current balance.
// Must be called after every balance mutation.
func (a *Account) RefreshInterestRate() {
	a.InterestRate = InterestRateFor(a.Type, a.Balance)
}

type AccountRepository interface {
	Save(account *Account) error
	// SaveAll persists every given account in a single atomic rewrite, so a
	// transfer can never leave one leg durable without the other.
	SaveAll(accounts []*Account) error
	Get(id string) (*Account, error)
	ListAll() ([]*Account, error)
	ListForOwner(ownerID int64) ([]*Account, error)
	Delete(id string) error
}
