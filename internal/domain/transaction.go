package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemAccount is the sentinel counterparty for cash entering or leaving the
// bank. Plain deposits and withdrawals record it so every transaction has a
// symmetric source and destination, keeping the ledger double-entry shaped.
const SystemAccount = "SYSTEM"

type TransactionType string

const (
	Deposit         TransactionType = "DEPOSIT"
	Withdrawal      TransactionType = "WITHDRAWAL"
	Transfer        TransactionType = "TRANSFER"
	AdminDeposit    TransactionType = "ADMIN_DEPOSIT"
	AdminWithdrawal TransactionType = "ADMIN_WITHDRAWAL"
)

// Transaction is one immutable money movement. The ID is assigned by the
// transaction store when the record is logged.
type Transaction struct {
	ID          int64           `json:"transaction_id"`
	Timestamp   string          `json:"timestamp"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Note        string          `json:"note"`
}

func NewTransaction(from, to string, amount decimal.Decimal, txType TransactionType, note string) *Transaction {
	return &Transaction{
		Timestamp:   time.Now().Format(time.RFC3339),
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Type:        txType,
		Note:        note,
	}
}

type TransactionRepository interface {
	// Log assigns the transaction its ID and appends it to the durable ledger.
	Log(tx *Transaction) error
	ListAll() ([]*Transaction, error)
	ListForAccount(accountID string) ([]*Transaction, error)
}
