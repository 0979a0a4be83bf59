package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
)

// LedgerService owns all money movement. Every successful operation appends
// exactly one ledger record and then persists the touched accounts; a rejected
// operation changes nothing and records nothing.
//
// The record is appended before the account rewrite on purpose: a crash in
// between leaves the ledger ahead of account state, which an audit can detect
// and reconcile. The opposite order would move money with no trace.
type LedgerService struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	logger       *slog.Logger
}

func NewLedgerService(
	accounts domain.AccountRepository,
	transactions domain.TransactionRepository,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
	}
}

func (s *LedgerService) Deposit(accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.credit(accountID, amount, domain.Deposit, "Cash deposit")
}

func (s *LedgerService) Withdraw(accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.debit(accountID, amount, domain.Withdrawal, "Cash withdrawal")
}

// AdminDeposit moves cash into any account on an administrator's behalf and
// marks the record so the audit trail distinguishes it from the owner's own
// deposits.
func (s *LedgerService) AdminDeposit(accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.credit(accountID, amount, domain.AdminDeposit, "Administrative deposit")
}

func (s *LedgerService) AdminWithdraw(accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.debit(accountID, amount, domain.AdminWithdrawal, "Administrative withdrawal")
}

func (s *LedgerService) credit(accountID string, amount decimal.Decimal, txType domain.TransactionType, note string) (*domain.Transaction, error) {
	s.logger.Info("Processing credit", "account_id", accountID, "amount", amount, "type", txType)

	if amount.Sign() <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	account, err := s.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}

	account.Balance = account.Balance.Add(amount)
	account.RefreshInterestRate()

	tx := domain.NewTransaction(domain.SystemAccount, account.ID, amount, txType, note)
	if err := s.transactions.Log(tx); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(account); err != nil {
		return nil, err
	}

	s.logger.Info("Credit completed", "transaction_id", tx.ID, "account_id", account.ID, "new_balance", account.Balance)
	return tx, nil
}

func (s *LedgerService) debit(accountID string, amount decimal.Decimal, txType domain.TransactionType, note string) (*domain.Transaction, error) {
	s.logger.Info("Processing debit", "account_id", accountID, "amount", amount, "type", txType)

	if amount.Sign() <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	account, err := s.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(amount) {
		s.logger.Warn("Debit rejected, insufficient funds", "account_id", accountID, "amount", amount, "balance", account.Balance)
		return nil, apperrors.ErrInsufficientFunds
	}

	account.Balance = account.Balance.Sub(amount)
	account.RefreshInterestRate()

	tx := domain.NewTransaction(account.ID, domain.SystemAccount, amount, txType, note)
	if err := s.transactions.Log(tx); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(account); err != nil {
		return nil, err
	}

	s.logger.Info("Debit completed", "transaction_id", tx.ID, "account_id", account.ID, "new_balance", account.Balance)
	return tx, nil
}

// Transfer moves amount between two internal accounts. Both balances are
// finalized in memory before any I/O, one TRANSFER record is logged, and both
// accounts are persisted in a single atomic rewrite so neither leg can become
// durable without the other.
func (s *LedgerService) Transfer(fromID, toID string, amount decimal.Decimal) (*domain.Transaction, error) {
	s.logger.Info("Processing transfer", "from_account", fromID, "to_account", toID, "amount", amount)

	if amount.Sign() <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	from, err := s.accounts.Get(fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.Get(toID)
	if err != nil {
		return nil, err
	}

	if from.Balance.LessThan(amount) {
		s.logger.Warn("Transfer rejected, insufficient funds", "from_account", fromID, "amount", amount, "balance", from.Balance)
		return nil, apperrors.ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	from.RefreshInterestRate()
	to.RefreshInterestRate()

	tx := domain.NewTransaction(from.ID, to.ID, amount, domain.Transfer, "Transfer between accounts")
	if err := s.transactions.Log(tx); err != nil {
		return nil, err
	}
	if err := s.accounts.SaveAll([]*domain.Account{from, to}); err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed", "transaction_id", tx.ID, "from_account", from.ID, "to_account", to.ID)
	return tx, nil
}

func (s *LedgerService) History() ([]*domain.Transaction, error) {
	return s.transactions.ListAll()
}

func (s *LedgerService) HistoryForAccount(accountID string) ([]*domain.Transaction, error) {
	return s.transactions.ListForAccount(accountID)
}

// HistoryForOwner resolves the owner's accounts and returns every transaction
// touching any of them.
func (s *LedgerService) HistoryForOwner(ownerID int64) ([]*domain.Transaction, error) {
	accounts, err := s.accounts.ListForOwner(ownerID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		owned[account.ID] = true
	}

	all, err := s.transactions.ListAll()
	if err != nil {
		return nil, err
	}
	var matched []*domain.Transaction
	for _, tx := range all {
		if owned[tx.FromAccount] || owned[tx.ToAccount] {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}
