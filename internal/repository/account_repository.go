package repository

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

const accountsFile = "bank_accounts.csv"

// accountRepository keeps accounts in a headerless CSV file, one row per
// account: accountID,ownerID,balance,accountType. Every mutation reads the
// whole file into a map keyed by account ID and rewrites it atomically, which
// collapses duplicate rows and makes create and update the same operation.
type accountRepository struct {
	path   string
	mu     *sync.Mutex
	logger *slog.Logger
}

func NewAccountRepository(dataDir string, mu *sync.Mutex, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		path:   filepath.Join(dataDir, accountsFile),
		mu:     mu,
		logger: logger,
	}
}

func (r *accountRepository) Save(account *domain.Account) error {
	return r.SaveAll([]*domain.Account{account})
}

// SaveAll upserts every given account and rewrites the file once. A transfer
// passes both legs here so their new balances become durable together.
func (r *accountRepository) SaveAll(accounts []*domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.readAll()
	if err != nil {
		return err
	}
	for _, account := range accounts {
		existing[account.ID] = account
	}
	return r.rewrite(existing)
}

func (r *accountRepository) Get(id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.readAll()
	if err != nil {
		return nil, err
	}
	account, ok := accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return account, nil
}

func (r *accountRepository) ListAll() ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.readAll()
	if err != nil {
		return nil, err
	}
	return sortedAccounts(accounts), nil
}

func (r *accountRepository) ListForOwner(ownerID int64) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.readAll()
	if err != nil {
		return nil, err
	}
	owned := make(map[string]*domain.Account)
	for id, account := range accounts {
		if account.OwnerID == ownerID {
			owned[id] = account
		}
	}
	return sortedAccounts(owned), nil
}

// Delete removes the account's row and rewrites the file. A missing row is
// reported as not-found, distinct from a successful delete.
func (r *accountRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.readAll()
	if err != nil {
		return err
	}
	if _, ok := accounts[id]; !ok {
		r.logger.Warn("Delete of unknown account", "account_id", id)
		return errors.ErrAccountNotFound
	}
	delete(accounts, id)

	if err := r.rewrite(accounts); err != nil {
		return err
	}
	r.logger.Info("Account deleted", "account_id", id)
	return nil
}

func (r *accountRepository) readAll() (map[string]*domain.Account, error) {
	rows, err := readRows(r.path, r.logger)
	if err != nil {
		r.logger.Error("Failed to read account store", "path", r.path, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to read account store").WithDetails(err.Error())
	}

	accounts := make(map[string]*domain.Account, len(rows))
	for _, row := range rows {
		account, err := parseAccount(row)
		if err != nil {
			r.logger.Warn("Skipping malformed account row", "row", row, "error", err)
			continue
		}
		accounts[account.ID] = account
	}
	return accounts, nil
}

func (r *accountRepository) rewrite(accounts map[string]*domain.Account) error {
	rows := make([][]string, 0, len(accounts))
	for _, account := range sortedAccounts(accounts) {
		rows = append(rows, formatAccount(account))
	}
	if err := writeRowsAtomic(r.path, nil, rows); err != nil {
		r.logger.Error("Failed to write account store", "path", r.path, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to write account store").WithDetails(err.Error())
	}
	return nil
}

// parseAccount turns a CSV row into an Account, recomputing the interest rate
// from the stored balance so the derived rate can never drift from its source.
func parseAccount(row []string) (*domain.Account, error) {
	if len(row) < 4 {
		return nil, errors.NewAppErrorf(errors.InvalidInput, "expected at least 4 fields, got %d", len(row))
	}

	ownerID, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
	if err != nil {
		return nil, errors.NewAppError(errors.InvalidInput, "bad owner id").WithDetails(err.Error())
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, errors.NewAppError(errors.InvalidInput, "bad balance").WithDetails(err.Error())
	}

	account := &domain.Account{
		ID:      strings.TrimSpace(row[0]),
		OwnerID: ownerID,
		Balance: balance,
		Type:    domain.AccountType(strings.ToUpper(strings.TrimSpace(row[3]))),
	}
	account.RefreshInterestRate()
	return account, nil
}

func formatAccount(account *domain.Account) []string {
	return []string{
		account.ID,
		strconv.FormatInt(account.OwnerID, 10),
		account.Balance.StringFixed(2),
		string(account.Type),
	}
}

func sortedAccounts(accounts map[string]*domain.Account) []*domain.Account {
	out := make([]*domain.Account, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
