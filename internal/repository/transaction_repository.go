package repository

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

const transactionsFile = "transactions.csv"

var transactionsHeader = []string{"TransactionID", "Timestamp", "FromAccount", "ToAccount", "Amount", "Type", "Note"}

// transactionRepository is the append-only ledger. Unlike the account store it
// never rewrites the file: records are immutable, so each Log call is a single
// appended row. Queries re-read the whole file every time.
type transactionRepository struct {
	path   string
	seq    *Sequence
	mu     *sync.Mutex
	logger *slog.Logger
}

func NewTransactionRepository(dataDir string, mu *sync.Mutex, logger *slog.Logger) domain.TransactionRepository {
	r := &transactionRepository{
		path:   filepath.Join(dataDir, transactionsFile),
		mu:     mu,
		logger: logger,
	}
	r.seq = NewSequence(r.recoverNextID())
	return r
}

// recoverNextID scans the persisted ledger for the highest transaction ID so
// the sequence resumes at max+1 across restarts. An empty or unreadable store
// starts at 1.
func (r *transactionRepository) recoverNextID() int64 {
	rows, err := readRows(r.path, r.logger)
	if err != nil {
		r.logger.Warn("Could not read ledger for ID recovery, starting at 1", "path", r.path, "error", err)
		return 1
	}

	var max int64
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			// header row or corruption
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Log assigns the next ID and appends the record. A header row is written
// first when the file is new or empty.
func (r *transactionRepository) Log(tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return r.logFailure(err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return r.logFailure(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return r.logFailure(err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(transactionsHeader); err != nil {
			return r.logFailure(err)
		}
	}

	tx.ID = r.seq.Next()
	if err := w.Write(formatTransaction(tx)); err != nil {
		return r.logFailure(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return r.logFailure(err)
	}

	r.logger.Info("Transaction logged",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"from_account", tx.FromAccount,
		"to_account", tx.ToAccount,
		"amount", tx.Amount)
	return nil
}

func (r *transactionRepository) logFailure(err error) error {
	r.logger.Error("Failed to append transaction", "path", r.path, "error", err)
	return errors.NewAppError(errors.InternalError, "failed to append transaction").WithDetails(err.Error())
}

func (r *transactionRepository) ListAll() ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

func (r *transactionRepository) ListForAccount(accountID string) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAll()
	if err != nil {
		return nil, err
	}
	var matched []*domain.Transaction
	for _, tx := range all {
		if tx.FromAccount == accountID || tx.ToAccount == accountID {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

func (r *transactionRepository) readAll() ([]*domain.Transaction, error) {
	rows, err := readRows(r.path, r.logger)
	if err != nil {
		r.logger.Error("Failed to read ledger", "path", r.path, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to read ledger").WithDetails(err.Error())
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		tx, err := parseTransaction(row)
		if err != nil {
			r.logger.Warn("Skipping malformed transaction row", "row", row, "error", err)
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.TrimSpace(row[0]) == transactionsHeader[0]
}

func parseTransaction(row []string) (*domain.Transaction, error) {
	if len(row) < 7 {
		return nil, errors.NewAppErrorf(errors.InvalidInput, "expected 7 fields, got %d", len(row))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return nil, errors.NewAppError(errors.InvalidInput, "bad transaction id").WithDetails(err.Error())
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return nil, errors.NewAppError(errors.InvalidInput, "bad amount").WithDetails(err.Error())
	}

	return &domain.Transaction{
		ID:          id,
		Timestamp:   strings.TrimSpace(row[1]),
		FromAccount: strings.TrimSpace(row[2]),
		ToAccount:   strings.TrimSpace(row[3]),
		Amount:      amount,
		Type:        domain.TransactionType(strings.TrimSpace(row[5])),
		Note:        row[6],
	}, nil
}

func formatTransaction(tx *domain.Transaction) []string {
	return []string{
		strconv.FormatInt(tx.ID, 10),
		tx.Timestamp,
		tx.FromAccount,
		tx.ToAccount,
		tx.Amount.StringFixed(2),
		string(tx.Type),
		tx.Note,
	}
}
