package repository

import (
	"log/slog"
	"sync"

	"bank-ledger/internal/domain"
)

// Store wires the flat-file repositories to a shared data directory. A single
// mutex serializes all file access: the whole-file-rewrite strategy is unsafe
// under concurrent writers, so every repository operation takes the lock.
type Store struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	users        domain.UserRepository
}

// NewStore creates the repositories backed by CSV files under dataDir. The
// transaction ID sequence is recovered from the persisted ledger here, exactly
// once per process.
func NewStore(dataDir string, logger *slog.Logger) *Store {
	mu := &sync.Mutex{}
	return &Store{
		accounts:     NewAccountRepository(dataDir, mu, logger),
		transactions: NewTransactionRepository(dataDir, mu, logger),
		users:        NewUserRepository(dataDir, mu, logger),
	}
}

func (s *Store) Account() domain.AccountRepository {
	return s.accounts
}

func (s *Store) Transaction() domain.TransactionRepository {
	return s.transactions
}

func (s *Store) User() domain.UserRepository {
	return s.users
}
