package service

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

type AccountService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewAccountService(store *repository.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

func (s *AccountService) CreateChecking(ownerName string, ownerID int64, initialDeposit decimal.Decimal) (*domain.Account, error) {
	return s.create(domain.Checking, ownerName, ownerID, initialDeposit)
}

func (s *AccountService) CreateSavings(ownerName string, ownerID int64, initialDeposit decimal.Decimal) (*domain.Account, error) {
	return s.create(domain.Saving, ownerName, ownerID, initialDeposit)
}

func (s *AccountService) create(accountType domain.AccountType, ownerName string, ownerID int64, initialDeposit decimal.Decimal) (*domain.Account, error) {
	s.logger.Info("Creating account",
		"account_type", accountType,
		"owner_name", ownerName,
		"owner_id", ownerID,
		"initial_deposit", initialDeposit)

	if ownerName == "" {
		return nil, apperrors.NewAppError(apperrors.InvalidInput, "owner name is required")
	}
	if ownerID <= 0 {
		return nil, apperrors.NewAppError(apperrors.InvalidInput, "owner ID must be positive")
	}
	if initialDeposit.IsNegative() {
		return nil, apperrors.NewAppError(apperrors.InvalidAmount, "initial deposit cannot be negative")
	}

	id := domain.AccountID(ownerName, accountType, ownerID)
	if _, err := s.store.Account().Get(id); err == nil {
		return nil, apperrors.ErrDuplicateAccount
	} else if !errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, err
	}

	var account *domain.Account
	if accountType == domain.Saving {
		account = domain.NewSavings(ownerName, ownerID, initialDeposit)
	} else {
		account = domain.NewChecking(ownerName, ownerID, initialDeposit)
	}

	// A positive opening balance gets its own ledger record so every unit of
	// balance can be traced back to a transaction.
	if initialDeposit.IsPositive() {
		opening := domain.NewTransaction(domain.SystemAccount, account.ID, initialDeposit, domain.Deposit, "Opening balance")
		if err := s.store.Transaction().Log(opening); err != nil {
			return nil, err
		}
	}

	if err := s.store.Account().Save(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created successfully", "account_id", account.ID)
	return account, nil
}

func (s *AccountService) Get(accountID string) (*domain.Account, error) {
	return s.store.Account().Get(accountID)
}

func (s *AccountService) ListForOwner(ownerID int64) ([]*domain.Account, error) {
	return s.store.Account().ListForOwner(ownerID)
}

// ListAll is the privileged admin path: every account in the store.
func (s *AccountService) ListAll() ([]*domain.Account, error) {
	return s.store.Account().ListAll()
}

func (s *AccountService) Delete(accountID string) error {
	s.logger.Info("Deleting account", "account_id", accountID)
	return s.store.Account().Delete(accountID)
}
