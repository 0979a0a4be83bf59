package repository

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

const usersFile = "users.csv"

var usersHeader = []string{"username", "password", "role", "userID"}

// userRepository stores users in users.csv. The password column holds a bcrypt
// hash, never a plaintext password. Saves rewrite the whole file atomically.
type userRepository struct {
	path   string
	mu     *sync.Mutex
	logger *slog.Logger
}

func NewUserRepository(dataDir string, mu *sync.Mutex, logger *slog.Logger) domain.UserRepository {
	return &userRepository{
		path:   filepath.Join(dataDir, usersFile),
		mu:     mu,
		logger: logger,
	}
}

func (r *userRepository) LoadAll() ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := readRows(r.path, r.logger)
	if err != nil {
		r.logger.Error("Failed to read user store", "path", r.path, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to read user store").WithDetails(err.Error())
	}

	users := make([]*domain.User, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), usersHeader[0]) {
			continue
		}
		user, err := parseUser(row)
		if err != nil {
			r.logger.Warn("Skipping malformed user row", "row", row, "error", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *userRepository) SaveAll(users []*domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([][]string, 0, len(users))
	for _, user := range users {
		rows = append(rows, []string{
			user.Username,
			user.PasswordHash,
			user.Role,
			strconv.FormatInt(user.UserID, 10),
		})
	}
	if err := writeRowsAtomic(r.path, usersHeader, rows); err != nil {
		r.logger.Error("Failed to write user store", "path", r.path, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to write user store").WithDetails(err.Error())
	}
	return nil
}

func parseUser(row []string) (*domain.User, error) {
	if len(row) < 4 {
		return nil, errors.NewAppErrorf(errors.InvalidInput, "expected 4 fields, got %d", len(row))
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
	if err != nil {
		return nil, errors.NewAppError(errors.InvalidInput, "bad user id").WithDetails(err.Error())
	}
	return &domain.User{
		Username:     strings.TrimSpace(row[0]),
		PasswordHash: strings.TrimSpace(row[1]),
		Role:         strings.TrimSpace(row[2]),
		UserID:       userID,
	}, nil
}
