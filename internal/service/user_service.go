package service

import (
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

// UserService manages the users the ledger references by owner ID. Passwords
// are bcrypt-hashed before they ever reach the store.
type UserService struct {
	users  domain.UserRepository
	seq    *repository.Sequence
	logger *slog.Logger
}

// NewUserService recovers the user ID sequence from the persisted store, the
// same way the ledger recovers transaction IDs. An empty store starts at 1001.
func NewUserService(users domain.UserRepository, logger *slog.Logger) *UserService {
	s := &UserService{
		users:  users,
		logger: logger,
	}
	s.seq = repository.NewSequence(s.recoverNextID())
	return s
}

func (s *UserService) recoverNextID() int64 {
	const firstUserID = 1001

	users, err := s.users.LoadAll()
	if err != nil {
		s.logger.Warn("Could not read user store for ID recovery", "error", err)
		return firstUserID
	}
	var max int64
	for _, user := range users {
		if user.UserID > max {
			max = user.UserID
		}
	}
	if max < firstUserID {
		return firstUserID
	}
	return max + 1
}

func (s *UserService) Register(username, password, role string) (*domain.User, error) {
	s.logger.Info("Registering user", "username", username, "role", role)

	if username == "" || password == "" {
		return nil, apperrors.NewAppError(apperrors.InvalidInput, "username and password are required")
	}
	if strings.ToUpper(role) == domain.RoleAdmin {
		role = domain.RoleAdmin
	} else {
		role = domain.RoleStandard
	}

	users, err := s.users.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, existing := range users {
		if existing.Username == username {
			return nil, apperrors.ErrDuplicateUser
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.InternalError, "failed to hash password").WithDetails(err.Error())
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		UserID:       s.seq.Next(),
	}
	if err := s.users.SaveAll(append(users, user)); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "username", user.Username, "user_id", user.UserID)
	return user, nil
}

func (s *UserService) Authenticate(username, password string) (*domain.User, error) {
	users, err := s.users.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			s.logger.Warn("Failed login attempt", "username", username)
			return nil, apperrors.ErrInvalidCredentials
		}
		return user, nil
	}
	// Same outcome for unknown user and wrong password.
	return nil, apperrors.ErrInvalidCredentials
}

func (s *UserService) ResetPassword(username, newPassword string) error {
	s.logger.Info("Resetting password", "username", username)

	if newPassword == "" {
		return apperrors.NewAppError(apperrors.InvalidInput, "new password is required")
	}

	users, err := s.users.LoadAll()
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.Username != username {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.NewAppError(apperrors.InternalError, "failed to hash password").WithDetails(err.Error())
		}
		user.PasswordHash = string(hash)
		return s.users.SaveAll(users)
	}
	return apperrors.ErrUserNotFound
}

// Rename changes a user's login name. Account IDs already minted from the old
// name are immutable and keep it; only future accounts pick up the new name.
func (s *UserService) Rename(username, newUsername string) error {
	s.logger.Info("Renaming user", "username", username, "new_username", newUsername)

	if newUsername == "" {
		return apperrors.NewAppError(apperrors.InvalidInput, "new username is required")
	}

	users, err := s.users.LoadAll()
	if err != nil {
		return err
	}
	var target *domain.User
	for _, user := range users {
		if user.Username == newUsername {
			return apperrors.ErrDuplicateUser
		}
		if user.Username == username {
			target = user
		}
	}
	if target == nil {
		return apperrors.ErrUserNotFound
	}
	target.Username = newUsername
	return s.users.SaveAll(users)
}

func (s *UserService) Remove(userID int64) error {
	s.logger.Info("Removing user", "user_id", userID)

	users, err := s.users.LoadAll()
	if err != nil {
		return err
	}
	remaining := make([]*domain.User, 0, len(users))
	for _, user := range users {
		if user.UserID != userID {
			remaining = append(remaining, user)
		}
	}
	if len(remaining) == len(users) {
		return apperrors.ErrUserNotFound
	}
	return s.users.SaveAll(remaining)
}

func (s *UserService) List() ([]*domain.User, error) {
	return s.users.LoadAll()
}
