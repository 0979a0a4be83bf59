package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput        ErrorCode = "invalid_input"
	InvalidAmount       ErrorCode = "invalid_amount"
	InsufficientFunds   ErrorCode = "insufficient_funds"
	SameAccountTransfer ErrorCode = "same_account_transfer"
	AccountNotFound     ErrorCode = "account_not_found"
	DuplicateAccount    ErrorCode = "duplicate_account"
	UserNotFound        ErrorCode = "user_not_found"
	DuplicateUser       ErrorCode = "duplicate_user"
	InvalidCredentials  ErrorCode = "invalid_credentials"
	InternalError       ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes errors.Is match any two AppErrors with the same code, so callers can
// compare against the predefined vars below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps the error code to the status the HTTP front door should return.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, SameAccountTransfer:
		return http.StatusBadRequest
	case AccountNotFound, UserNotFound:
		return http.StatusNotFound
	case DuplicateAccount, DuplicateUser:
		return http.StatusConflict
	case InsufficientFunds:
		return http.StatusUnprocessableEntity
	case InvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount       = NewAppError(InvalidAmount, "amount must be greater than zero")
	ErrInsufficientFunds   = NewAppError(InsufficientFunds, "insufficient funds")
	ErrSameAccountTransfer = NewAppError(SameAccountTransfer, "source and destination accounts are the same")
	ErrAccountNotFound     = NewAppError(AccountNotFound, "account not found")
	ErrDuplicateAccount    = NewAppError(DuplicateAccount, "account already exists")
	ErrUserNotFound        = NewAppError(UserNotFound, "user not found")
	ErrDuplicateUser       = NewAppError(DuplicateUser, "username already taken")
	ErrInvalidCredentials  = NewAppError(InvalidCredentials, "invalid username or password")
)
