package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

func newTestUserService(t *testing.T) (*UserService, string) {
	t.Helper()
	dir := t.TempDir()
	users := repository.NewUserRepository(dir, &sync.Mutex{}, testLogger())
	return NewUserService(users, testLogger()), dir
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStandard, user.Role)
	assert.Equal(t, int64(1001), user.UserID)
	assert.NotEqual(t, "hunter2", user.PasswordHash, "password must be stored hashed")

	authed, err := svc.Authenticate("alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, authed.UserID)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)

	_, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other", "")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)
}

func TestUserIDsContinueAfterRestart(t *testing.T) {
	svc, dir := newTestUserService(t)

	first, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)

	// new service over the same store simulates a restart
	users := repository.NewUserRepository(dir, &sync.Mutex{}, testLogger())
	restarted := NewUserService(users, testLogger())

	second, err := restarted.Register("bob", "secret", "")
	require.NoError(t, err)
	assert.Greater(t, second.UserID, first.UserID)
}

func TestAdminRoleNormalized(t *testing.T) {
	svc, _ := newTestUserService(t)

	admin, err := svc.Register("root", "toor", "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())
}

func TestResetPasswordInvalidatesOldOne(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword("alice", "newpass"))

	_, err = svc.Authenticate("alice", "hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Authenticate("alice", "newpass")
	assert.NoError(t, err)
}

func TestRenameUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)

	require.NoError(t, svc.Rename("alice", "alicia"))

	// old name is gone, new name logs in with the same identity
	_, err = svc.Authenticate("alice", "hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	renamed, err := svc.Authenticate("alicia", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, renamed.UserID)
}

func TestRenameRejectsTakenUsername(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)
	_, err = svc.Register("bob", "secret", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Rename("bob", "alice"), apperrors.ErrDuplicateUser)
	assert.ErrorIs(t, svc.Rename("nobody", "somebody"), apperrors.ErrUserNotFound)
}

func TestRemoveUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.Register("alice", "hunter2", "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(user.UserID))

	remaining, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, svc.Remove(user.UserID), apperrors.ErrUserNotFound)
}
