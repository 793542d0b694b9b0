package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(
		newRepoMock(),
		NewTokenCodec("test-secret", TokenTTL),
		BootstrapCredentials{
			Username: "admin",
			Password: "test-password",
		},
	)
}

func TestService_Setup(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	require.NoError(t, service.Setup(ctx))

	admin, err := service.repo.Get(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.NotEqual(t, "test-password", admin.PasswordHash)
	assert.False(t, admin.CreatedAt.After(time.Now()))
}

func TestService_Setup_calledTwice(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	require.NoError(t, service.Setup(ctx))
	assert.ErrorIs(t, service.Setup(ctx), ErrAdminExists)
}

func TestService_Setup_missingCredentials(t *testing.T) {
	ctx := context.Background()
	service := NewService(
		newRepoMock(),
		NewTokenCodec("test-secret", TokenTTL),
		BootstrapCredentials{},
	)

	assert.Error(t, service.Setup(ctx))
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	require.NoError(t, service.Setup(ctx))

	token, err := service.Login(ctx, "admin", "test-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestService_Login_wrongPassword(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	require.NoError(t, service.Setup(ctx))

	token, err := service.Login(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestService_Login_unknownUser(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	require.NoError(t, service.Setup(ctx))

	// same error as a wrong password, no username oracle
	token, err := service.Login(ctx, "someone-else", "test-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestService_VerifyToken_missing(t *testing.T) {
	service := newTestService()

	username, err := service.VerifyToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Empty(t, username)
}
