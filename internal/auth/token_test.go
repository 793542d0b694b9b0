package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := NewTokenCodec("test-secret", TokenTTL)

	token, err := codec.Issue("admin", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestTokenCodec_Verify_expired(t *testing.T) {
	codec := NewTokenCodec("test-secret", TokenTTL)

	issuedAt := time.Now().Add(-25 * time.Hour)
	token, err := codec.Issue("admin", issuedAt)
	require.NoError(t, err)

	username, err := codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Empty(t, username)
}

func TestTokenCodec_Verify_expiryBoundary(t *testing.T) {
	codec := NewTokenCodec("test-secret", TokenTTL)

	// issued just inside the 24h window, still valid
	issuedAt := time.Now().Add(-TokenTTL).Add(time.Minute)
	token, err := codec.Issue("admin", issuedAt)
	require.NoError(t, err)

	username, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestTokenCodec_Verify_wrongSecret(t *testing.T) {
	codec := NewTokenCodec("test-secret", TokenTTL)
	otherCodec := NewTokenCodec("other-secret", TokenTTL)

	token, err := codec.Issue("admin", time.Now())
	require.NoError(t, err)

	username, err := otherCodec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
	assert.Empty(t, username)
}

func TestTokenCodec_Verify_garbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", TokenTTL)

	for _, token := range []string{
		"not-a-token",
		"aaaa.bbbb.cccc",
		"eyJhbGciOiJIUzI1NiJ9.e30.",
	} {
		username, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token: %s", token)
		assert.Empty(t, username)
	}
}

func TestTokenCodec_Verify_noUsernameClaim(t *testing.T) {
	codec := NewTokenCodec("test-secret", TokenTTL)

	token, err := codec.Issue("", time.Now())
	require.NoError(t, err)

	username, err := codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
	assert.Empty(t, username)
}
