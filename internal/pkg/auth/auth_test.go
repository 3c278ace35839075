package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "s3cret", AccessTokenExp: time.Hour, TokenIssuer: "unitrack.test"})

	token, expiresIn, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, Subject, claims.Subject)
	assert.Equal(t, "tracker", claims.Scope)
}

func TestJWTServiceRejects(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "s3cret", AccessTokenExp: time.Hour, TokenIssuer: "unitrack.test"})
	other := NewJWTService(JWTConfig{SecretKey: "different", AccessTokenExp: time.Hour, TokenIssuer: "unitrack.test"})

	foreign, _, err := other.GenerateToken()
	require.NoError(t, err)

	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService(JWTConfig{SecretKey: "s3cret", AccessTokenExp: time.Hour, TokenIssuer: "unitrack.test"})
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.GenerateToken()
	require.NoError(t, err)

	_, err = svc.ValidateToken(old)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "abc", want: "abc"},
		{header: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFormat)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCheckPassphrase(t *testing.T) {
	// Minimum cost keeps the test fast
	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassphrase(string(hash), "open sesame"))
	assert.False(t, CheckPassphrase(string(hash), "wrong"))
}
