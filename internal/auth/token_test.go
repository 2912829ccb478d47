package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog/internal/apperrors"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestStaticTokenEmpty(t *testing.T) {
	_, err := StaticToken("  ").Token(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestStaticTokenOpaque(t *testing.T) {
	tok, err := StaticToken("opaque-token").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", tok)
}

func TestExpiredJWTIsUnauthenticated(t *testing.T) {
	_, err := StaticToken(signed(t, time.Now().Add(-time.Hour))).Token(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	valid := signed(t, time.Now().Add(time.Hour))
	tok, err := StaticToken(valid).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, valid, tok)
}

func TestSessionSignInOut(t *testing.T) {
	s := NewSession()
	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	s.SignIn("abc", User{ID: "u1", Name: "Admin", Role: "admin"})
	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "admin", u.Role)

	s.SignOut()
	_, err = s.Token(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, ok = s.User()
	assert.False(t, ok)
}
