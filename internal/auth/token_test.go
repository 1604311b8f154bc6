package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenInspectorValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	inspector := &TokenInspector{parser: jwt.NewParser(), now: func() time.Time { return now }}

	live := signToken(t, &Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}})
	expired := signToken(t, &Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}})
	noExpiry := signToken(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})

	claims, err := inspector.Validate(live, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Owner())

	_, err = inspector.Validate("Bearer "+live, "")
	assert.NoError(t, err)

	_, err = inspector.Validate(expired, "u1")
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = inspector.Validate(live, "u2")
	assert.ErrorIs(t, err, ErrTokenSubject)

	claims, err = inspector.Validate(noExpiry, "u1")
	require.NoError(t, err)
	assert.False(t, inspector.Expired(claims))

	claims, err = inspector.Validate("not-a-jwt", "u1")
	require.NoError(t, err)
	assert.Empty(t, claims.Owner())
	assert.False(t, inspector.Expired(claims))

	_, err = inspector.Validate("  ", "u1")
	assert.Error(t, err)
}
