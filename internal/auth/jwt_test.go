package auth

import (
	"testing"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager := NewTokenManager("test-secret")

	token, err := manager.Issue(&domain.User{ID: "user-1", Role: domain.RoleEmployer})
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "employer", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenManager_Parse_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Issue(&domain.User{ID: "user-1", Role: domain.RoleCandidate})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Parse(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenManager_Parse_Expired(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		UserID: "user-1",
		Role:   "candidate",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenManager(secret).Parse(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenManager_Parse_WrongSigningMethod(t *testing.T) {
	// alg=none tokens must be rejected outright.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret").Parse(unsigned)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenManager_Parse_Garbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").Parse("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
