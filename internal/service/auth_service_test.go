package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

func newTestAuth() *AuthService {
	return NewAuthService(AuthConfig{Secret: "test-secret", Issuer: "idp", AdminEmails: []string{" Admin@Example.com "}})
}

func TestAuthServiceRoundTrip(t *testing.T) {
	auth := newTestAuth()
	token, err := auth.IssueToken("Admin@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, auth.IsAdmin(claims.Email))
	assert.False(t, auth.IsAdmin("staff@example.com"))
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	auth := newTestAuth()
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := auth.IssueToken("admin@example.com", time.Hour)
	require.NoError(t, err)

	auth.now = time.Now
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsWrongIssuerAndAlgorithm(t *testing.T) {
	auth := newTestAuth()

	other := NewAuthService(AuthConfig{Secret: "test-secret", Issuer: "someone-else"})
	token, err := other.IssueToken("admin@example.com", time.Hour)
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	claims := &models.AdminClaims{Email: "admin@example.com", RegisteredClaims: jwt.RegisteredClaims{Issuer: "idp"}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(unsigned)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRequiresEmailClaim(t *testing.T) {
	auth := newTestAuth()
	claims := &models.AdminClaims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "idp", Subject: "u1"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
