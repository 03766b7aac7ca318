package service

import (
	"testing"
	"time"

	"softwire/internal/microservices/http-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func testUser() *models.User {
	return &models.User{ID: 42, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"}
}

func TestTokenService_VerificationRoundTrip(t *testing.T) {
	tokens := NewTokenService(testConfig(), fixedClock)

	token, err := tokens.IssueVerification("ann@x.com")
	require.NoError(t, err)

	claims, err := tokens.ParseVerification(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", claims.Email)
	assert.Equal(t, PurposeEmailVerification, claims.Purpose)
}

func TestTokenService_VerificationTokensAreDistinct(t *testing.T) {
	tokens := NewTokenService(testConfig(), fixedClock)

	first, err := tokens.IssueVerification("ann@x.com")
	require.NoError(t, err)
	second, err := tokens.IssueVerification("ann@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_SessionExpiry(t *testing.T) {
	clock := &stepClock{now: testNow}
	tokens := NewTokenService(testConfig(), clock.Now)

	short, exp, err := tokens.IssueSession(testUser(), false)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(24*time.Hour), exp)

	long, exp, err := tokens.IssueSession(testUser(), true)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(30*24*time.Hour), exp)

	clock.now = testNow.Add(24*time.Hour - time.Second)
	_, err = tokens.ParseSession(short)
	assert.NoError(t, err)

	clock.now = testNow.Add(24*time.Hour + time.Second)
	_, err = tokens.ParseSession(short)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := tokens.ParseSession(long)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	clock.now = testNow.Add(30*24*time.Hour + time.Second)
	_, err = tokens.ParseSession(long)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerificationExpiry(t *testing.T) {
	clock := &stepClock{now: testNow}
	tokens := NewTokenService(testConfig(), clock.Now)

	token, err := tokens.IssueVerification("ann@x.com")
	require.NoError(t, err)

	clock.now = testNow.Add(25 * time.Hour)
	_, err = tokens.ParseVerification(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_PurposeIsEnforced(t *testing.T) {
	tokens := NewTokenService(testConfig(), fixedClock)

	verification, err := tokens.IssueVerification("ann@x.com")
	require.NoError(t, err)
	session, _, err := tokens.IssueSession(testUser(), false)
	require.NoError(t, err)

	_, err = tokens.ParseSession(verification)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.ParseVerification(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "another-secret-that-is-at-least-32-chars"
	foreign := NewTokenService(cfg, fixedClock)
	tokens := NewTokenService(testConfig(), fixedClock)

	session, _, err := foreign.IssueSession(testUser(), false)
	require.NoError(t, err)

	_, err = tokens.ParseSession(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsUnsignedToken(t *testing.T) {
	tokens := NewTokenService(testConfig(), fixedClock)

	claims := SessionClaims{
		UserID:  42,
		Email:   "ann@x.com",
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.ParseSession(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsTokenWithoutExpiry(t *testing.T) {
	tokens := NewTokenService(testConfig(), fixedClock)

	claims := SessionClaims{UserID: 42, Email: "ann@x.com", Purpose: PurposeSession}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tokens.ParseSession(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	tokens := NewTokenService(testConfig(), fixedClock)

	for _, raw := range []string{"", "abc", "a.b.c", "Bearer x.y.z"} {
		_, err := tokens.ParseSession(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}
