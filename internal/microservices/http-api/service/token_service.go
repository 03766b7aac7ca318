package service

import (
	"errors"
	"fmt"
	"time"

	"softwire/internal/config"
	"softwire/internal/microservices/http-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token minted for one purpose is rejected for the other.
const (
	PurposeEmailVerification = "email_verification"
	PurposeSession           = "session"
)

// VerificationClaims is the payload of an e-mail verification token.
type VerificationClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionClaims is the self-contained identity carried by a session token.
type SessionClaims struct {
	UserID    uint   `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with the server secret.
type TokenService struct {
	secret             []byte
	verificationTTL    time.Duration
	sessionTTL         time.Duration
	extendedSessionTTL time.Duration
	now                func() time.Time
}

// NewTokenService builds a TokenService from the configuration. now may be
// nil, in which case the wall clock is used.
func NewTokenService(cfg *config.Config, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret:             []byte(cfg.JWTSecret),
		verificationTTL:    cfg.VerificationTokenTTL,
		sessionTTL:         cfg.SessionTTL,
		extendedSessionTTL: cfg.ExtendedSessionTTL,
		now:                now,
	}
}

// IssueVerification mints a verification token for email. Every call yields
// a distinct token.
func (s *TokenService) IssueVerification(email string) (string, error) {
	now := s.now()
	claims := VerificationClaims{
		Email:   email,
		Purpose: PurposeEmailVerification,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.verificationTTL)),
		},
	}
	return s.sign(claims)
}

// ParseVerification validates signature, expiry and purpose and returns the
// embedded claims.
func (s *TokenService) ParseVerification(tokenString string) (*VerificationClaims, error) {
	claims := &VerificationClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeEmailVerification || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueSession mints a session token for user. extended selects the long
// ("remember me") lifetime.
func (s *TokenService) IssueSession(user *models.User, extended bool) (string, time.Time, error) {
	ttl := s.sessionTTL
	if extended {
		ttl = s.extendedSessionTTL
	}
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := SessionClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Purpose:   PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := s.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseSession validates signature, expiry and purpose and returns the
// identity carried by the token.
func (s *TokenService) ParseSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeSession || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims) error {
	if tokenString == "" {
		return ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
