package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"softwire/internal/config"
	"softwire/internal/mailer"
	"softwire/internal/microservices/http-api/models"
	"softwire/internal/microservices/http-api/repository"
	"softwire/internal/middleware/auth"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// lastLoginTimeout bounds the background last_login write.
const lastLoginTimeout = 5 * time.Second

// AuthService is the authentication surface the HTTP layer depends on.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	ValidateSession(tokenString string) (*SessionClaims, error)
	// Shutdown waits for background writes started by Login.
	Shutdown(ctx context.Context) error
}

type RegisterInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required"`
	Password  string `validate:"required,min=8"`
}

type RegisterResult struct {
	User *models.User
	// EmailSent is false when the account exists but the verification
	// message could not be delivered.
	EmailSent bool
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

type LoginResult struct {
	Token       string
	ExpiresAt   time.Time
	User        *models.User
	RedirectURL string
}

type Option func(*authService)

// WithClock replaces the wall clock used for last_login timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *authService) { s.now = now }
}

type authService struct {
	userRepo    repository.UserRepository
	hasher      *auth.PasswordHasher
	tokens      *TokenService
	sender      mailer.Sender
	validate    *validator.Validate
	logger      *zap.Logger
	frontendURL string
	redirectURL string
	mailTimeout time.Duration
	verifyTTL   time.Duration
	now         func() time.Time
	background  sync.WaitGroup
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *TokenService,
	sender mailer.Sender,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) AuthService {
	s := &authService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokens:      tokens,
		sender:      sender,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		frontendURL: cfg.FrontendURL,
		redirectURL: cfg.LoginRedirectURL,
		mailTimeout: cfg.MailTimeout,
		verifyTTL:   cfg.VerificationTokenTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the input, stores a new unverified user and attempts to
// deliver the verification message.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if err := s.validateRegistration(in); err != nil {
		return nil, err
	}

	// fast path only; the unique index is what actually guards the email
	exists, err := s.userRepo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	verificationToken, err := s.tokens.IssueVerification(in.Email)
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}

	user := &models.User{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		PasswordHash:      passwordHash,
		EmailVerified:     false,
		VerificationToken: &verificationToken,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))

	return &RegisterResult{
		User:      user,
		EmailSent: s.deliverVerification(ctx, user, verificationToken),
	}, nil
}

// validateRegistration reports missing fields before a short password.
func (s *authService) validateRegistration(in RegisterInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}
	return ErrPasswordTooShort
}

// deliverVerification sends the verification message on a context that
// survives the client going away but not MAIL_TIMEOUT. Failures are logged
// and reported as false.
func (s *authService) deliverVerification(ctx context.Context, user *models.User, token string) bool {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
	defer cancel()

	err := s.sender.SendVerification(sendCtx, mailer.VerificationMessage{
		UserID:          user.ID,
		To:              user.Email,
		FirstName:       user.FirstName,
		VerificationURL: mailer.VerificationLink(s.frontendURL, token),
		ExpiresIn:       s.verifyTTL,
	})
	if err != nil {
		s.logger.Error("verification email could not be sent",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Login authenticates a verified user and issues a session token.
func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingLoginFields
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// spend the same bcrypt time as a real comparison
			s.hasher.VerifyDummy(ctx, in.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Verify(ctx, user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !user.EmailVerified {
		return nil, ErrUnverifiedAccount
	}

	token, expiresAt, err := s.tokens.IssueSession(user, in.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.touchLastLogin(user.ID)

	return &LoginResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		User:        user,
		RedirectURL: s.redirectURL,
	}, nil
}

// touchLastLogin records the login time without holding up the response.
func (s *authService) touchLastLogin(userID uint) {
	at := s.now()
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), lastLoginTimeout)
		defer cancel()
		if err := s.userRepo.UpdateLastLogin(ctx, userID, at); err != nil {
			s.logger.Warn("failed to update last login",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

// VerifyEmail consumes a verification token. Already-used, superseded,
// expired and forged tokens all yield ErrInvalidToken.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	claims, err := s.tokens.ParseVerification(token)
	if err != nil {
		return err
	}

	affected, err := s.userRepo.MarkEmailVerified(ctx, claims.Email, token)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if affected == 0 {
		return ErrInvalidToken
	}

	s.logger.Info("email verified")
	return nil
}

func (s *authService) ValidateSession(tokenString string) (*SessionClaims, error) {
	return s.tokens.ParseSession(tokenString)
}

func (s *authService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
