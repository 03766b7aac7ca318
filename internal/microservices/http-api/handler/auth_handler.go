package handler

import (
	"errors"
	"net/http"

	"softwire/internal/microservices/http-api/dto"
	"softwire/internal/microservices/http-api/middleware"
	"softwire/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	msgMissingFields       = "All fields are required"
	msgPasswordTooShort    = "Password must be at least 8 characters long"
	msgEmailExists         = "An account with this email already exists"
	msgRegistered          = "Registration successful! Please check your email for verification."
	msgRegisteredNoEmail   = "Account created successfully, but verification email could not be sent. Please contact support."
	msgMissingLoginFields  = "Email and password are required"
	msgInvalidCredentials  = "Invalid email or password"
	msgUnverified          = "Please verify your email address before logging in"
	msgMissingToken        = "Verification token is required"
	msgInvalidVerification = "Invalid or expired verification token"
	msgVerified            = "Email verified successfully! You can now log in."
	msgInternal            = "Internal server error"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, limiter gin.HandlerFunc) {
	rg.POST("/register", limiter, h.Register)
	rg.POST("/login", limiter, h.Login)
	rg.GET("/verify-email", h.VerifyEmail)
	rg.GET("/verify", middleware.AuthMiddleware(h.authService), h.Verify)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgMissingFields)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPasswordTooShort):
		respondMessage(c, http.StatusBadRequest, msgPasswordTooShort)
		return
	case errors.Is(err, service.ErrValidation):
		respondMessage(c, http.StatusBadRequest, msgMissingFields)
		return
	case errors.Is(err, service.ErrEmailExists):
		respondMessage(c, http.StatusBadRequest, msgEmailExists)
		return
	default:
		h.internalError(c, "registration failed", err)
		return
	}

	message := msgRegistered
	if !result.EmailSent {
		message = msgRegisteredNoEmail
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Success:   true,
		Message:   message,
		EmailSent: result.EmailSent,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgMissingLoginFields)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		respondMessage(c, http.StatusBadRequest, msgMissingLoginFields)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		respondMessage(c, http.StatusBadRequest, msgInvalidCredentials)
		return
	case errors.Is(err, service.ErrUnverifiedAccount):
		respondMessage(c, http.StatusBadRequest, msgUnverified)
		return
	default:
		h.internalError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Token:   result.Token,
		User: dto.UserResponse{
			ID:        result.User.ID,
			FirstName: result.User.FirstName,
			LastName:  result.User.LastName,
			Email:     result.User.Email,
		},
		RedirectURL: result.RedirectURL,
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	err := h.authService.VerifyEmail(c.Request.Context(), c.Query("token"))
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, msgVerified)
	case errors.Is(err, service.ErrValidation):
		respondMessage(c, http.StatusBadRequest, msgMissingToken)
	case errors.Is(err, service.ErrInvalidToken):
		respondMessage(c, http.StatusBadRequest, msgInvalidVerification)
	default:
		h.internalError(c, "email verification failed", err)
	}
}

// Verify answers for a request that already passed AuthMiddleware.
func (h *AuthHandler) Verify(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		h.internalError(c, "session claims missing from context", errors.New("no claims"))
		return
	}
	c.JSON(http.StatusOK, dto.VerifyResponse{Success: true, User: claims})
}

func (h *AuthHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	)
	respondMessage(c, http.StatusInternalServerError, msgInternal)
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.MessageResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
	})
}
