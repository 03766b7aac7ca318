package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"softwire/database"
	"softwire/internal/config"
	"softwire/internal/mailer"
	"softwire/internal/microservices/http-api/middleware"
	"softwire/internal/microservices/http-api/repository"
	"softwire/internal/microservices/http-api/service"
	"softwire/internal/middleware/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// benchServer registers and verifies one account on a fresh in-memory store
// and returns a router with a limit high enough never to trip.
func benchServer(b *testing.B) (*gin.Engine, string) {
	b.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORSOrigins:          []string{"http://localhost:8000"},
		JWTSecret:            "benchmark-secret-of-at-least-32-chars",
		VerificationTokenTTL: 24 * time.Hour,
		SessionTTL:           24 * time.Hour,
		ExtendedSessionTTL:   720 * time.Hour,
		BcryptCost:           bcrypt.MinCost,
		HashConcurrency:      4,
		RateLimitMax:         1 << 30,
		RateLimitWindow:      time.Minute,
		MailTimeout:          time.Second,
		FrontendURL:          "http://localhost:8000",
	}

	db, err := database.Connect("file:"+uuid.NewString()+"?mode=memory&cache=shared", zap.NewNop())
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = database.Close(db) })

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		b.Fatal(err)
	}
	tokens := service.NewTokenService(cfg, nil)
	svc := service.NewAuthService(repository.NewUserRepository(db), hasher, tokens, mailer.NewLogSender(zap.NewNop(), false), cfg, zap.NewNop())
	b.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	router, err := NewRouter(cfg, svc, middleware.NewMemoryLimiter(nil), zap.NewNop())
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	if _, err := svc.Register(ctx, service.RegisterInput{FirstName: "Bench", LastName: "User", Email: "bench@x.com", Password: "Passw0rd!"}); err != nil {
		b.Fatal(err)
	}
	// verify with the token Register stored
	user, err := repository.NewUserRepository(db).FindByEmail(ctx, "bench@x.com")
	if err != nil {
		b.Fatal(err)
	}
	if err := svc.VerifyEmail(ctx, *user.VerificationToken); err != nil {
		b.Fatal(err)
	}

	res, err := svc.Login(ctx, service.LoginInput{Email: "bench@x.com", Password: "Passw0rd!"})
	if err != nil {
		b.Fatal(err)
	}
	return router, res.Token
}

func BenchmarkLogin(b *testing.B) {
	router, _ := benchServer(b)
	body, _ := json.Marshal(map[string]string{"email": "bench@x.com", "password": "Passw0rd!"})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				b.Errorf("login returned %d", w.Code)
			}
		}
	})
}

func BenchmarkVerifySession(b *testing.B) {
	router, token := benchServer(b)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/api/verify", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				b.Errorf("verify returned %d", w.Code)
			}
		}
	})
}
