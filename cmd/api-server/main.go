package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"softwire/database"
	"softwire/internal/config"
	"softwire/internal/logger"
	"softwire/internal/mailer"
	httpapi "softwire/internal/microservices/http-api"
	"softwire/internal/microservices/http-api/middleware"
	"softwire/internal/microservices/http-api/repository"
	"softwire/internal/microservices/http-api/service"
	"softwire/internal/middleware/auth"

	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("api server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		return err
	}
	defer database.Close(db)

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		return err
	}

	sender, err := mailer.New(cfg, zl)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(cfg, zl)
	if err != nil {
		return err
	}
	defer closeLimiter()

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		hasher,
		service.NewTokenService(cfg, nil),
		sender,
		cfg,
		zl,
	)

	router, err := httpapi.NewRouter(cfg, authService, limiter, zl)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// register waits on bcrypt and the mail relay
		WriteTimeout: 30*time.Second + cfg.MailTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.GoEnv),
			zap.String("rate_limit_backend", cfg.RateLimitBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		zl.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http server shutdown", zap.Error(err))
	}
	if err := authService.Shutdown(shutdownCtx); err != nil {
		zl.Warn("background writes still pending at exit", zap.Error(err))
	}
	return nil
}

func newLimiter(cfg *config.Config, zl *zap.Logger) (middleware.Limiter, func(), error) {
	if cfg.RateLimitBackend != "redis" {
		return middleware.NewMemoryLimiter(nil), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	zl.Info("rate limiter using redis")
	return middleware.NewRedisLimiter(client, "softwire:rl"), func() { _ = client.Close() }, nil
}
