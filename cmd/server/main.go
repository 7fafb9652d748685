package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"referrals/docs"
	"referrals/internal/auth"
	"referrals/internal/cache"
	"referrals/internal/config"
	"referrals/internal/db"
	"referrals/internal/handler"
	"referrals/internal/logger"
	"referrals/internal/router"
	"referrals/internal/service"
	"referrals/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Candidate Referral API
// @version 1.0
// @description Referral tracker API: sign up, sign in and manage referred job candidates.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}()
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unavailable, continuing without cache", zap.Error(err))
	}

	blobs, err := newBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return err
	}

	// Initialize services
	userService := service.NewUserService(stores.Users, cacheClient)
	authService := service.NewAuthService(stores.Users, jwtService)
	candidateService := service.NewCandidateService(stores.Candidates, blobs, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	candidateHandler := handler.NewCandidateHandler(candidateService, cfg.MaxResumeBytes)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, log, auth.NewGate(jwtService, userService), authHandler, candidateHandler)

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr), zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newBlobStore returns the S3 store, or a store that rejects uploads when no
// bucket is configured.
func newBlobStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.BlobStore, error) {
	if !cfg.S3.Enabled() {
		log.Warn("S3_BUCKET not set, resume uploads are disabled")
		return storage.Disabled{}, nil
	}
	store, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("blob store init: %w", err)
	}
	return store, nil
}
