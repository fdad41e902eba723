// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recruitment-backend/internal/applicants"
	"recruitment-backend/internal/applications"
	"recruitment-backend/internal/assessments"
	"recruitment-backend/internal/common/config"
	"recruitment-backend/internal/common/database"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/common/observability"
	"recruitment-backend/internal/companies"
	"recruitment-backend/internal/interviews"
	"recruitment-backend/internal/jobs"
	"recruitment-backend/internal/notify"
	"recruitment-backend/internal/organizer"
	"recruitment-backend/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recruitment API server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("api-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var cache *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		cache, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return cache.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer cache.Close()
	zapLog.Info("Redis connected successfully")

	// --- Notifications ---
	notifier, err := notify.New(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}

	// --- Domain services ---
	assessmentSvc, err := assessments.NewService(pg.DB, log)
	if err != nil {
		zapLog.Fatal("assessment service init failed", zap.Error(err))
	}

	svc := server.Services{
		Applicants:   applicants.NewService(pg.DB, log),
		Jobs:         jobs.NewService(pg.DB, log),
		Recommender:  jobs.NewRecommender(pg.DB, cache, cfg.Matching, log),
		Companies:    companies.NewService(pg.DB, log),
		Applications: applications.NewService(pg.DB, log),
		Assessments:  assessmentSvc,
		Interviews:   interviews.NewService(pg.DB, notifier, log),
		Organizer:    organizer.NewService(pg.DB, cache, cfg.Dashboard, log),
	}

	srv := server.New(cfg.Server, svc, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped")
}
