package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadscore_backend/internal/events"
	"leadscore_backend/internal/notification"
	"leadscore_backend/internal/scheduler"
	"leadscore_backend/internal/scoring"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/db"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	notification.NewModule(log).RegisterHandlers(eventBus)
	val := validator.New()

	var redisClient *redis.Client
	if cfg.IsRedisEnabled() {
		if opt, err := redis.ParseURL(cfg.GetRedisURL()); err == nil {
			redisClient = redis.NewClient(opt)
			defer func() { _ = redisClient.Close() }()
		} else {
			log.Error("invalid redis url; caching disabled", "error", err)
		}
	}

	// Worker-side scoring wiring; no HTTP handlers are mounted here, so the
	// rescore enqueuer is not needed.
	scoringModule, err := scoring.NewModule(ctx, pool, redisClient, eventBus, val, cfg, log, nil)
	if err != nil {
		log.Error("failed to initialize scoring module", "error", err)
		panic("failed to initialize scoring module: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, scoringModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("scheduler worker running", "queue", cfg.AsynqQueueName, "benchmarkInterval", cfg.BenchmarkInterval)
	worker.Run(ctx)
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}
