package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"coursequiz/internal/config"
	"coursequiz/internal/logging"
	"coursequiz/internal/progress"
	"coursequiz/internal/questionbank"
	"coursequiz/internal/quiz"
	"coursequiz/internal/server"
)

// Application aggregates shared infrastructure (question bank, cache, HTTP
// server). Postgres and Redis are both optional: without them the app runs
// self-contained on the embedded dataset and an in-process progress store.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool    *pgxpool.Pool
	redis   *redis.Client
	manager *quiz.Manager
	http    *http.Server
}

// New bootstraps config, logger, question bank, progress cache, session
// manager, and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	var pool *pgxpool.Pool
	var bank *questionbank.Store
	var err error
	if cfg.Postgres.Enabled() {
		pool, err = pgxpool.New(ctx, cfg.Postgres.DSN()+"&pool_max_conns=10")
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		bank, err = questionbank.LoadFromPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("load question bank: %w", err)
		}
		logger.Info().Int("weeks", len(bank.Weeks())).Msg("question bank loaded from postgres")
	} else {
		bank, err = questionbank.LoadSeed()
		if err != nil {
			return nil, fmt.Errorf("load question bank: %w", err)
		}
		logger.Info().Int("weeks", len(bank.Weeks())).Msg("question bank loaded from embedded seed")
	}

	var redisClient *redis.Client
	var kv progress.KV
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		kv = progress.NewRedisKV(redisClient)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("progress cache backed by redis")
	} else {
		kv = progress.NewMemoryKV()
		logger.Warn().Msg("REDIS_ADDR not set; progress cache is in-process only")
	}

	cache := progress.New(kv, nil, cfg.Quiz.ProgressExpiry, logger)

	manager := quiz.NewManager(bank, cache, quiz.SystemClock(), quiz.ManagerOptions{
		AutoAdvanceSeconds: cfg.Quiz.AutoAdvanceSeconds,
		TickInterval:       cfg.Quiz.TickInterval,
	}, logger)

	handlers := server.NewHandlers(manager, bank, logger)
	apiServer := server.NewHTTPServer(cfg, handlers)

	return &Application{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		redis:   redisClient,
		manager: manager,
		http:    apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.manager.Shutdown()

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
