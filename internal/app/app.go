package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karpale/parkgate/internal/config"
	"github.com/karpale/parkgate/internal/postgres"
	"github.com/karpale/parkgate/internal/redis"
	"github.com/karpale/parkgate/internal/repository"
	"github.com/karpale/parkgate/internal/repository/memory"
	postgresrepo "github.com/karpale/parkgate/internal/repository/postgres"
	redisrepo "github.com/karpale/parkgate/internal/repository/redis"
	"github.com/karpale/parkgate/internal/service"
	"github.com/karpale/parkgate/internal/service/gate"
	"github.com/karpale/parkgate/internal/service/spots"
	httpgin "github.com/karpale/parkgate/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Storage
	var store repository.Store
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.Name,
			cfg.Postgres.SSLMode,
		)

		if err := postgres.Migrate(dsn); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}

		pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}

		store = postgresrepo.NewStore(pgxPool)
	case config.DriverMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Redis is optional: without it the service runs uncached, unlimited
	// and without idempotency replay.
	var (
		cache            *redisrepo.Cache
		pubsub           *redisrepo.SpotsPubSub
		limiter          *redisrepo.SlidingWindowLimiter
		idempotencyStore *redisrepo.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(context.Background(), redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}

		cache = redisrepo.New(rdb)
		pubsub = redisrepo.NewSpotsPubSub(rdb)
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "rl", 10, 1*time.Minute)
		idempotencyStore = redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)
	} else {
		logger.Warn("REDIS_ADDR not set, running without cache, rate limiting and idempotency")
	}

	// Services
	services := service.NewServices(store, cache, pubsub, limiter, logger, service.Config{
		Gate: gate.Config{BarredPolicy: gate.BarredPolicy(cfg.Gate.BarredPolicy)},
	})

	// Seed the lot layout on first start
	if cfg.Lot.Floors > 0 {
		created, err := services.Spots.InitializeLot(
			context.Background(),
			cfg.Lot.Floors,
			cfg.Lot.RowsPerFloor,
			cfg.Lot.SlotsPerRow,
		)
		switch {
		case errors.Is(err, spots.ErrLotInitialized):
			logger.Info("lot already initialized, skipping seed")
		case err != nil:
			return nil, fmt.Errorf("failed to seed lot layout: %w", err)
		default:
			logger.Info("lot layout seeded", "spots", created)
		}
	}

	// Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
