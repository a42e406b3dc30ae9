package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habit-sync/internal/config"
	"habit-sync/internal/feed"
	"habit-sync/internal/infrastructure/cron"
	"habit-sync/internal/infrastructure/db"
	"habit-sync/internal/infrastructure/kafka"
	"habit-sync/internal/infrastructure/postgres"
	redisinfra "habit-sync/internal/infrastructure/redis"
	"habit-sync/internal/leaderboard"
	"habit-sync/internal/stats"
	"habit-sync/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires the sync core to its infrastructure and manages lifecycle
type App struct {
	cfg *config.Config

	pool        *pgxpool.Pool
	redisClient *redis.Client
	producer    *kafka.FeedProducer

	store       *store.Store
	feed        *feed.Service
	leaderboard *leaderboard.Service
	verifier    *cron.StreakVerifier
}

// New creates the application with all dependencies wired
func New(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	notifier := redisinfra.NewNotifier(redisClient)

	habitRepo := postgres.NewHabitRepository(pool, notifier)
	completionRepo := postgres.NewCompletionRepository(pool, notifier)
	statsRepo := postgres.NewWeeklyStatsRepository(pool)

	aggregator := stats.NewAggregator(completionRepo, statsRepo)

	producer := kafka.NewFeedProducer(&cfg.Kafka)

	st := store.New(habitRepo, completionRepo, aggregator, producer)
	st.SetSyncErrorHandler(func(err error) {
		log.Printf("sync error: %v", err)
	})

	lbCache := redisinfra.NewLeaderboardCache(redisClient, cfg.Redis.LeaderboardTTL)

	app := &App{
		cfg:         cfg,
		pool:        pool,
		redisClient: redisClient,
		producer:    producer,
		store:       st,
		feed:        feed.NewService(completionRepo, habitRepo, cfg.Sync.FeedLimit),
		leaderboard: leaderboard.NewService(statsRepo, lbCache),
	}

	if cfg.Scheduler.Enabled {
		app.verifier = cron.NewStreakVerifier(st, cfg.Sync.UserID, cfg.Scheduler.CheckInterval)
	}

	return app, nil
}

// Store exposes the habit store for embedding callers
func (a *App) Store() *store.Store {
	return a.store
}

// Feed exposes the activity feed service
func (a *App) Feed() *feed.Service {
	return a.feed
}

// Leaderboard exposes the weekly leaderboard service
func (a *App) Leaderboard() *leaderboard.Service {
	return a.leaderboard
}

// Run loads the signed-in user's data, starts the push subscriptions and the
// streak verifier, and blocks until a shutdown signal arrives
func (a *App) Run() error {
	userID := a.cfg.Sync.UserID
	if userID == "" {
		return fmt.Errorf("sync user id is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	habits, err := a.store.Load(ctx, userID)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to load habits: %w", err)
	}
	cancel()
	log.Printf("Loaded %d habits for user %s", len(habits), userID)

	if err := a.store.Start(context.Background(), userID); err != nil {
		return fmt.Errorf("failed to start sync subscriptions: %w", err)
	}

	if a.verifier != nil {
		if err := a.verifier.Start(); err != nil {
			return fmt.Errorf("failed to start streak verifier: %w", err)
		}
	}

	log.Printf("%s started (environment: %s)", a.cfg.Service.Name, a.cfg.Service.Environment)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	a.shutdown()
	log.Println("Shutdown complete")

	return nil
}

// shutdown tears down in reverse dependency order
func (a *App) shutdown() {
	if a.verifier != nil {
		a.verifier.Stop()
	}

	a.store.Close()

	if err := a.producer.Close(); err != nil {
		log.Printf("Error closing feed producer: %v", err)
	}

	if err := a.redisClient.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}

	a.pool.Close()
}
