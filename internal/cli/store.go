package cli

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"trivia-rounds/internal/app"
	"trivia-rounds/internal/config"
	"trivia-rounds/internal/infra/memory"
	pgstore "trivia-rounds/internal/infra/postgres"
	redisstore "trivia-rounds/internal/infra/redis"
	"trivia-rounds/internal/logging"
)

// loadConfig falls back to defaults when the config file does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Log.Warnf("config %s not found, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}

// openStateRepository picks the durable store: Postgres when configured, fronted
// by Redis when both are set, otherwise Redis alone, otherwise memory.
func openStateRepository(ctx context.Context, cfg config.Config) (app.StateRepository, func(), error) {
	var (
		repo    app.StateRepository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		repo = pgstore.NewStateStore(pool, cfg.Game.Namespace)
		logging.Log.Info("using postgres game store")
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		ttl := config.TTLDuration(cfg.Redis.TTL, 0)
		repo = redisstore.NewStateStoreWithBacking(client, cfg.Game.Namespace, ttl, repo)
		logging.Log.Info("using redis game store")
	}

	if repo == nil {
		repo = memory.NewStateStore()
		logging.Log.Warn("no durable store configured, game state lives in memory only")
	}
	return repo, closeAll, nil
}
