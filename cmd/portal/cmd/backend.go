package cmd

import (
	"context"
	"fmt"

	"github.com/99minutos/staff-portal/internal/api/handler"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/staff-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/staff-portal/internal/infrastructure/db/redis"
	"github.com/99minutos/staff-portal/pkg/logger"
)

// backend holds the storage the portal runs on.
type backend struct {
	users       ports.AuthRepository
	revocations ports.RevocationStore
	ready       map[string]handler.Pinger
	close       func(ctx context.Context)
}

func openMemory() *backend {
	return &backend{
		users:       memory.NewUserRepository(),
		revocations: memory.NewRevocationStore(),
		ready:       map[string]handler.Pinger{},
		close:       func(context.Context) {},
	}
}

func openPersistent(ctx context.Context) (*backend, error) {
	log := logger.Component("storage")

	db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = mongodb.Disconnect(ctx, db)
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = rdb.Close()
		_ = mongodb.Disconnect(ctx, db)
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}

	return &backend{
		users:       users,
		revocations: redisdb.NewRevocationStore(rdb),
		ready: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
		},
		close: func(ctx context.Context) {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("close redis")
			}
			if err := mongodb.Disconnect(ctx, db); err != nil {
				log.Error().Err(err).Msg("disconnect mongodb")
			}
		},
	}, nil
}
