package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/seminar-planner/internal/config"
	"github.com/pkordes/seminar-planner/internal/repo"
	"github.com/pkordes/seminar-planner/internal/workspace"
)

// openPlanRepo connects the plan store selected by cfg.StoreDriver, migrating
// its schema when configured to. The returned func releases the connection.
func openPlanRepo(ctx context.Context, cfg config.Config) (repo.PlanRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return openPostgres(ctx, cfg)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (repo.PlanRepo, func(), error) {
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	if cfg.MigrateOnStart {
		// goose drives database/sql; borrow a handle backed by the same pool.
		db := stdlib.OpenDBFromPool(pool)
		err := repo.MigratePostgres(ctx, db)
		db.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return repo.NewPlanRepo(pool), pool.Close, nil
}

func openSQLite(ctx context.Context, cfg config.Config) (repo.PlanRepo, func(), error) {
	db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MigrateOnStart {
		if err := repo.MigrateSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return repo.NewSQLitePlanRepo(db), func() { db.Close() }, nil
}

func openMongo(ctx context.Context, cfg config.Config) (repo.PlanRepo, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Warn("mongo disconnect", "error", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	coll := client.Database(cfg.MongoDatabase).Collection(repo.PlanCollection)
	if cfg.MigrateOnStart {
		if err := repo.EnsureMongoIndexes(ctx, coll); err != nil {
			disconnect()
			return nil, nil, err
		}
	}
	return repo.NewMongoPlanRepo(coll), disconnect, nil
}

// openDraftStore returns the Redis draft store when REDIS_ADDR is set and an
// in-process store otherwise.
func openDraftStore(ctx context.Context, cfg config.Config) (workspace.Store, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("drafts kept in memory", "ttl", cfg.DraftTTL.String())
		return workspace.NewMemoryStore(cfg.DraftTTL), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("drafts kept in redis", "addr", cfg.RedisAddr, "ttl", cfg.DraftTTL.String())
	return workspace.NewRedisStore(rdb, cfg.DraftTTL), func() { rdb.Close() }, nil
}
