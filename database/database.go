package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binderhq/binder"
	"github.com/binderhq/binder/database/postgres"
	"github.com/binderhq/binder/database/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the configuration for connecting to an item store backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// MaxConns bounds the postgres connection pool. The pool is the
	// system's only admission control, so keep it finite.
	MaxConns int32 `mapstructure:"max_conns" validate:"min=1"`
	// Tables configures the items table name
	Tables binder.Tables `mapstructure:"tables"`
	// AutoMigrate runs migrations on connect
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Connect establishes a connection to the configured backend, optionally
// runs migrations, validates the schema, and returns an ItemRepo.
// The returned cleanup function should be called to close the connection.
func Connect(ctx context.Context, cfg Config) (binder.ItemRepo, func(), error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		return connectSQLite(ctx, cfg)
	case "postgres":
		return connectPostgres(ctx, cfg)
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func connectSQLite(ctx context.Context, cfg Config) (binder.ItemRepo, func(), error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if cfg.AutoMigrate {
		if err = sqlite.Migrate(ctx, db, cfg.Tables); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	}

	repo, err := sqlite.NewRepo(db, cfg.Tables)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create sqlite repo: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return repo, cleanup, nil
}

func connectPostgres(ctx context.Context, cfg Config) (binder.ItemRepo, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.AutoMigrate {
		if err = postgres.Migrate(ctx, pool, cfg.Tables); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}

	if err = postgres.ValidateSchema(ctx, pool, cfg.Tables); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	repo, err := postgres.NewRepo(pool, cfg.Tables)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create postgres repo: %w", err)
	}

	return repo, pool.Close, nil
}
