package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
	"github.com/vendorsaathi/vendor-admin/internal/infrastructure/db/memory"
	"github.com/vendorsaathi/vendor-admin/internal/infrastructure/db/mongo"
	"github.com/vendorsaathi/vendor-admin/internal/infrastructure/db/postgres"
	"github.com/vendorsaathi/vendor-admin/internal/pkg/config"
)

// openStore connects the configured store driver and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		store := postgres.New(db, log)
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return store, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		store := mongo.New(client, db, log)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return store, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
