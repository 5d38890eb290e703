package server

import (
	"context"
	"fmt"
	"log"

	"ratlist/internal/config"
	"ratlist/internal/database"
	"ratlist/internal/repositories"
	"ratlist/internal/session"
)

// Stores are the persistence backends selected by STORE_DRIVER.
type Stores struct {
	Users    repositories.UserRepository
	Tasks    repositories.TaskRepository
	Sessions session.Store

	close func(ctx context.Context) error
}

// Close releases the underlying database connection, if any.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores connects to the configured backend and prepares its schema.
// The relational and memory drivers keep sessions in process.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Printf("Using MongoDB database %s", cfg.MongoDatabase)
		return &Stores{
			Users:    repositories.NewMongoUserRepository(db),
			Tasks:    repositories.NewMongoTaskRepository(db),
			Sessions: session.NewMongoStore(db),
			close:    client.Disconnect,
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.OpenGorm(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateGorm(db); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		log.Printf("Using %s database", cfg.StoreDriver)
		return &Stores{
			Users:    repositories.NewGORMUserRepository(db),
			Tasks:    repositories.NewGORMTaskRepository(db),
			Sessions: session.NewMemoryStore(),
			close:    func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverMemory:
		log.Printf("Using in-memory store; data is lost on exit")
		return &Stores{
			Users:    repositories.NewMemoryUserRepository(),
			Tasks:    repositories.NewMemoryTaskRepository(),
			Sessions: session.NewMemoryStore(),
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
