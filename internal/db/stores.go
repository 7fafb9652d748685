package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"referrals/internal/config"
	"referrals/internal/repository"
)

// Stores bundles the repositories for the configured backend.
type Stores struct {
	Users      repository.UserRepository
	Candidates repository.CandidateRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connections.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.DBDriver, prepares its schema
// and returns the repositories backed by it.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		gormDB, err := NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return gormStores(gormDB)
	case config.DriverPostgres:
		gormDB, err := NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return gormStores(gormDB)
	case config.DriverMongo:
		client, err := NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		stores, err := mongoStores(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		stores.close = client.Disconnect
		return stores, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

func gormStores(gormDB *gorm.DB) (*Stores, error) {
	if err := Migrate(gormDB); err != nil {
		_ = Close(gormDB)
		return nil, err
	}
	return &Stores{
		Users:      repository.NewUserRepository(gormDB),
		Candidates: repository.NewCandidateRepository(gormDB),
		close:      func(context.Context) error { return Close(gormDB) },
	}, nil
}

func mongoStores(ctx context.Context, database *mongo.Database) (*Stores, error) {
	users, err := repository.NewMongoUserRepository(ctx, database)
	if err != nil {
		return nil, err
	}
	candidates, err := repository.NewMongoCandidateRepository(ctx, database)
	if err != nil {
		return nil, err
	}
	return &Stores{Users: users, Candidates: candidates}, nil
}
