package server

import (
	"context"
	"fmt"

	"github.com/itsatony/irrigador/internal/config"
	"github.com/itsatony/irrigador/internal/database"
	"github.com/itsatony/irrigador/internal/repository"
	"github.com/itsatony/irrigador/internal/repository/dynamo"
	"github.com/itsatony/irrigador/internal/repository/memory"
	"github.com/itsatony/irrigador/internal/repository/redisstore"
	"github.com/itsatony/irrigador/internal/repository/timescale"
	"github.com/itsatony/irrigador/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Backend bundles the service with the stores it was built from.
// Tokens is nil when the auth gate is off.
type Backend struct {
	Service *service.Service
	Tokens  repository.TokenRepository
	closers []func() error
}

// Close releases every connection opened by BuildBackend
func (b *Backend) Close() {
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			nuts.L.Warnf("[Server] Error closing backend resource: %v", err)
		}
	}
}

// BuildBackend connects the configured snapshot store and, when auth is
// required, the Redis token store.
func BuildBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	snapshots, err := b.snapshotRepository(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}

	if cfg.Auth.Required {
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		b.Tokens = redisstore.NewTokenStore(client, cfg.Auth.TokenKeyPrefix)
		nuts.L.Infof("[Server] Auth gate enabled, verifying tokens against Redis at %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}

	b.Service = service.New(snapshots)
	if err := b.Service.Validate(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) snapshotRepository(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverTimescale:
		db, err := database.NewTimescaleDB(cfg.Database.TimescaleDB)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)

		repo := timescale.NewSnapshotRepository(db)
		if err := repo.InitializeSchema(ctx); err != nil {
			return nil, err
		}
		nuts.L.Infof("[Server] Using TimescaleDB snapshot store at %s:%d", cfg.Database.TimescaleDB.Host, cfg.Database.TimescaleDB.Port)
		return repo, nil

	case config.DriverDynamoDB:
		client, err := database.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		nuts.L.Infof("[Server] Using DynamoDB snapshot table %s", cfg.DynamoDB.TableName)
		return dynamo.NewSnapshotStore(client, cfg.DynamoDB.TableName), nil

	case config.DriverMemory:
		nuts.L.Warnf("[Server] Using in-memory snapshot store, data is not persisted")
		return memory.NewSnapshotRepository(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
