package main

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReplicaKeySuffix names the replica document next to the primary one.
const ReplicaKeySuffix = ".replica"

// Backends holds the clients opened for the configured record stores.
type Backends struct {
	Redis    *redis.Client
	Bolt     *bolt.DB
	Postgres *pgxpool.Pool
}

// OpenBackends connects only to the servers required by the configuration.
func OpenBackends(ctx context.Context, config *Config) (*Backends, error) {
	var err error
	b := &Backends{}

	if config.NeedsRedis() {
		b.Redis, err = GetRedisClient(config)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
	}

	if config.NeedsBolt() {
		b.Bolt, err = GetBoltDBClient(config)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to boltDB server: %s", err)
		}
	}

	if config.Storage.Kind == StoragePostgres {
		b.Postgres, err = GetPostgresPool(ctx, config)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to postgres server: %s", err)
		}
	}
	return b, nil
}

// Close releases every opened client.
func (b *Backends) Close() {
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
	if b.Bolt != nil {
		_ = b.Bolt.Close()
	}
	if b.Postgres != nil {
		b.Postgres.Close()
	}
}

// NewRecordStore provides the primary record store selected by the configuration.
func NewRecordStore(logger *zap.Logger, config *Config, b *Backends) (RecordStore, error) {
	logger = logger.With(zap.String("storage.kind", config.Storage.Kind))
	switch config.Storage.Kind {
	case StorageFile:
		return NewFileRecordStore(logger, config.Storage.FilePath)
	case StorageBolt:
		return NewBoltRecordStore(logger, &config.BoltDB, b.Bolt, config.Storage.Key), nil
	case StorageRedis:
		return NewRedisRecordStore(logger, b.Redis, config.Storage.Key), nil
	case StoragePostgres:
		return NewPostgresRecordStore(logger, b.Postgres, config.Storage.Key), nil
	}
	return nil, fmt.Errorf("unknown storage kind %q", config.Storage.Kind)
}

// NewReplicaStore provides the boltdb record store receiving the snapshots.
func NewReplicaStore(logger *zap.Logger, config *Config, b *Backends) RecordStore {
	return NewBoltRecordStore(logger.With(zap.String("storage.kind", "replica")), &config.BoltDB, b.Bolt, config.Storage.Key+ReplicaKeySuffix)
}
