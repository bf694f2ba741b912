package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisRecordStore struct {
	logger *zap.Logger
	client *redis.Client
	key    string
}

// NewRedisRecordStore provides a record store which keeps the whole books document in a redis string.
func NewRedisRecordStore(logger *zap.Logger, client *redis.Client, key string) RecordStore {
	return &redisRecordStore{
		logger: logger,
		client: client,
		key:    key,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Load retrieves the books document.
func (rs *redisRecordStore) Load(ctx context.Context) ([]Book, error) {
	data, err := rs.client.Get(ctx, rs.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Book{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeBooks(data)
}

// Save replaces the books document.
func (rs *redisRecordStore) Save(ctx context.Context, books []Book) error {
	data, err := EncodeBooks(books)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, rs.key, data, 0).Err()
}
