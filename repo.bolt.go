package main

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltRecordStore struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
	key    []byte
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltRecordStore provides a record store which keeps the whole
// books document under a single key of the configured bucket.
func NewBoltRecordStore(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB, key string) RecordStore {
	return &boltRecordStore{
		logger: logger,
		client: client,
		config: boltConfig,
		key:    []byte(key),
	}
}

// Load retrieves the books document from the bucket.
func (bs *boltRecordStore) Load(ctx context.Context) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	bucket := tx.Bucket([]byte(bs.config.BucketName))
	if bucket == nil {
		return nil, fmt.Errorf("bucket %s not found", bs.config.BucketName)
	}
	// the value is only valid during the transaction and DecodeBooks copies it.
	return DecodeBooks(bucket.Get(bs.key))
}

// Save replaces the books document in the bucket.
func (bs *boltRecordStore) Save(ctx context.Context, books []Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeBooks(books)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put(bs.key, data)
	})
}
