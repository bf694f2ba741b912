package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/boltdb/bolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltClient opens a bolt database in a temporary path.
func newTestBoltClient(t *testing.T) (*bolt.DB, *Config) {
	t.Helper()
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	require.NoError(t, err)
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.books",
		},
	}

	client, err := GetBoltDBClient(testConfig)
	require.NoError(t, err, "failed in creating a test bolt store")
	t.Cleanup(func() {
		client.Close()
		os.Remove(testConfig.BoltDB.FilePath)
	})
	return client, testConfig
}

// Ensure a missing document loads as an empty list.
func TestBoltStore_LoadEmpty(t *testing.T) {
	client, config := newTestBoltClient(t)
	bs := NewBoltRecordStore(zap.NewNop(), &config.BoltDB, client, "books")

	books, err := bs.Load(context.TODO())
	assert.NoError(t, err)
	assert.NotNil(t, books)
	assert.Len(t, books, 0)
}

// Ensure bolt store keeps the whole document between save and load.
func TestBoltStore_SaveLoad(t *testing.T) {
	client, config := newTestBoltClient(t)
	bs := NewBoltRecordStore(zap.NewNop(), &config.BoltDB, client, "books")

	err := bs.Save(context.TODO(), sampleBooks())
	require.NoError(t, err)

	books, err := bs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, sampleBooks(), books)

	// a save overwrites the previous document.
	err = bs.Save(context.TODO(), sampleBooks()[:1])
	require.NoError(t, err)
	books, err = bs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, sampleBooks()[:1], books)
}

// Ensure two keys of the same bucket are independent documents.
func TestBoltStore_SeparateKeys(t *testing.T) {
	client, config := newTestBoltClient(t)
	primary := NewBoltRecordStore(zap.NewNop(), &config.BoltDB, client, "books")
	replica := NewBoltRecordStore(zap.NewNop(), &config.BoltDB, client, "books"+ReplicaKeySuffix)

	require.NoError(t, primary.Save(context.TODO(), sampleBooks()))
	books, err := replica.Load(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, books)
}

// Ensure a malformed document is reported.
func TestBoltStore_Malformed(t *testing.T) {
	client, config := newTestBoltClient(t)
	err := client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(config.BoltDB.BucketName)).Put([]byte("books"), []byte("{not json"))
	})
	require.NoError(t, err)

	bs := NewBoltRecordStore(zap.NewNop(), &config.BoltDB, client, "books")
	_, err = bs.Load(context.TODO())
	assert.Error(t, err)
}

// Ensure a cancelled context aborts the calls.
func TestBoltStore_CancelledContext(t *testing.T) {
	client, config := newTestBoltClient(t)
	bs := NewBoltRecordStore(zap.NewNop(), &config.BoltDB, client, "books")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bs.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, bs.Save(ctx, sampleBooks()), context.Canceled)
}
