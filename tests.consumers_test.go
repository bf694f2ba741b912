package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func runConsumer(t *testing.T, queue *MockQueue, repo RecordStore) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewReplicaConsumer(zap.NewNop(), queue, repo).Consume(ctx, SnapshotQueue) }()
	return cancel, done
}

func TestReplicaConsumer(t *testing.T) {
	t.Run("snapshots are saved", func(t *testing.T) {
		queue := NewMockQueue(2)
		replica := newMemRecordStore()
		cancel, done := runConsumer(t, queue, replica)
		defer cancel()

		at := NewMockClocker().Now()
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpCreate, BookID: 1, At: at, Books: sampleBooks()[:1]})
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpCreate, BookID: 2, At: at.Add(time.Second), Books: sampleBooks()[:2]})

		assert.Eventually(t, func() bool { return replica.savesCount() == 2 }, time.Second, 10*time.Millisecond)
		assert.Equal(t, sampleBooks()[:2], replica.snapshot())

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("outdated and unknown snapshots are skipped", func(t *testing.T) {
		queue := NewMockQueue(4)
		replica := newMemRecordStore()
		cancel, done := runConsumer(t, queue, replica)
		defer cancel()

		at := NewMockClocker().Now()
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpUpdate, BookID: 1, At: at, Books: sampleBooks()})
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpUpdate, BookID: 1, At: at.Add(-time.Minute), Books: []Book{}})
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: "truncate", At: at.Add(time.Minute), Books: []Book{}})
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpDelete, BookID: 5, At: at.Add(time.Hour), Books: sampleBooks()[:2]})

		assert.Eventually(t, func() bool { return replica.savesCount() == 2 }, time.Second, 10*time.Millisecond)
		assert.Equal(t, sampleBooks()[:2], replica.snapshot())

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("save failure does not stop the consumer", func(t *testing.T) {
		queue := NewMockQueue(2)
		saved := make(chan []Book, 2)
		calls := 0
		repo := &MockRecordStore{
			SaveFunc: func(ctx context.Context, books []Book) error {
				calls++
				if calls == 1 {
					return errors.New("replica down")
				}
				saved <- books
				return nil
			},
		}
		cancel, done := runConsumer(t, queue, repo)
		defer cancel()

		at := NewMockClocker().Now()
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpCreate, BookID: 1, At: at, Books: sampleBooks()[:1]})
		_ = queue.Push(context.Background(), SnapshotQueue, Snapshot{Op: OpCreate, BookID: 2, At: at, Books: sampleBooks()[:2]})

		select {
		case books := <-saved:
			assert.Equal(t, sampleBooks()[:2], books)
		case <-time.After(time.Second):
			t.Fatal("second snapshot was not saved")
		}

		cancel()
		assert.NoError(t, <-done)
	})
}
