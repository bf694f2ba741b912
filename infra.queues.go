package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotQueue is the default queue id used to replicate the books document.
const SnapshotQueue = "books.snapshots"

// Book operations which produce a snapshot.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Snapshot is the full books document right after a successful write.
type Snapshot struct {
	Op     string    `json:"op"`
	BookID int       `json:"bookId"`
	At     time.Time `json:"at"`
	Books  []Book    `json:"books"`
}

// Queuer describes a queue.
type Queuer interface {
	Push(ctx context.Context, qid string, snap Snapshot) error
	Pop(ctx context.Context, qids ...string) (string, Snapshot, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues a snapshot onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, snap Snapshot) error {
	snapBytes, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, snapBytes).Err()
}

// Pop blocks until a snapshot is available on one of the queue ids and returns it.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, Snapshot, error) {
	var snap Snapshot
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, snap, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &snap); err != nil {
		return qid, snap, err
	}
	qid = infos[0]
	return qid, snap, nil
}
