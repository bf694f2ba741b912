package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// replicaConsumer saves every popped snapshot into the replica store.
type replicaConsumer struct {
	logger *zap.Logger
	queue  Queuer
	repo   RecordStore
}

func NewReplicaConsumer(logger *zap.Logger, q Queuer, repo RecordStore) Consumer {
	return &replicaConsumer{logger, q, repo}
}

// Consume runs until the context is done. Older snapshots are skipped
// when a newer one was already applied.
func (rc *replicaConsumer) Consume(ctx context.Context, qids ...string) error {
	var last Snapshot
	for {
		qid, snap, err := rc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			rc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			rc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if !last.At.IsZero() && snap.At.Before(last.At) {
			rc.logger.Warn("consumer: skipping outdated snapshot",
				zap.String("qid", qid),
				zap.String("op", snap.Op),
				zap.Int("book.id", snap.BookID),
			)
			continue
		}

		switch snap.Op {
		case OpCreate, OpUpdate, OpDelete:
			if err = rc.repo.Save(ctx, snap.Books); err != nil {
				rc.logger.Error("consumer: failed to save snapshot",
					zap.String("op", snap.Op),
					zap.Int("book.id", snap.BookID),
					zap.Error(err),
				)
				continue
			}
			last = snap
			rc.logger.Debug("consumer: snapshot replicated", zap.String("op", snap.Op), zap.Int("books", len(snap.Books)))
		default:
			rc.logger.Warn("consumer: received snapshot with unknown operation", zap.String("qid", qid), zap.String("op", snap.Op))
		}
	}
}
