package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	GetAll(ctx context.Context) ([]Book, error)
	GetAvailable(ctx context.Context) ([]Book, error)
	Add(ctx context.Context, nb NewBook) (Book, error)
	Update(ctx context.Context, id int, u BookUpdate) (Book, error)
	Delete(ctx context.Context, id int) (Book, error)
}

// BookService runs every operation as a full load, an in-memory change
// and a full save of the books document. The mutex only serializes the
// writers of this process. Other processes sharing the store still race.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	storage RecordStore
	queue   Queuer
	mu      sync.Mutex
}

// NewBookService provides a book service. The queue is optional
// and receives a snapshot of the books after each write.
func NewBookService(logger *zap.Logger, config *Config, clock Clocker, storage RecordStore, queue Queuer) *BookService {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		storage: storage,
		queue:   queue,
	}
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	return bs.storage.Load(ctx)
}

func (bs *BookService) GetAvailable(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAvailable(books), nil
}

func (bs *BookService) Add(ctx context.Context, nb NewBook) (Book, error) {
	if err := ValidateNewBook(&nb); err != nil {
		return Book{}, err
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	books, err := bs.storage.Load(ctx)
	if err != nil {
		return Book{}, err
	}
	book := Book{
		ID:        NextBookID(books),
		Title:     *nb.Title,
		Author:    *nb.Author,
		Available: *nb.Available,
	}
	books = append(books, book)
	if err = bs.storage.Save(ctx, books); err != nil {
		return Book{}, err
	}
	bs.publish(ctx, OpCreate, book.ID, books)
	return book, nil
}

func (bs *BookService) Update(ctx context.Context, id int, u BookUpdate) (Book, error) {
	if err := ValidateBookUpdate(&u); err != nil {
		return Book{}, err
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	books, err := bs.storage.Load(ctx)
	if err != nil {
		return Book{}, err
	}
	idx := FindBook(books, id)
	if idx == -1 {
		return Book{}, ErrBookNotFound
	}
	books[idx] = u.Apply(books[idx])
	if err = bs.storage.Save(ctx, books); err != nil {
		return Book{}, err
	}
	bs.publish(ctx, OpUpdate, id, books)
	return books[idx], nil
}

func (bs *BookService) Delete(ctx context.Context, id int) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	books, err := bs.storage.Load(ctx)
	if err != nil {
		return Book{}, err
	}
	idx := FindBook(books, id)
	if idx == -1 {
		return Book{}, ErrBookNotFound
	}
	deleted := books[idx]
	books = append(books[:idx], books[idx+1:]...)
	if err = bs.storage.Save(ctx, books); err != nil {
		return Book{}, err
	}
	bs.publish(ctx, OpDelete, id, books)
	return deleted, nil
}

// publish pushes the new state to the replication queue if any. A failure
// is logged only since the primary store was already written.
func (bs *BookService) publish(ctx context.Context, op string, id int, books []Book) {
	if bs.queue == nil {
		return
	}
	qid := SnapshotQueue
	if bs.config != nil && bs.config.Replica.Queue != "" {
		qid = bs.config.Replica.Queue
	}
	snap := Snapshot{Op: op, BookID: id, At: bs.clock.Now(), Books: books}
	if err := bs.queue.Push(ctx, qid, snap); err != nil {
		bs.logger.Error("service: failed to push snapshot to queue", zap.String("qid", qid), zap.String("op", op), zap.Error(err))
	}
}
