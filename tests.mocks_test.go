package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

type MockRecordStore struct {
	LoadFunc func(ctx context.Context) ([]Book, error)
	SaveFunc func(ctx context.Context, books []Book) error
}

// Load mocks the behavior of reading the books document.
func (m *MockRecordStore) Load(ctx context.Context) ([]Book, error) {
	return m.LoadFunc(ctx)
}

// Save mocks the behavior of writing the books document.
func (m *MockRecordStore) Save(ctx context.Context, books []Book) error {
	return m.SaveFunc(ctx, books)
}

// memRecordStore is a working in-memory record store. It counts the saves
// and hands out copies so tests can compare states before and after calls.
type memRecordStore struct {
	mu    sync.Mutex
	books []Book
	saves int
}

func newMemRecordStore(books ...Book) *memRecordStore {
	return &memRecordStore{books: append([]Book{}, books...)}
}

func (m *memRecordStore) Load(_ context.Context) ([]Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Book{}, m.books...), nil
}

func (m *memRecordStore) Save(_ context.Context, books []Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = append([]Book{}, books...)
	m.saves++
	return nil
}

func (m *memRecordStore) snapshot() []Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Book{}, m.books...)
}

func (m *memRecordStore) savesCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// MockQueue is a channel based Queuer.
type MockQueue struct {
	PushFunc func(ctx context.Context, qid string, snap Snapshot) error
	items    chan queuedSnapshot
}

type queuedSnapshot struct {
	qid  string
	snap Snapshot
}

func NewMockQueue(size int) *MockQueue {
	return &MockQueue{items: make(chan queuedSnapshot, size)}
}

// Push records the snapshot unless PushFunc is set.
func (m *MockQueue) Push(ctx context.Context, qid string, snap Snapshot) error {
	if m.PushFunc != nil {
		return m.PushFunc(ctx, qid, snap)
	}
	m.items <- queuedSnapshot{qid, snap}
	return nil
}

// Pop blocks until a snapshot is pushed or the context is done.
func (m *MockQueue) Pop(ctx context.Context, _ ...string) (string, Snapshot, error) {
	select {
	case <-ctx.Done():
		return "", Snapshot{}, ctx.Err()
	case item := <-m.items:
		return item.qid, item.snap, nil
	}
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// newTestAPIHandler builds an api handler over the given store.
func newTestAPIHandler(store RecordStore) *APIHandler {
	bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), store, nil)
	return NewAPIHandler(zap.NewNop(), nil, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("test", false), bs)
}
