package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer serves the full router over the given store.
func newTestServer(t *testing.T, store RecordStore) *BooksClient {
	t.Helper()
	_, router := newTestRouter(store, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewBooksClient(srv.URL+"/", 5*time.Second)
}

func TestBooksClient(t *testing.T) {
	store := newMemRecordStore(sampleBooks()...)
	client := newTestServer(t, store)
	ctx := context.Background()

	books, err := client.ListBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleBooks(), books)

	available, err := client.ListAvailableBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	book, err := client.CreateBook(ctx, "Kindred", "Octavia Butler", false)
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 6, Title: "Kindred", Author: "Octavia Butler", Available: false}, book)

	book, err = client.UpdateBook(ctx, 6, BookUpdate{Available: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, book.Available)
	assert.Equal(t, "Kindred", book.Title)

	book, err = client.DeleteBook(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Emma", book.Title)

	_, err = client.DeleteBook(ctx, 2)
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusNotFound, ce.Status)
	assert.Equal(t, "book does not exist", ce.Message)
	assert.Equal(t, "r:test", ce.RequestID)

	_, err = client.CreateBook(ctx, "", "Nobody", true)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadRequest, ce.Status)
}

// TestView runs the client view actions against a live api.
func TestView(t *testing.T) {
	store := newMemRecordStore()
	view := NewView(zap.NewNop(), newTestServer(t, store))
	ctx := context.Background()

	require.NoError(t, view.Refresh(ctx))
	assert.Empty(t, view.Books())
	assert.Equal(t, BookForm{Available: true}, view.NewBookForm())

	t.Run("add requires title and author", func(t *testing.T) {
		view.SetNewBookForm(BookForm{Title: "Dune", Available: true})
		_, err := view.AddBook(ctx)
		assert.ErrorIs(t, err, ErrEmptyForm)
		assert.Equal(t, 0, store.savesCount())
	})

	t.Run("add resets the form and refreshes", func(t *testing.T) {
		view.SetNewBookForm(BookForm{Title: "Dune", Author: "Frank Herbert", Available: true})
		book, err := view.AddBook(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, book.ID)
		assert.Equal(t, NewBookForm(), view.NewBookForm())
		assert.Equal(t, []Book{book}, view.Books())
		assert.Equal(t, []Book{book}, view.AvailableBooks())
		assert.False(t, view.Loading())
	})

	t.Run("update sends the edit form", func(t *testing.T) {
		_, err := view.UpdateBook(ctx)
		assert.NoError(t, err)

		view.StartEdit(view.Books()[0])
		edit, ok := view.EditingBook()
		require.True(t, ok)
		edit.Available = false
		edit.ID = 99
		view.SetEditBook(edit)

		book, err := view.UpdateBook(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, book.ID)
		assert.False(t, book.Available)
		_, ok = view.EditingBook()
		assert.False(t, ok)
		assert.Empty(t, view.AvailableBooks())
	})

	t.Run("delete needs confirmation", func(t *testing.T) {
		book, err := view.DeleteBook(ctx, 1, func(int) bool { return false })
		assert.NoError(t, err)
		assert.Equal(t, Book{}, book)
		assert.Len(t, view.Books(), 1)

		book, err = view.DeleteBook(ctx, 1, func(int) bool { return true })
		require.NoError(t, err)
		assert.Equal(t, 1, book.ID)
		assert.Empty(t, view.Books())
	})
}

// MockBooksAPI fails every call.
type MockBooksAPI struct {
	err error
}

func (m *MockBooksAPI) ListBooks(ctx context.Context) ([]Book, error) { return nil, m.err }

func (m *MockBooksAPI) ListAvailableBooks(ctx context.Context) ([]Book, error) {
	return nil, m.err
}

func (m *MockBooksAPI) CreateBook(ctx context.Context, title, author string, available bool) (Book, error) {
	return Book{}, m.err
}

func (m *MockBooksAPI) UpdateBook(ctx context.Context, id int, u BookUpdate) (Book, error) {
	return Book{}, m.err
}

func (m *MockBooksAPI) DeleteBook(ctx context.Context, id int) (Book, error) {
	return Book{}, m.err
}

// TestViewFailures ensures a failed call leaves the state untouched.
func TestViewFailures(t *testing.T) {
	view := NewView(zap.NewNop(), &MockBooksAPI{err: errors.New("network down")})
	ctx := context.Background()

	assert.Error(t, view.Refresh(ctx))
	assert.Empty(t, view.Books())

	form := BookForm{Title: "Dune", Author: "Frank Herbert"}
	view.SetNewBookForm(form)
	_, err := view.AddBook(ctx)
	assert.Error(t, err)
	assert.Equal(t, form, view.NewBookForm())

	view.StartEdit(Book{ID: 1, Title: "Dune"})
	_, err = view.UpdateBook(ctx)
	assert.Error(t, err)
	_, ok := view.EditingBook()
	assert.True(t, ok)

	_, err = view.DeleteBook(ctx, 1, nil)
	assert.Error(t, err)
	assert.False(t, view.Loading())
}

func TestRunClientCommand(t *testing.T) {
	store := newMemRecordStore(sampleBooks()...)
	view := NewView(zap.NewNop(), newTestServer(t, store))
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runClient(ctx, view, []string{"list"}, &out))
		assert.Contains(t, out.String(), "All Books")
		assert.Contains(t, out.String(), "Emma by Jane Austen")
		assert.Contains(t, out.String(), "Not Available")
	})

	t.Run("add", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runClient(ctx, view, []string{"add", "-title", "Kindred", "-author", "Octavia Butler"}, &out))
		assert.Contains(t, out.String(), "added book 6")
		assert.True(t, store.snapshot()[3].Available)
	})

	t.Run("edit keeps unset fields", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runClient(ctx, view, []string{"edit", "-id", "6", "-available=false"}, &out))
		assert.Contains(t, out.String(), "updated book 6")
		assert.Equal(t, Book{ID: 6, Title: "Kindred", Author: "Octavia Butler", Available: false}, store.snapshot()[3])
	})

	t.Run("edit unknown book", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, runClient(ctx, view, []string{"edit", "-id", "77", "-title", "X"}, &out))
	})

	t.Run("delete without confirmation", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runClient(ctx, view, []string{"delete", "-id", "6"}, &out))
		assert.Contains(t, out.String(), "not confirmed")
		assert.Len(t, store.snapshot(), 4)
	})

	t.Run("delete confirmed", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runClient(ctx, view, []string{"delete", "-id", "6", "-yes"}, &out))
		assert.Contains(t, out.String(), "deleted book 6")
		assert.Len(t, store.snapshot(), 3)
	})

	t.Run("unknown command", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, runClient(ctx, view, []string{"export"}, &out))
		assert.Error(t, runClient(ctx, view, nil, &out))
	})
}
