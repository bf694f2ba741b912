package main

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrEmptyForm is returned when the new book form misses title or author.
var ErrEmptyForm = errors.New("title and author are required")

// BookForm holds the fields of the add book form.
type BookForm struct {
	Title     string
	Author    string
	Available bool
}

// NewBookForm returns an empty form with the available box checked.
func NewBookForm() BookForm {
	return BookForm{Available: true}
}

// BooksAPI is the set of calls the view relies on.
type BooksAPI interface {
	ListBooks(ctx context.Context) ([]Book, error)
	ListAvailableBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, title, author string, available bool) (Book, error)
	UpdateBook(ctx context.Context, id int, u BookUpdate) (Book, error)
	DeleteBook(ctx context.Context, id int) (Book, error)
}

// View mirrors the state of the books page: both lists, the add form and
// the optional edit form. Every successful action refreshes both lists.
// A failed call is logged and leaves the state untouched.
type View struct {
	logger *zap.Logger
	api    BooksAPI

	mu        sync.Mutex
	books     []Book
	available []Book
	newBook   BookForm
	editBook  *Book
	loading   bool
}

// NewView provides a view with empty lists and a fresh add form.
func NewView(logger *zap.Logger, api BooksAPI) *View {
	return &View{
		logger:    logger,
		api:       api,
		books:     []Book{},
		available: []Book{},
		newBook:   NewBookForm(),
	}
}

// Books returns a copy of the all books list.
func (v *View) Books() []Book {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Book(nil), v.books...)
}

// AvailableBooks returns a copy of the available books list.
func (v *View) AvailableBooks() []Book {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Book(nil), v.available...)
}

// NewBookForm returns the add form state.
func (v *View) NewBookForm() BookForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.newBook
}

// SetNewBookForm replaces the add form state.
func (v *View) SetNewBookForm(f BookForm) {
	v.mu.Lock()
	v.newBook = f
	v.mu.Unlock()
}

// EditingBook returns the book in the edit form if any.
func (v *View) EditingBook() (Book, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editBook == nil {
		return Book{}, false
	}
	return *v.editBook, true
}

// StartEdit fills the edit form with the given book.
func (v *View) StartEdit(b Book) {
	v.mu.Lock()
	v.editBook = &b
	v.mu.Unlock()
}

// SetEditBook replaces the edit form content. It does nothing when no edit is in progress.
func (v *View) SetEditBook(b Book) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editBook != nil {
		b.ID = v.editBook.ID
		v.editBook = &b
	}
}

// CancelEdit closes the edit form.
func (v *View) CancelEdit() {
	v.mu.Lock()
	v.editBook = nil
	v.mu.Unlock()
}

// Loading tells if an add, update or delete call is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *View) setLoading(on bool) {
	v.mu.Lock()
	v.loading = on
	v.mu.Unlock()
}

// Refresh fetches both lists. Each list is kept as is when its call fails.
func (v *View) Refresh(ctx context.Context) error {
	errAll := v.fetchBooks(ctx)
	errAvailable := v.fetchAvailableBooks(ctx)
	return errors.Join(errAll, errAvailable)
}

func (v *View) fetchBooks(ctx context.Context) error {
	books, err := v.api.ListBooks(ctx)
	if err != nil {
		v.logger.Error("error fetching books", zap.Error(err))
		return err
	}
	v.mu.Lock()
	v.books = books
	v.mu.Unlock()
	return nil
}

func (v *View) fetchAvailableBooks(ctx context.Context) error {
	books, err := v.api.ListAvailableBooks(ctx)
	if err != nil {
		v.logger.Error("error fetching available books", zap.Error(err))
		return err
	}
	v.mu.Lock()
	v.available = books
	v.mu.Unlock()
	return nil
}

// AddBook submits the add form. The form is reset once the book is created.
func (v *View) AddBook(ctx context.Context) (Book, error) {
	form := v.NewBookForm()
	if form.Title == "" || form.Author == "" {
		return Book{}, ErrEmptyForm
	}
	v.setLoading(true)
	defer v.setLoading(false)

	book, err := v.api.CreateBook(ctx, form.Title, form.Author, form.Available)
	if err != nil {
		v.logger.Error("error adding book", zap.Error(err))
		return Book{}, err
	}
	v.SetNewBookForm(NewBookForm())
	return book, v.Refresh(ctx)
}

// UpdateBook submits the edit form with all its fields then closes it.
// It does nothing when no edit is in progress.
func (v *View) UpdateBook(ctx context.Context) (Book, error) {
	edit, ok := v.EditingBook()
	if !ok {
		return Book{}, nil
	}
	v.setLoading(true)
	defer v.setLoading(false)

	u := BookUpdate{Title: &edit.Title, Author: &edit.Author, Available: &edit.Available}
	book, err := v.api.UpdateBook(ctx, edit.ID, u)
	if err != nil {
		v.logger.Error("error updating book", zap.Int("book.id", edit.ID), zap.Error(err))
		return Book{}, err
	}
	v.CancelEdit()
	return book, v.Refresh(ctx)
}

// DeleteBook removes the book once confirm approves it. A nil confirm approves.
func (v *View) DeleteBook(ctx context.Context, id int, confirm func(id int) bool) (Book, error) {
	if confirm != nil && !confirm(id) {
		return Book{}, nil
	}
	v.setLoading(true)
	defer v.setLoading(false)

	book, err := v.api.DeleteBook(ctx, id)
	if err != nil {
		v.logger.Error("error deleting book", zap.Int("book.id", id), zap.Error(err))
		return Book{}, err
	}
	return book, v.Refresh(ctx)
}
