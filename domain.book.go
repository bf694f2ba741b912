package main

import "context"

// Book represents a book entity.
type Book struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
}

// NewBook is the payload of a book creation request. Pointer
// fields help tell a missing field from its zero value.
type NewBook struct {
	Title     *string `json:"title"`
	Author    *string `json:"author"`
	Available *bool   `json:"available"`
}

// BookUpdate is the payload of a book update request. Only
// non-nil fields are applied to the stored record.
type BookUpdate struct {
	Title     *string `json:"title,omitempty"`
	Author    *string `json:"author,omitempty"`
	Available *bool   `json:"available,omitempty"`
}

// Apply returns a copy of the book with the update fields set.
func (u BookUpdate) Apply(book Book) Book {
	if u.Title != nil {
		book.Title = *u.Title
	}
	if u.Author != nil {
		book.Author = *u.Author
	}
	if u.Available != nil {
		book.Available = *u.Available
	}
	return book
}

// RecordStore holds the whole list of books as a single document.
// Load returns the full array and Save overwrites it entirely.
type RecordStore interface {
	Load(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, books []Book) error
}

// NextBookID returns the max existing id plus one or 1 for an empty list.
func NextBookID(books []Book) int {
	max := 0
	for _, b := range books {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

// FindBook returns the index of the book with the given id or -1.
func FindBook(books []Book, id int) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// FilterAvailable returns the available books keeping their order.
func FilterAvailable(books []Book) []Book {
	available := []Book{}
	for _, b := range books {
		if b.Available {
			available = append(available, b)
		}
	}
	return available
}
