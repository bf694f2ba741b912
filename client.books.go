package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var _ BooksAPI = (*BooksClient)(nil) // ensure BooksClient implements BooksAPI.

// ClientError is returned when the api answers with a non-success status.
type ClientError struct {
	Status    int
	Message   string
	RequestID string
}

func (ce *ClientError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", ce.Status, ce.Message)
}

// BooksClient calls the books endpoints of the api.
type BooksClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBooksClient provides a client for the api served at baseURL.
func NewBooksClient(baseURL string, timeout time.Duration) *BooksClient {
	return &BooksClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListBooks fetches all books.
func (c *BooksClient) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	err := c.do(ctx, http.MethodGet, "/books", nil, http.StatusOK, &books)
	return books, err
}

// ListAvailableBooks fetches the available books only.
func (c *BooksClient) ListAvailableBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	err := c.do(ctx, http.MethodGet, "/books/available", nil, http.StatusOK, &books)
	return books, err
}

// CreateBook adds a new book and returns the stored record.
func (c *BooksClient) CreateBook(ctx context.Context, title, author string, available bool) (Book, error) {
	var book Book
	payload := NewBook{Title: &title, Author: &author, Available: &available}
	err := c.do(ctx, http.MethodPost, "/books", payload, http.StatusCreated, &book)
	return book, err
}

// UpdateBook sends the fields of the update to the book with the given id.
func (c *BooksClient) UpdateBook(ctx context.Context, id int, u BookUpdate) (Book, error) {
	var book Book
	err := c.do(ctx, http.MethodPut, "/books/"+strconv.Itoa(id), u, http.StatusOK, &book)
	return book, err
}

// DeleteBook removes the book with the given id and returns it.
func (c *BooksClient) DeleteBook(ctx context.Context, id int) (Book, error) {
	var book Book
	err := c.do(ctx, http.MethodDelete, "/books/"+strconv.Itoa(id), nil, http.StatusOK, &book)
	return book, err
}

func (c *BooksClient) do(ctx context.Context, method, path string, in interface{}, expected int, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		ce := &ClientError{Status: resp.StatusCode, RequestID: resp.Header.Get(RequestIDHeader)}
		var apiErr APIError
		if derr := json.NewDecoder(resp.Body).Decode(&apiErr); derr == nil && apiErr.Message != "" {
			ce.Message = apiErr.Message
		} else {
			ce.Message = http.StatusText(resp.StatusCode)
		}
		return ce
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
