package main

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var booksJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeBooks serializes the list of books as a pretty-printed json array.
func EncodeBooks(books []Book) ([]byte, error) {
	if books == nil {
		books = []Book{}
	}
	return booksJSON.MarshalIndent(books, "", "  ")
}

// DecodeBooks parses a json array of books. An empty document is an empty list.
func DecodeBooks(data []byte) ([]Book, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Book{}, nil
	}
	var books []Book
	if err := booksJSON.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("malformed books document: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}
