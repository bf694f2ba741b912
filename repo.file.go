package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type fileRecordStore struct {
	logger *zap.Logger
	path   string
}

// NewFileRecordStore provides a record store backed by a json file. The parent
// folder is created if missing. The file itself is created on first save.
func NewFileRecordStore(logger *zap.Logger, path string) (RecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage folder: %v", err)
	}
	return &fileRecordStore{logger: logger, path: path}, nil
}

// Load reads and parses the whole books file.
func (fs *fileRecordStore) Load(ctx context.Context) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		fs.logger.Debug("storage: books file does not exist yet", zap.String("storage.path", fs.path))
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read books file: %w", err)
	}
	return DecodeBooks(data)
}

// Save overwrites the books file with the given list.
func (fs *fileRecordStore) Save(ctx context.Context, books []Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeBooks(books)
	if err != nil {
		return err
	}
	if err = os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write books file: %w", err)
	}
	return nil
}
