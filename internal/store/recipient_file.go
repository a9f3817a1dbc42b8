package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type recipientFile struct {
	Email *string `json:"email"`
}

// FileRecipientStore persists the alert recipient as {"email": ...}.
type FileRecipientStore struct {
	mu   sync.Mutex
	path string
}

func NewFileRecipientStore(path string) (*FileRecipientStore, error) {
	if path == "" {
		return nil, fmt.Errorf("recipient file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating recipient directory: %w", err)
	}
	return &FileRecipientStore{path: path}, nil
}

func (s *FileRecipientStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading recipient: %w", err)
	}

	var f recipientFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("decoding recipient: %w", err)
	}
	if f.Email == nil {
		return "", nil
	}
	return *f.Email, nil
}

func (s *FileRecipientStore) Set(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f recipientFile
	if email != "" {
		f.Email = &email
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding recipient: %w", err)
	}
	return writeFileAtomic(s.path, data)
}
