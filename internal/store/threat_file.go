package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// FileThreatStore keeps the threat log in a single JSON array on disk.
type FileThreatStore struct {
	mu   sync.Mutex
	path string
}

func NewFileThreatStore(path string) (*FileThreatStore, error) {
	if path == "" {
		return nil, fmt.Errorf("threats file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating threats directory: %w", err)
	}
	return &FileThreatStore{path: path}, nil
}

func (s *FileThreatStore) List(ctx context.Context) ([]model.Threat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileThreatStore) Append(ctx context.Context, threat model.Threat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	threats, err := s.read()
	if err != nil {
		return err
	}
	if containsID(threats, threat.ID) {
		return ErrDuplicateID
	}
	return s.write(append(threats, threat))
}

func (s *FileThreatStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	threats, err := s.read()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(threats, func(t model.Threat) bool { return t.ID == id })
	if len(kept) == len(threats) {
		return ErrNotFound
	}
	return s.write(kept)
}

func (s *FileThreatStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	threats, err := s.read()
	if err != nil {
		return false, err
	}
	return containsID(threats, id), nil
}

func (s *FileThreatStore) Replace(ctx context.Context, threats []model.Threat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(threats)
}

// read returns an empty log when the file does not exist yet.
func (s *FileThreatStore) read() ([]model.Threat, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Threat{}, nil
		}
		return nil, fmt.Errorf("reading threats: %w", err)
	}

	var threats []model.Threat
	if len(data) > 0 {
		if err := json.Unmarshal(data, &threats); err != nil {
			return nil, fmt.Errorf("decoding threats: %w", err)
		}
	}
	if threats == nil {
		threats = []model.Threat{}
	}
	return threats, nil
}

func (s *FileThreatStore) write(threats []model.Threat) error {
	if threats == nil {
		threats = []model.Threat{}
	}
	data, err := json.MarshalIndent(threats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding threats: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes to a temp file, then renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func containsID(threats []model.Threat, id string) bool {
	return slices.ContainsFunc(threats, func(t model.Threat) bool { return t.ID == id })
}
