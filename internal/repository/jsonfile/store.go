package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elsanchez/free-games-claimer/internal/domain"
	"github.com/elsanchez/free-games-claimer/internal/repository"
)

// FileName is the document name inside the data directory
const FileName = "prime-gaming.json"

// Store keeps the library as one JSON document:
// account name → offer title → claim entry
type Store struct {
	path string
}

// Compiletime check
var _ repository.ClaimRepository = (*Store)(nil)

// NewStore creates a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Load reads the document, returning an empty library if it does not exist yet
func (s *Store) Load(ctx context.Context) (domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}

	lib := domain.Library{}
	if len(data) == 0 {
		return lib, nil
	}
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse claims file %s: %w", s.path, err)
	}
	for user, rec := range lib {
		if rec == nil {
			lib[user] = domain.AccountRecord{}
		}
	}
	return lib, nil
}

// Save merges lib into what is on disk and rewrites the document atomically
func (s *Store) Save(ctx context.Context, lib domain.Library) error {
	onDisk, err := s.Load(ctx)
	if err != nil {
		return err
	}
	onDisk.Merge(lib)

	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal claims: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write claims file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace claims file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save
func (s *Store) Close() error {
	return nil
}
