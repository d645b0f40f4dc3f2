// Package jsonfile persists the conversation document as one JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

const DefaultPath = "tessa_conversations.json"

type Store struct {
	path string
	mode fs.FileMode
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, mode: 0o600}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(_ context.Context) (*domain.Collection, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNoDocument
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}

	var c domain.Collection
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.path)
	}
	return &c, nil
}

// Save replaces the file atomically: a reader sees either the old or the
// new document, never a partial one.
func (s *Store) Save(_ context.Context, c *domain.Collection) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode conversations")
	}
	return errors.Wrapf(writeAtomic(s.path, b, s.mode), "write %s", s.path)
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_conversations_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
