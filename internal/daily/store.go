package daily

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
)

// Store persists the single daily cache record.
type Store interface {
	// Load returns ErrCacheMiss when nothing is stored. A record that cannot
	// be decoded is returned as an error with the storage reason.
	Load(ctx context.Context) (*Entry, error)
	Save(ctx context.Context, entry Entry) error
}

// FileStore keeps the record as one JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, errorsx.Wrap(fmt.Errorf("read daily cache: %w", err), errorsx.ReasonStorage)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("decode daily cache %s: %w", s.path, err), errorsx.ReasonStorage)
	}
	return &entry, nil
}

// Save replaces the file through a rename so readers never see a partial write.
func (s *FileStore) Save(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("encode daily cache: %w", err), errorsx.ReasonStorage)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errorsx.Wrap(fmt.Errorf("create cache dir: %w", err), errorsx.ReasonStorage)
	}

	tmp, err := os.CreateTemp(dir, ".daily-*.json")
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("create temp cache: %w", err), errorsx.ReasonStorage)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errorsx.Wrap(fmt.Errorf("write daily cache: %w", err), errorsx.ReasonStorage)
	}
	if err := tmp.Close(); err != nil {
		return errorsx.Wrap(fmt.Errorf("close daily cache: %w", err), errorsx.ReasonStorage)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errorsx.Wrap(fmt.Errorf("replace daily cache: %w", err), errorsx.ReasonStorage)
	}
	return nil
}
