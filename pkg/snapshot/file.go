package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps snapshots in a directory: <key>.html holds the markup
// and <key>.json its metadata.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a FileStore, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) htmlPath(key string) string { return filepath.Join(s.dir, key+".html") }
func (s *FileStore) metaPath(key string) string { return filepath.Join(s.dir, key+".json") }

// Save writes the markup first so a listed snapshot always has its HTML.
func (s *FileStore) Save(_ context.Context, snap *Snapshot) error {
	if !ValidKey(snap.Key) {
		return ErrInvalidKey
	}
	meta, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.htmlPath(snap.Key), []byte(snap.HTML), 0644); err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(snap.Key), meta, 0644)
}

// Load reads a snapshot.
func (s *FileStore) Load(_ context.Context, key string) (*Snapshot, error) {
	if !ValidKey(key) {
		return nil, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.metaPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	html, err := os.ReadFile(s.htmlPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	snap.HTML = string(html)
	return &snap, nil
}

// List returns the keys that have metadata.
func (s *FileStore) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if key := strings.TrimSuffix(e.Name(), ".json"); ValidKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes both files of a snapshot.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range []string{s.metaPath(key), s.htmlPath(key)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
