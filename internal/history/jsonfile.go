package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// container is the on-disk shape of the history file.
type container struct {
	Topics []Entry `json:"topics"`
}

// FileStore keeps history in a single JSON document, rewritten wholesale on
// every append. A mutex serializes writers within this process; concurrent
// writers from other processes can still race (last writer wins).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON file at path, creating the
// parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the backing file. A missing file or one that does not parse as
// the expected container yields an empty history, not an error.
func (s *FileStore) Load(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

func (s *FileStore) loadLocked() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []Entry{}
	}
	var c container
	if err := json.Unmarshal(data, &c); err != nil || c.Topics == nil {
		return []Entry{}
	}
	return c.Topics
}

// Append stamps the entry and rewrites the whole file.
func (s *FileStore) Append(ctx context.Context, prompt, plan, svg string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.loadLocked()
	entry := Entry{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		Plan:      plan,
		SVG:       svg,
		CreatedAt: time.Now().UTC(),
	}
	entries = append(entries, entry)

	if err := s.writeLocked(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Get returns the entry with the given id, if present.
func (s *FileStore) Get(ctx context.Context, id string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.loadLocked() {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) writeLocked(entries []Entry) error {
	data, err := json.MarshalIndent(container{Topics: entries}, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file then rename so readers never see a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
