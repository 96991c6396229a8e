package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KuzscoTech/maas-management/internal/platform"
)

// Snapshot is the persisted slice of session state. Transient fields
// (loading, last error) are deliberately excluded.
type Snapshot struct {
	User            *platform.User `json:"user,omitempty"`
	AccessToken     string         `json:"access_token,omitempty"`
	RefreshToken    string         `json:"refresh_token,omitempty"`
	IsAuthenticated bool           `json:"is_authenticated"`
}

// Store persists session snapshots across process restarts.
type Store interface {
	// Load reads the persisted snapshot. ok is false when nothing is stored.
	Load() (snap Snapshot, ok bool, err error)

	// Save writes the snapshot, replacing any previous one.
	Save(snap Snapshot) error

	// Clear removes the persisted snapshot. Clearing an empty store is a no-op.
	Clear() error
}

const storeFileName = "auth.json"

// FileStore persists the session as a single JSON record on disk.
// Tokens are credentials, so the file is written with 0600 permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, storeFileName)}, nil
}

// Path returns the location of the persisted record.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted snapshot.
func (s *FileStore) Load() (Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("failed to read session store: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to parse session store: %w", err)
	}

	return snap, true, nil
}

// Save writes the snapshot.
func (s *FileStore) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}

	return nil
}

// Clear removes the persisted snapshot.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load reads the stored snapshot.
func (s *MemoryStore) Load() (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return Snapshot{}, false, nil
	}
	return *s.snap, true, nil
}

// Save stores the snapshot.
func (s *MemoryStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &snap
	return nil
}

// Clear removes the stored snapshot.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}
