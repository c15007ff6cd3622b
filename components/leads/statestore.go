package leads

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys are namespaced under a common prefix, mirroring the browser
// client's local-storage layout.
const (
	storagePrefix  = "leadDashboard."
	StateKey       = storagePrefix + "filters"
	DarkModeKey    = storagePrefix + "darkMode"
	AuthSessionKey = storagePrefix + "auth.session"
)

// StateStorage is the durable key/value store backing filters, presets, the
// dark-mode flag, and the auth session. Implementations must tolerate missing
// keys; Set is expected to persist synchronously.
type StateStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStateStore is a concurrency-safe in-memory StateStorage for tests and
// ephemeral sessions.
type MemoryStateStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStateStore creates an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: map[string]string{}}
}

// Get returns the stored value for key.
func (s *MemoryStateStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok
}

// Set stores value under key.
func (s *MemoryStateStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key.
func (s *MemoryStateStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStateStore persists the key/value map as a single JSON file, written
// after every mutation. A missing or corrupt file yields an empty store
// rather than a startup failure.
type FileStateStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStateStore loads (or initializes) the store at path.
func NewFileStateStore(path string) *FileStateStore {
	store := &FileStateStore{path: path, data: map[string]string{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return store
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return store
	}
	store.data = data
	return store
}

// Get returns the stored value for key.
func (s *FileStateStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	return value, ok
}

// Set stores value under key and flushes to disk.
func (s *FileStateStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flushLocked()
}

// Delete removes key and flushes to disk.
func (s *FileStateStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.flushLocked()
}

func (s *FileStateStore) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// ReadDarkMode reports the persisted dark-mode preference.
func ReadDarkMode(storage StateStorage) bool {
	if storage == nil {
		return false
	}
	value, _ := storage.Get(DarkModeKey)
	return value == "true"
}

// WriteDarkMode persists the dark-mode preference.
func WriteDarkMode(storage StateStorage, enabled bool) error {
	if storage == nil {
		return nil
	}
	value := "false"
	if enabled {
		value = "true"
	}
	return storage.Set(DarkModeKey, value)
}
