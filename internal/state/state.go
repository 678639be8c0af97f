package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// sessionEnv overrides the session identifier.
const sessionEnv = "EUREKA_SESSION_ID"

// Session is a session-scoped key/value mirror persisted as a JSON object.
// Every mutation is written through to disk before it returns.
type Session struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// DefaultDir returns the directory holding session files.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "eureka", "sessions")
}

// ResolveID picks the session identifier: explicit id > EUREKA_SESSION_ID
// env > the parent process (usually the shell the app was started from).
func ResolveID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	if id = strings.TrimSpace(os.Getenv(sessionEnv)); id != "" {
		return id
	}
	return fmt.Sprintf("ppid-%d", os.Getppid())
}

// Open loads the session file for id under dir.
func Open(dir, id string) (*Session, error) {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(ResolveID(id))
	return OpenPath(filepath.Join(dir, name+".json"))
}

// OpenPath loads a session file at an explicit path.
// This is primarily for testing.
func OpenPath(path string) (*Session, error) {
	s := &Session{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Session) Path() string { return s.path }

// load reads the session from disk, replacing in-memory values.
func (s *Session) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]string)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil // no session file yet
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.values)
}

// save writes the session to disk. Caller must hold mu.
func (s *Session) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Item returns the stored value for key.
func (s *Session) Item(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// SetItems stores every pair and persists them in one write. If the write
// fails the previous values are restored, so the file and memory never
// hold half of the update.
func (s *Session) SetItems(items map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]string)
	}

	type prior struct {
		value string
		ok    bool
	}
	saved := make(map[string]prior, len(items))
	for k, v := range items {
		old, ok := s.values[k]
		saved[k] = prior{old, ok}
		s.values[k] = v
	}
	if err := s.save(); err != nil {
		for k, p := range saved {
			if p.ok {
				s.values[k] = p.value
			} else {
				delete(s.values, k)
			}
		}
		return err
	}
	return nil
}
