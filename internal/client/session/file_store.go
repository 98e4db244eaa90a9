package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// The two persisted entries, named after the keys the mobile app used.
const (
	tokenFile = "userToken"
	userFile  = "userData.json"
)

// FileStore persists the session under a directory so it survives process
// restarts. Writes go through a temp file plus rename; the mutex makes the
// token/user pair atomic from the perspective of concurrent callers in this
// process. Across processes the policy is last write wins.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the per-user session directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "nirman-fieldworks"), nil
}

// Save writes token and user together, overwriting any prior session.
func (s *FileStore) Save(token string, user json.RawMessage) error {
	if token == "" || len(user) == 0 {
		return fmt.Errorf("session requires both token and user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(tokenFile, []byte(token)); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	if err := s.writeFile(userFile, user); err != nil {
		// Roll the token back so no reader sees a half-written pair.
		os.Remove(filepath.Join(s.dir, tokenFile))
		return fmt.Errorf("failed to save session user: %w", err)
	}
	return nil
}

// Clear removes both entries. Idempotent.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("failed to clear session: %w", err)
		}
	}
	return firstErr
}

// Current returns the stored session if both entries are readable.
// Any storage error reads as "no session".
func (s *FileStore) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil || len(token) == 0 {
		return Session{}, false
	}
	user, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil || !json.Valid(user) {
		return Session{}, false
	}
	return Session{Token: string(token), User: user}, true
}

// IsAuthenticated reports whether a token is present.
func (s *FileStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(filepath.Join(s.dir, tokenFile))
	return err == nil && info.Size() > 0
}

// writeFile writes data via a temp file and rename so a crashed write never
// leaves a truncated entry behind.
func (s *FileStore) writeFile(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
