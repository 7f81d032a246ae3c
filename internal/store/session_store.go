package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"trashmail/internal/domain"
	"trashmail/internal/util/memzero"
)

const sessionFilename = "session.json.enc"

// SessionFileStore keeps the authenticated session encrypted on disk.
type SessionFileStore struct {
	dir string
	kdf kdfParams
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir, kdf: defaultKDF}
}

// SaveSession encrypts rec under passphrase and writes it.
func (s *SessionFileStore) SaveSession(passphrase string, rec domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	ct, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.path(), ct, 0o600)
}

// LoadSession reads and decrypts the stored session. ok is false when no
// session has been saved.
func (s *SessionFileStore) LoadSession(passphrase string) (domain.SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path())
	if err != nil || b == nil {
		return domain.SessionRecord{}, false, err
	}
	pt, err := open(passphrase, b)
	if err != nil {
		return domain.SessionRecord{}, false, err
	}
	defer memzero.Zero(pt)

	var rec domain.SessionRecord
	if err := json.Unmarshal(pt, &rec); err != nil {
		return domain.SessionRecord{}, false, err
	}
	return rec, true, nil
}

// HasSession reports whether a session file exists, without decrypting it.
func (s *SessionFileStore) HasSession() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// ClearSession removes the stored session.
func (s *SessionFileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path())
}

func (s *SessionFileStore) path() string { return filepath.Join(s.dir, sessionFilename) }

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)

// ensureDir creates dir with owner-only permissions.
func ensureDir(dir string) error { return os.MkdirAll(dir, 0o700) }
