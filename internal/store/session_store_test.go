package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashmail/internal/domain"
	"trashmail/internal/store"
)

func newSessionStore(t *testing.T) (*store.SessionFileStore, string) {
	t.Helper()
	home := t.TempDir()
	s := store.NewSessionFileStore(home)
	store.FastKDF(s)
	return s, home
}

func sampleRecord() domain.SessionRecord {
	return domain.SessionRecord{
		ServerURL: "https://trashmail.com",
		Username:  "user@example.com",
		Cookies: []domain.Cookie{
			{Name: "session_id", Value: "abc123"},
			{Name: "pat", Value: "tmpat_xyz"},
		},
		CreatedUTC: 1700000000,
	}
}

func TestSession_SaveLoad_OK(t *testing.T) {
	s, _ := newSessionStore(t)
	rec := sampleRecord()

	require.NoError(t, s.SaveSession("correct horse", rec))

	got, ok, err := s.LoadSession("correct horse")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestSession_FileIsEncryptedAndPrivate(t *testing.T) {
	s, home := newSessionStore(t)
	require.NoError(t, s.SaveSession("pass", sampleRecord()))

	path := filepath.Join(home, "session.json.enc")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "abc123")
	assert.NotContains(t, string(b), "user@example.com")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSession_WrongPassphrase_Fails(t *testing.T) {
	s, _ := newSessionStore(t)
	require.NoError(t, s.SaveSession("correct", sampleRecord()))

	_, ok, err := s.LoadSession("wrong")
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)
	assert.False(t, ok)
}

func TestSession_EmptyPassphrase_Rejected(t *testing.T) {
	s, _ := newSessionStore(t)
	assert.ErrorIs(t, s.SaveSession("", sampleRecord()), store.ErrEmptyPassphrase)
}

func TestSession_Missing_NotFound(t *testing.T) {
	s, _ := newSessionStore(t)

	_, ok, err := s.LoadSession("pass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_Clear(t *testing.T) {
	s, _ := newSessionStore(t)
	has, err := s.HasSession()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.SaveSession("pass", sampleRecord()))
	has, err = s.HasSession()
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.ClearSession())
	has, err = s.HasSession()
	require.NoError(t, err)
	assert.False(t, has)
	_, ok, err := s.LoadSession("pass")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, s.ClearSession())
}

func TestSession_TamperedBlob_Fails(t *testing.T) {
	s, home := newSessionStore(t)
	require.NoError(t, s.SaveSession("pass", sampleRecord()))

	path := filepath.Join(home, "session.json.enc")
	require.NoError(t, os.WriteFile(path, []byte(`{"v":99}`), 0o600))

	_, _, err := s.LoadSession("pass")
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestSession_RejectsOutOfRangeHeader(t *testing.T) {
	for name, edit := range map[string]func(map[string]any){
		"version zero":     func(m map[string]any) { m["v"] = 0 },
		"version missing":  func(m map[string]any) { delete(m, "v") },
		"huge N":           func(m map[string]any) { m["scrypt_N"] = 1 << 30 },
		"N not power of 2": func(m map[string]any) { m["scrypt_N"] = 1000 },
		"huge r":           func(m map[string]any) { m["scrypt_r"] = 1 << 20 },
		"zero p":           func(m map[string]any) { m["scrypt_p"] = 0 },
		"huge p":           func(m map[string]any) { m["scrypt_p"] = 64 },
	} {
		t.Run(name, func(t *testing.T) {
			s, home := newSessionStore(t)
			require.NoError(t, s.SaveSession("pass", sampleRecord()))

			path := filepath.Join(home, "session.json.enc")
			b, err := os.ReadFile(path)
			require.NoError(t, err)
			var m map[string]any
			require.NoError(t, json.Unmarshal(b, &m))
			edit(m)
			b, err = json.Marshal(m)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, b, 0o600))

			_, ok, err := s.LoadSession("pass")
			assert.False(t, ok)
			assert.ErrorIs(t, err, store.ErrWrongPassphrase)
		})
	}
}
