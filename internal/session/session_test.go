package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"aquasafi-monitor/internal/domain"
)

func testCreds() Credentials {
	return Credentials{
		Token: "tok-abc",
		User:  domain.User{ID: 1, FullName: "Amina Hassan", Email: "amina@aquasafi.org", Role: "operator"},
	}
}

func TestInMemoryStoreLifecycle(t *testing.T) {
	s := NewStore("", zerolog.Nop())

	_, ok := s.Token()
	require.False(t, ok)
	require.False(t, s.IsAdmin())

	require.NoError(t, s.Establish(testCreds()))
	tok, ok := s.Token()
	require.True(t, ok)
	require.Equal(t, "tok-abc", tok)

	creds, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "Amina Hassan", creds.User.FullName)

	require.NoError(t, s.Clear())
	_, ok = s.Token()
	require.False(t, ok)
}

func TestEstablishRejectsEmptyToken(t *testing.T) {
	s := NewStore("", zerolog.Nop())
	require.Error(t, s.Establish(Credentials{}))
	_, ok := s.Token()
	require.False(t, ok)
}

func TestAdminFlagTracked(t *testing.T) {
	s := NewStore("", zerolog.Nop())
	creds := testCreds()
	creds.Admin = true
	require.NoError(t, s.Establish(creds))
	require.True(t, s.IsAdmin())

	require.NoError(t, s.Clear())
	require.False(t, s.IsAdmin())
}

func TestPersistsUnderSingleCanonicalKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path, zerolog.Nop())
	require.NoError(t, s.Establish(testCreds()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]Credentials
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 1, "exactly one storage key, never token/access_token variants")
	require.Contains(t, onDisk, StorageKey)
	require.Equal(t, "tok-abc", onDisk[StorageKey].Token)
}

func TestReloadsPersistedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	first := NewStore(path, zerolog.Nop())
	require.NoError(t, first.Establish(testCreds()))

	second := NewStore(path, zerolog.Nop())
	tok, ok := second.Token()
	require.True(t, ok)
	require.Equal(t, "tok-abc", tok)
}

func TestClearRemovesPersistedCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path, zerolog.Nop())
	require.NoError(t, s.Establish(testCreds()))
	require.NoError(t, s.Clear())

	reloaded := NewStore(path, zerolog.Nop())
	_, ok := reloaded.Token()
	require.False(t, ok)
}

func TestCorruptSessionFileStartsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json{"), 0o600))

	s := NewStore(path, zerolog.Nop())
	_, ok := s.Token()
	require.False(t, ok)
}
