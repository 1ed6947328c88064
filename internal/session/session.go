package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"aquasafi-monitor/internal/domain"
)

// StorageKey is the single canonical key for persisted credentials. The
// previous generation of the product scattered tokens across three ad hoc
// keys (token, access_token, adminToken); everything now goes through here.
const StorageKey = "aquasafi_session"

type Credentials struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         domain.User `json:"user"`
	Admin        bool        `json:"admin"`
}

// Store owns the session credential for the whole process. Business logic
// never reads raw storage; it is handed the store (or just its Token method)
// explicitly.
type Store struct {
	mu     sync.RWMutex
	creds  Credentials
	active bool
	path   string
	log    zerolog.Logger
}

// NewStore loads any persisted session from path. An empty path keeps the
// session in memory only.
func NewStore(path string, log zerolog.Logger) *Store {
	s := &Store{path: path, log: log}
	if path == "" {
		return s
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("session file unreadable, starting logged out")
		}
		return s
	}
	var onDisk map[string]Credentials
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("session file corrupt, starting logged out")
		return s
	}
	if creds, ok := onDisk[StorageKey]; ok && creds.Token != "" {
		s.creds = creds
		s.active = true
	}
	return s
}

// Token implements the backend token source. The second return reports
// whether a session is established.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return "", false
	}
	return s.creds.Token, true
}

func (s *Store) Current() (Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, s.active
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active && s.creds.Admin
}

// Establish replaces the current session wholesale.
func (s *Store) Establish(creds Credentials) error {
	if creds.Token == "" {
		return fmt.Errorf("establish session: empty token")
	}
	s.mu.Lock()
	s.creds = creds
	s.active = true
	s.mu.Unlock()
	return s.persist()
}

// Clear logs out. Safe to call when already logged out.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.creds = Credentials{}
	s.active = false
	s.mu.Unlock()
	return s.persist()
}

func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	payload := map[string]Credentials{}
	if s.active {
		payload[StorageKey] = s.creds
	}
	s.mu.RUnlock()
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
