package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"uvote-cli/internal/domain"
	"uvote-cli/pkg/logger"
)

// ErrInvalidServerResponse marks a login response missing the token or
// the user object even though the HTTP status was a success.
var ErrInvalidServerResponse = errors.New("respuesta inválida del servidor")

// persisted is the on-disk layout. The fixed keys mirror the web client's
// localStorage entries.
type persisted struct {
	Token string       `json:"token"`
	User  *domain.User `json:"usuario"`
}

// Store is the single source of truth for "who is logged in". Token and
// user are set and cleared together, never independently; the only
// writers are Restore, Login and Logout.
type Store struct {
	mu   sync.RWMutex
	path string
	log  *logger.Logger

	token string
	user  *domain.User
}

// NewStore creates an empty store persisting to the given file
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{path: path, log: log}
}

// Restore populates the store from disk at startup. A missing or
// malformed file, or one missing either half of the pair, leaves the
// store empty; restore itself never fails.
func (s *Store) Restore() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("Could not read persisted session")
		}
		return
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.WithError(err).Warn("Persisted session is malformed, ignoring it")
		return
	}

	if p.Token == "" || p.User == nil {
		s.log.Warn("Persisted session is incomplete, ignoring it")
		return
	}

	s.mu.Lock()
	s.token = p.Token
	s.user = p.User
	s.mu.Unlock()
}

// Login stores the credential pair on disk, then in memory. Both halves
// are required; a response missing either is an invalid server response
// and the store stays unauthenticated. Disk goes first so a failed write
// leaves the store untouched rather than authenticated but unpersisted.
func (s *Store) Login(token string, user *domain.User) error {
	if token == "" || user == nil {
		return ErrInvalidServerResponse
	}

	if err := s.persist(persisted{Token: token, User: user}); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	return nil
}

// Logout clears memory and disk. It always succeeds locally; backend
// reachability is irrelevant.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).Warn("Could not remove persisted session")
	}
}

// IsAuthenticated reports whether a token is held
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token implements api.TokenSource
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile, nil when unauthenticated
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID returns the cached profile id, zero when unauthenticated
func (s *Store) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// TokenExpiry reads the exp claim of the bearer token without verifying
// its signature. Diagnostics only; the backend remains the authority on
// token validity.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) persist(p persisted) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	return os.WriteFile(s.path, data, 0o600)
}
