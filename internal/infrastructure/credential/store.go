package credential

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"marketchat/pkg/logger"
)

// storageKey is the single canonical key the bearer credential lives under.
const storageKey = "authToken"

// Store persists the bearer credential in a local JSON file. The token is an
// opaque credential as far as the backend contract goes; this layer never
// validates it, it only carries it.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
}

func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		logger.Warn("credential: %s is not valid JSON, treating as empty", path)
		return s, nil
	}
	s.token = fields[storageKey]
	return s, nil
}

// Token returns the stored credential and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return s.write(map[string]string{storageKey: token})
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return s.write(map[string]string{})
}

func (s *Store) write(fields map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// ExpiresWithin peeks at the token's exp claim without verifying the
// signature. Purely advisory, used to warn the user they should log in again
// before the backend starts answering 401. Non-JWT tokens report false.
func (s *Store) ExpiresWithin(d time.Duration) bool {
	token, ok := s.Token()
	if !ok {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < d
}
