package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const sessionFile = "session.json"

// DefaultDebounce is how long duplicate credential-expiry events are
// suppressed after the first one is handled.
const DefaultDebounce = 3 * time.Second

// Store is the sole owner of the Session and its durable mirror. The mirror
// is a JSON file holding the token/username/role trio, written atomically as
// a unit and removed as a unit.
//
// The store also carries the two coordination flags with a documented
// lifecycle:
//
//   - the verification flag, set once a round-trip has confirmed the held
//     credential and reset whenever the session is cleared or replaced
//   - the re-login debounce, which collapses concurrent expiry events into a
//     single visible reaction per window
type Store struct {
	baseDir  string
	debounce time.Duration
	now      func() time.Time

	mu         sync.Mutex
	current    Session
	verified   bool
	relogUntil time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithDebounce overrides the expiry debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithClock overrides the time source used for the debounce window.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates a store rooted at baseDir and loads any persisted session.
// If baseDir is empty, uses ~/.inferctl/
func Open(baseDir string, opts ...Option) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".inferctl")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	store := &Store{
		baseDir:  baseDir,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store opened")

	return store, nil
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the held credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// Replace overwrites the session and persists the trio atomically. The
// verification flag resets; the caller decides whether the new credential
// already counts as verified.
func (s *Store) Replace(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = sess
	s.verified = false

	return s.save(sess)
}

// Clear empties the session in memory and removes the durable trio. Calling
// it on an already-empty store is a no-op with the same end state.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	s.verified = false

	path := filepath.Join(s.baseDir, sessionFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	return nil
}

// TokenVerified reports whether the held credential has been confirmed by
// the service since it was stored.
func (s *Store) TokenVerified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified
}

// MarkVerified records a successful credential confirmation. The flag holds
// until the session is cleared or replaced.
func (s *Store) MarkVerified() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified = true
}

// BeginRelogin reports whether the caller is the first to observe a
// credential expiry within the debounce window, and opens a new window when
// it is. Losers must propagate the failure but perform no side effects.
func (s *Store) BeginRelogin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.relogUntil) {
		return false
	}
	s.relogUntil = now.Add(s.debounce)
	return true
}

func (s *Store) load() error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, sessionFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// An unreadable session file should not brick the client; treat it
		// as logged out.
		log.Warn().Err(err).Msg("discarding corrupt session file")
		return nil
	}

	s.current = sess
	return nil
}

// save writes the session trio atomically. Callers hold s.mu.
func (s *Store) save(sess Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(s.baseDir, sessionFile)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
