// Package auth owns the account store and the directory of logged-in
// sessions. Both live behind a single lock so registration, login, logout,
// and scoreboard snapshots are atomic with respect to each other.
package auth

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"typefast/internal/typefast/models"
)

// ErrUserExists is returned when registering a username that is taken.
var ErrUserExists = errors.New("username already exists")

// ErrInvalidCredentials is returned when login fails; callers cannot tell an
// unknown username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ScoreEntry is one scoreboard row.
type ScoreEntry struct {
	Username string
	Score    float64
}

// Registry keeps accounts and live sessions in memory only; nothing survives
// a restart. Passwords are stored and compared as plain text.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]string
	active   map[string]*models.Session
}

func NewRegistry() *Registry {
	return &Registry{
		accounts: make(map[string]string),
		active:   make(map[string]*models.Session),
	}
}

// Register creates an account. Accounts are never mutated or deleted.
func (r *Registry) Register(username, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[username]; exists {
		return ErrUserExists
	}
	r.accounts[username] = password
	return nil
}

// Authenticate checks the credentials and, on success, binds the session into
// the live directory. A later login for the same username overwrites the
// previous entry. On failure the session is left untouched.
func (r *Registry) Authenticate(username, password string, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.accounts[username]
	if !exists || stored != password {
		return ErrInvalidCredentials
	}

	r.active[username] = s
	s.BindUser(username)
	return nil
}

// Logout removes the username from the live directory. Unknown usernames are
// a no-op.
func (r *Registry) Logout(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, username)
}

// LoggedIn reports whether a session is currently bound under the username.
func (r *Registry) LoggedIn(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.active[username]
	return exists
}

// Snapshot returns a point-in-time view of every logged-in player and their
// cumulative score, sorted by username. Scores may move concurrently; the
// snapshot never blocks gameplay.
func (r *Registry) Snapshot() []ScoreEntry {
	r.mu.RLock()
	entries := make([]ScoreEntry, 0, len(r.active))
	for username, s := range r.active {
		entries = append(entries, ScoreEntry{Username: username, Score: s.TotalScore()})
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b ScoreEntry) int {
		return strings.Compare(a.Username, b.Username)
	})
	return entries
}
