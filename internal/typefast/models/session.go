package models

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session holds the per-connection state for one player: the bound username,
// the word currently in play, and the running score. Exactly two goroutines
// write to it, the connection handler and the game round driving its group,
// so every field lives behind the session mutex.
type Session struct {
	ID string

	mu sync.Mutex
	w  io.Writer

	username string
	loggedIn bool

	word      string
	wordSet   bool
	wordStart time.Time

	answered      bool
	exitRequested bool
	totalScore    float64
}

func NewSession(w io.Writer) *Session {
	return &Session{
		ID: uuid.New().String(),
		w:  w,
	}
}

// Send writes one newline-terminated protocol line to the peer. Writes are
// serialized by the session mutex since both the connection handler and a
// game round may be messaging the same player.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to send message to session %s: %w", s.ID, err)
	}
	return nil
}

func (s *Session) BindUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = username
	s.loggedIn = true
}

// Username reports the bound username, if any.
func (s *Session) Username() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.username, s.loggedIn
}

// ClearUser unbinds the session on logout. The answered flag is dropped too
// so a stale correct-answer mark cannot leak into a later login.
func (s *Session) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = ""
	s.loggedIn = false
	s.answered = false
}

// BeginWord is called by the round driver when a new word goes into play.
func (s *Session) BeginWord(word string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.word = word
	s.wordSet = true
	s.wordStart = at
	s.answered = false
}

// CurrentWord reports the word in play, if any.
func (s *Session) CurrentWord() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.word, s.wordSet
}

// FinishWord clears the word in play once the round resolves it, whether or
// not this player answered.
func (s *Session) FinishWord() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.word = ""
	s.wordSet = false
}

// TryAnswer checks a guess against the word in play. On a match it marks the
// session answered, clears the word, and returns the elapsed time since the
// word was issued. The check and the state change are a single atomic step so
// the round driver never observes a half-applied answer.
func (s *Session) TryAnswer(guess string, now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.wordSet || guess != s.word {
		return 0, false
	}

	s.answered = true
	s.word = ""
	s.wordSet = false
	return now.Sub(s.wordStart), true
}

func (s *Session) AnsweredCorrectly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.answered
}

// RequestExit flags the session for withdrawal from its current game. The
// round driver observes the flag at its next tick. The running score resets
// immediately.
func (s *Session) RequestExit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exitRequested = true
	s.totalScore = 0
}

func (s *Session) ExitRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exitRequested
}

// ClearExit rearms the session for future games after the round driver has
// acknowledged the exit.
func (s *Session) ClearExit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exitRequested = false
}

// AddScore accumulates points for a correct answer and returns the new total.
func (s *Session) AddScore(points float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalScore += points
	return s.totalScore
}

func (s *Session) TotalScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalScore
}
