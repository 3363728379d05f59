package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"typefast/internal/typefast/models"
)

const (
	defaultTimeLimit    = 30
	defaultWordsPerGame = 5
	defaultSettleDelay  = 3 * time.Second
	defaultTickInterval = time.Second
)

// RoundConfig controls the pacing of a game round. Tests shrink the
// durations; production uses the defaults.
type RoundConfig struct {
	Words        *WordList
	WordsPerGame int
	TimeLimit    int           // countdown ticks allowed per word
	SettleDelay  time.Duration // pause before each word is revealed
	TickInterval time.Duration // wall time per countdown tick
}

// Round drives one matched group through a bounded sequence of timed word
// challenges. It runs on its own goroutine and owns the group for its whole
// lifetime; it talks to members only through their session state.
type Round struct {
	id      string
	members []*models.Session
	cfg     RoundConfig
}

// NewRound validates the group and configuration. Starting a round with an
// empty word list is a configuration error, not something to discover one
// word at a time.
func NewRound(members []*models.Session, cfg RoundConfig) (*Round, error) {
	if cfg.Words == nil || cfg.Words.Len() == 0 {
		return nil, ErrNoWords
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("cannot start a round with no players")
	}

	if cfg.WordsPerGame <= 0 {
		cfg.WordsPerGame = defaultWordsPerGame
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = defaultTimeLimit
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}

	return &Round{
		id:      uuid.New().String(),
		members: members,
		cfg:     cfg,
	}, nil
}

func (r *Round) ID() string {
	return r.id
}

// Run plays the round to completion and blocks until it ends. The round ends
// normally after the configured number of words, or early when any member
// requests exit or ctx is cancelled. Members who requested exit always get
// their dashboard notice, even on the early paths.
func (r *Round) Run(ctx context.Context) {
	defer r.finish()

	for sent := 0; sent < r.cfg.WordsPerGame; sent++ {
		if !r.playWord(ctx) {
			return
		}
	}

	r.broadcast("Game over. Thanks for playing!")
	log.Printf("game %s finished", r.id)
}

// playWord runs one announce/countdown/resolve cycle. It returns false when
// the round should stop early.
func (r *Round) playWord(ctx context.Context) bool {
	word, err := r.cfg.Words.Pick()
	if err != nil {
		log.Printf("game %s: %v", r.id, err)
		return false
	}

	// Settle delay before the reveal so clients catch up between words.
	if !r.wait(ctx, r.cfg.SettleDelay) {
		return false
	}
	if r.anyExit() {
		return false
	}

	issued := time.Now()
	for _, m := range r.members {
		m.BeginWord(word, issued)
		m.Send("New word: " + word)
	}
	defer func() {
		for _, m := range r.members {
			m.FinishWord()
		}
	}()

	for i := r.cfg.TimeLimit; i > 0; i-- {
		if r.anyExit() {
			return false
		}
		r.broadcast(fmt.Sprintf("Time remaining: %d seconds", i))
		if !r.wait(ctx, r.cfg.TickInterval) {
			return false
		}
		if r.anyAnswered() {
			break
		}
	}

	for _, m := range r.members {
		if !m.AnsweredCorrectly() {
			m.Send("Time's up! You did not type the word correctly.")
		}
	}
	return true
}

// finish runs on every exit path. Members who asked to leave get the
// dashboard notice and their flag cleared so they can queue up again;
// everyone else simply sees no further round traffic.
func (r *Round) finish() {
	for _, m := range r.members {
		if m.ExitRequested() {
			m.ClearExit()
			m.Send("Exiting game. Welcome to dashboard.")
		}
	}
}

// wait sleeps for d or until ctx is cancelled, reporting whether the round
// should keep going.
func (r *Round) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Round) anyExit() bool {
	for _, m := range r.members {
		if m.ExitRequested() {
			return true
		}
	}
	return false
}

func (r *Round) anyAnswered() bool {
	for _, m := range r.members {
		if m.AnsweredCorrectly() {
			return true
		}
	}
	return false
}

// broadcast sends a line to every member. Send errors are ignored here: a
// broken connection ends that member's own handler, and the round must not
// stop for the rest of the group.
func (r *Round) broadcast(line string) {
	for _, m := range r.members {
		_ = m.Send(line)
	}
}
