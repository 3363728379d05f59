// Package lobby holds the matchmaking queue. Sessions that ask to join wait
// here in FIFO order until enough of them accumulate to form a group.
package lobby

import (
	"errors"
	"fmt"
	"sync"

	"typefast/internal/typefast/models"
)

// ErrAlreadyQueued is returned when a session joins the waiting list twice.
var ErrAlreadyQueued = errors.New("already in the waiting list")

// StartFunc launches a game for a freshly matched group. It must not block:
// the matchmaker calls it inline from Enqueue.
type StartFunc func(group []*models.Session)

// Matchmaker owns the waiting queue. Enqueue and the group-size threshold
// check run under one lock, so two concurrent joins can never claim the same
// players for different games. Group formation happens only at enqueue time;
// there is no background sweep.
type Matchmaker struct {
	mu        sync.Mutex
	queue     []*models.Session
	groupSize int
	start     StartFunc
}

func NewMatchmaker(groupSize int, start StartFunc) *Matchmaker {
	if groupSize < 1 {
		groupSize = 1
	}
	return &Matchmaker{
		groupSize: groupSize,
		start:     start,
	}
}

// Enqueue appends the session to the waiting list, tells every waiting
// player the new queue length, and forms a group from the oldest sessions if
// the list has reached the group size.
func (m *Matchmaker) Enqueue(s *models.Session) error {
	m.mu.Lock()

	for _, queued := range m.queue {
		if queued == s {
			m.mu.Unlock()
			return ErrAlreadyQueued
		}
	}

	m.queue = append(m.queue, s)
	size := fmt.Sprintf("Players in waiting list: %d", len(m.queue))
	for _, queued := range m.queue {
		queued.Send(size)
	}
	s.Send("Added to waiting list. Waiting for other players...")

	var group []*models.Session
	if len(m.queue) >= m.groupSize {
		group = make([]*models.Session, m.groupSize)
		copy(group, m.queue)
		m.queue = append(m.queue[:0:0], m.queue[m.groupSize:]...)
	}
	m.mu.Unlock()

	if group != nil {
		m.start(group)
	}
	return nil
}

// Remove drops a session from the waiting list, typically because its
// connection went away. Removing an absent session is a no-op.
func (m *Matchmaker) Remove(s *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, queued := range m.queue {
		if queued == s {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// Len reports the number of waiting sessions.
func (m *Matchmaker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.queue)
}
