// Package cooldown tracks per-participant battle cooldowns in memory.
// Entries are swept lazily on access, so no background goroutine is needed.
package cooldown

import (
	"sync"
	"time"
)

type Tracker struct {
	mu       sync.Mutex
	duration time.Duration
	until    map[string]time.Time
	now      func() time.Time
}

func NewTracker(duration time.Duration) *Tracker {
	return &Tracker{
		duration: duration,
		until:    make(map[string]time.Time),
		now:      time.Now,
	}
}

// Set starts the cooldown window for a participant.
func (t *Tracker) Set(participantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.until[participantID] = t.now().Add(t.duration)
}

// Remaining returns how long the participant must still wait, or zero when
// no cooldown is active. Expired entries are removed.
func (t *Tracker) Remaining(participantID string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	end, ok := t.until[participantID]
	if !ok {
		return 0
	}
	left := end.Sub(t.now())
	if left <= 0 {
		delete(t.until, participantID)
		return 0
	}
	return left
}

// Sweep drops every expired entry and returns how many were removed.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	removed := 0
	for id, end := range t.until {
		if now.After(end) {
			delete(t.until, id)
			removed++
		}
	}
	return removed
}
