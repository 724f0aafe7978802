package arena

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrChannelBusy     = errors.New("channel already hosts a challenge or battle")
	ErrChallengeAbsent = errors.New("no challenge in this channel")
	ErrBattleAbsent    = errors.New("no battle running in this channel")
)

// entry is what a channel currently hosts: a setup under negotiation, then
// the runner once the battle starts.
type entry struct {
	setup  *Setup
	runner *Runner
}

// Registry maps channels to their single live challenge or battle.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Put registers a new setup. A channel hosts at most one challenge or
// battle at a time.
func (r *Registry) Put(s *Setup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.entries[s.ChannelID]; busy {
		return ErrChannelBusy
	}
	r.entries[s.ChannelID] = &entry{setup: s}
	return nil
}

// Setup returns the channel's setup while the challenge is still under
// negotiation.
func (r *Registry) Setup(channelID string) (*Setup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[channelID]
	if !ok || e.setup == nil {
		return nil, ErrChallengeAbsent
	}
	return e.setup, nil
}

// Runner returns the channel's live battle runner.
func (r *Registry) Runner(channelID string) (*Runner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[channelID]
	if !ok || e.runner == nil {
		return nil, ErrBattleAbsent
	}
	return e.runner, nil
}

// Promote swaps the channel's setup for the started runner. When two
// callers race to start the same battle only the first wins: the loser
// gets the winner's runner back with started=false and must discard its
// own.
func (r *Registry) Promote(channelID string, runner *Runner) (active *Runner, started bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[channelID]
	if !ok {
		return nil, false, ErrChallengeAbsent
	}
	if e.runner != nil {
		return e.runner, false, nil
	}
	e.setup = nil
	e.runner = runner
	return runner, true, nil
}

// Remove frees the channel after the battle finishes or the challenge is
// cancelled.
func (r *Registry) Remove(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, channelID)
}

// SweepExpired drops setups whose negotiation window elapsed and returns the
// affected channels. Running battles are never swept.
func (r *Registry) SweepExpired(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dropped []string
	for channelID, e := range r.entries {
		if e.setup != nil && e.setup.Expired(now) {
			delete(r.entries, channelID)
			dropped = append(dropped, channelID)
		}
	}
	return dropped
}
