package arena

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CharGoon26/dwdex-battles/internal/battle"
)

// steadySource removes all randomness: no misses, no crits, multiplier 1.0,
// side A wins attack ties.
type steadySource struct{}

func (steadySource) Chance(float64) bool              { return false }
func (steadySource) Uniform(float64, float64) float64 { return 1.0 }
func (steadySource) CoinFlip() bool                   { return false }

type recordingReporter struct {
	mu       sync.Mutex
	rounds   []battle.RoundRecord
	finished *Result
	onRound  func(rec battle.RoundRecord)
}

func (r *recordingReporter) RoundResolved(channelID string, rec battle.RoundRecord) {
	r.mu.Lock()
	r.rounds = append(r.rounds, rec)
	r.mu.Unlock()
	if r.onRound != nil {
		r.onRound(rec)
	}
}

func (r *recordingReporter) MatchFinished(channelID string, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = &res
}

func units(owner string, health, attack int) []battle.Unit {
	out := make([]battle.Unit, battle.TeamSize)
	for i := range out {
		out[i] = battle.NewUnit("Unit", owner, health, attack)
	}
	return out
}

func testRunner(t *testing.T, rep Reporter, timeout time.Duration) *Runner {
	t.Helper()
	m, err := battle.NewMatch(units("u1", 100, 1000), units("u2", 100, 1), steadySource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := Participant{ID: "u1", Name: "Alice"}
	b := Participant{ID: "u2", Name: "Bob"}
	return NewRunner("chan-1", a, b, m, timeout, 0, rep)
}

func TestRunner_SubmittedMovesResolveRounds(t *testing.T) {
	rep := &recordingReporter{}
	r := testRunner(t, rep, 5*time.Second)

	submitBoth := func() {
		if err := r.Submit("u1", "attack"); err != nil && err != ErrMatchFinished {
			t.Errorf("submit u1: %v", err)
		}
		if err := r.Submit("u2", "attack"); err != nil && err != ErrMatchFinished {
			t.Errorf("submit u2: %v", err)
		}
	}
	rep.onRound = func(battle.RoundRecord) { submitBoth() }
	submitBoth()

	res := r.Run(context.Background())

	// Side A one-shots each enemy unit; the switched-in unit never acts in
	// the round it enters, so the match takes exactly three rounds.
	if res.Turns != 3 {
		t.Fatalf("expected 3 rounds, got %d", res.Turns)
	}
	if res.Winner != battle.WinnerTeamA || res.WinnerID != "u1" {
		t.Fatalf("expected u1 to win, got %+v", res)
	}
	rep.mu.Lock()
	defer rep.mu.Unlock()
	if len(rep.rounds) != 3 {
		t.Fatalf("expected 3 round reports, got %d", len(rep.rounds))
	}
	if rep.finished == nil || rep.finished.WinnerID != "u1" {
		t.Fatalf("expected finish report for u1, got %+v", rep.finished)
	}
}

func TestRunner_SubmitValidation(t *testing.T) {
	r := testRunner(t, &recordingReporter{}, time.Second)

	if err := r.Submit("u1", "uppercut"); err != battle.ErrUnknownMove {
		t.Fatalf("expected ErrUnknownMove, got %v", err)
	}
	if err := r.Submit("u3", "attack"); err != ErrNotInvited {
		t.Fatalf("expected ErrNotInvited, got %v", err)
	}
	if err := r.Submit("u1", "attack"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Submit("u1", "defend"); err != ErrMoveAlreadySet {
		t.Fatalf("expected ErrMoveAlreadySet, got %v", err)
	}
}

func TestRunner_TimeoutFallback(t *testing.T) {
	rep := &recordingReporter{}
	r := testRunner(t, rep, 5*time.Millisecond)

	// Nobody ever submits: every round resolves on fallback moves. Side B
	// deals no damage, so side A always wins eventually.
	res := r.Run(context.Background())
	if res.Winner != battle.WinnerTeamA {
		t.Fatalf("expected side A to win on fallback play, got %v", res.Winner)
	}
	if res.Turns < 3 {
		t.Fatalf("expected at least 3 rounds, got %d", res.Turns)
	}
}

func TestRunner_CancelAbandonsMatch(t *testing.T) {
	rep := &recordingReporter{}
	r := testRunner(t, rep, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case res := <-done:
		if res.Winner != battle.WinnerAbandoned {
			t.Fatalf("expected abandoned outcome, got %v", res.Winner)
		}
		if res.WinnerID != "" {
			t.Fatalf("abandoned match must have no winner, got %q", res.WinnerID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop after cancellation")
	}

	if err := r.Submit("u1", "attack"); err != ErrMatchFinished {
		t.Fatalf("expected ErrMatchFinished, got %v", err)
	}
}
