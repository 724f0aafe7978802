package arena

import (
	"fmt"
	"testing"
	"time"

	"github.com/CharGoon26/dwdex-battles/internal/battle"
)

func testSetup(t *testing.T) *Setup {
	t.Helper()
	s, err := NewSetup("chan-1", Participant{ID: "u1", Name: "Alice"}, Participant{ID: "u2", Name: "Bob"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func slot(id string, health, attack int) TeamSlot {
	return TeamSlot{InstanceUUID: id, Unit: battle.NewUnit("Unit "+id, "owner", health, attack)}
}

func TestNewSetup_RejectsSelfChallenge(t *testing.T) {
	_, err := NewSetup("chan-1", Participant{ID: "u1"}, Participant{ID: "u1"}, time.Minute)
	if err != ErrSelfChallenge {
		t.Fatalf("expected ErrSelfChallenge, got %v", err)
	}
}

func TestAccept(t *testing.T) {
	s := testSetup(t)

	if err := s.Accept("u1"); err != ErrNotInvited {
		t.Fatalf("challenger must not accept their own challenge, got %v", err)
	}
	if err := s.Accept("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Accept("u2"); err != ErrAlreadyAccepted {
		t.Fatalf("expected ErrAlreadyAccepted, got %v", err)
	}
	if !s.Accepted() {
		t.Fatalf("expected accepted setup")
	}
}

func TestAddUnit(t *testing.T) {
	s := testSetup(t)

	if err := s.AddUnit("u1", slot("i1", 100, 10)); err != ErrNotAccepted {
		t.Fatalf("expected ErrNotAccepted, got %v", err)
	}
	if err := s.Accept("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < battle.TeamSize; i++ {
		if err := s.AddUnit("u1", slot(fmt.Sprintf("i%d", i), 100, 10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.AddUnit("u1", slot("i9", 100, 10)); err != ErrTeamFull {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}
	if err := s.AddUnit("u2", slot("i0", 100, 10)); err != ErrDuplicateUnit {
		t.Fatalf("expected ErrDuplicateUnit, got %v", err)
	}
	if err := s.AddUnit("u3", slot("x", 100, 10)); err != ErrNotInvited {
		t.Fatalf("expected ErrNotInvited, got %v", err)
	}
}

func TestRemoveUnit(t *testing.T) {
	s := testSetup(t)
	if err := s.Accept("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddUnit("u1", slot("i1", 100, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RemoveUnit("u1", "i9"); err != ErrUnitNotInTeam {
		t.Fatalf("expected ErrUnitNotInTeam, got %v", err)
	}
	if err := s.RemoveUnit("u1", "i1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(s.Snapshot().Teams["u1"]); got != 0 {
		t.Fatalf("expected empty team, got %d units", got)
	}
}

func TestFillBest_PicksStrongestUnits(t *testing.T) {
	s := testSetup(t)
	if err := s.Accept("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inventory := []TeamSlot{
		slot("weak", 50, 5),
		slot("best", 200, 50),
		slot("mid", 100, 20),
		slot("good", 150, 30),
	}
	if err := s.FillBest("u1", inventory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	team := s.Snapshot().Teams["u1"]
	if len(team) != battle.TeamSize {
		t.Fatalf("expected full team, got %d", len(team))
	}
	want := map[string]bool{"best": true, "good": true, "mid": true}
	for _, sl := range team {
		if !want[sl.InstanceUUID] {
			t.Fatalf("unexpected pick %q", sl.InstanceUUID)
		}
	}

	if err := s.FillBest("u1", inventory[:2]); err != ErrTeamIncomplete {
		t.Fatalf("expected ErrTeamIncomplete, got %v", err)
	}
}

func TestReadyAndComplete(t *testing.T) {
	s := testSetup(t)
	if err := s.Accept("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.MarkReady("u1"); err != ErrTeamIncomplete {
		t.Fatalf("expected ErrTeamIncomplete, got %v", err)
	}
	for i := 0; i < battle.TeamSize; i++ {
		id := fmt.Sprintf("a%d", i)
		if err := s.AddUnit("u1", slot(id, 100, 10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		id = fmt.Sprintf("b%d", i)
		if err := s.AddUnit("u2", slot(id, 100, 10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.MarkReady("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.MarkReady("u1"); err != ErrAlreadyReady {
		t.Fatalf("expected ErrAlreadyReady, got %v", err)
	}
	if err := s.AddUnit("u1", slot("late", 100, 10)); err != ErrAlreadyReady {
		t.Fatalf("locked team must reject changes, got %v", err)
	}
	if _, _, err := s.Complete(); err != ErrSetupNotComplete {
		t.Fatalf("expected ErrSetupNotComplete, got %v", err)
	}

	if err := s.MarkReady("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	teamA, teamB, err := s.Complete()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teamA) != battle.TeamSize || len(teamB) != battle.TeamSize {
		t.Fatalf("unexpected team sizes %d/%d", len(teamA), len(teamB))
	}
	if teamA[0].Name != "Unit a0" {
		t.Fatalf("challenger must fight as side A, got %q", teamA[0].Name)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := testSetup(t)

	if err := r.Put(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Put(s); err != ErrChannelBusy {
		t.Fatalf("expected ErrChannelBusy, got %v", err)
	}
	if _, err := r.Setup("chan-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Runner("chan-1"); err != ErrBattleAbsent {
		t.Fatalf("expected ErrBattleAbsent, got %v", err)
	}

	runner := &Runner{}
	active, started, err := r.Promote("chan-1", runner)
	if err != nil || !started || active != runner {
		t.Fatalf("unexpected promote result: %v, %v, %v", active, started, err)
	}
	if _, err := r.Setup("chan-1"); err != ErrChallengeAbsent {
		t.Fatalf("expected ErrChallengeAbsent, got %v", err)
	}
	got, err := r.Runner("chan-1")
	if err != nil || got != runner {
		t.Fatalf("expected promoted runner, got %v, %v", got, err)
	}

	r.Remove("chan-1")
	if _, err := r.Runner("chan-1"); err != ErrBattleAbsent {
		t.Fatalf("expected cleared channel, got %v", err)
	}
}

func TestRegistry_PromoteRace(t *testing.T) {
	r := NewRegistry()
	if err := r.Put(testSetup(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := &Runner{}
	second := &Runner{}
	active, started, err := r.Promote("chan-1", first)
	if err != nil || !started || active != first {
		t.Fatalf("unexpected first promote: %v, %v, %v", active, started, err)
	}

	// The loser of the race gets the running battle, not an error.
	active, started, err = r.Promote("chan-1", second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started {
		t.Fatalf("second promote must not start a battle")
	}
	if active != first {
		t.Fatalf("expected the first runner to stay active")
	}

	r.Remove("chan-1")
	if _, _, err := r.Promote("chan-1", second); err != ErrChallengeAbsent {
		t.Fatalf("expected ErrChallengeAbsent, got %v", err)
	}
}

func TestRegistry_SweepExpired(t *testing.T) {
	r := NewRegistry()
	s, err := NewSetup("chan-1", Participant{ID: "u1"}, Participant{ID: "u2"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Put(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dropped := r.SweepExpired(time.Now()); len(dropped) != 0 {
		t.Fatalf("fresh setup must not be swept: %v", dropped)
	}
	dropped := r.SweepExpired(time.Now().Add(2 * time.Minute))
	if len(dropped) != 1 || dropped[0] != "chan-1" {
		t.Fatalf("expected chan-1 swept, got %v", dropped)
	}
	if _, err := r.Setup("chan-1"); err != ErrChallengeAbsent {
		t.Fatalf("expected ErrChallengeAbsent, got %v", err)
	}
}
