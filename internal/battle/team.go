package battle

import "errors"

// TeamSize is the exact number of units each side fields.
const TeamSize = 3

// ErrTeamSize is returned when a match is created with a team that does
// not contain exactly TeamSize units.
var ErrTeamSize = errors.New("team must contain exactly 3 units")

// Side identifies one of the two teams in a match.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "team_a"
	}
	return "team_b"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Team holds one side's ordered units and the index of the unit currently
// taking hits.
type Team struct {
	Units       []Unit `json:"units"`
	ActiveIndex int    `json:"active_index"`
}

// NewTeam validates the team size and starts with the first unit active.
func NewTeam(units []Unit) (*Team, error) {
	if len(units) != TeamSize {
		return nil, ErrTeamSize
	}
	t := &Team{Units: make([]Unit, TeamSize)}
	copy(t.Units, units)
	return t, nil
}

// Active returns the current active unit, or nil when it has fainted and
// no switch happened yet.
func (t *Team) Active() *Unit {
	u := &t.Units[t.ActiveIndex]
	if u.Fainted {
		return nil
	}
	return u
}

// AdvanceActive moves the active index strictly forward to the next
// non-fainted unit. It never wraps backward. Returns false when no unit
// remains, meaning the team is defeated.
func (t *Team) AdvanceActive() bool {
	for i := t.ActiveIndex + 1; i < len(t.Units); i++ {
		if !t.Units[i].Fainted {
			t.ActiveIndex = i
			return true
		}
	}
	return false
}

// AliveCount returns the number of non-fainted units.
func (t *Team) AliveCount() int {
	n := 0
	for i := range t.Units {
		if !t.Units[i].Fainted {
			n++
		}
	}
	return n
}

// Defeated reports whether every unit on the team has fainted.
func (t *Team) Defeated() bool {
	return t.AliveCount() == 0
}

// Snapshot copies the current state of every unit.
func (t *Team) Snapshot() []Unit {
	s := make([]Unit, len(t.Units))
	copy(s, t.Units)
	return s
}
