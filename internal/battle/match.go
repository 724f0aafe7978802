package battle

import "errors"

var (
	// ErrMatchOver signals a caller contract violation: a round was
	// requested after the match reached a terminal state.
	ErrMatchOver = errors.New("match is already over")
	// ErrNoLivingUnit signals that a side entered round resolution
	// without a live active unit, meaning switch-on-faint was skipped.
	ErrNoLivingUnit = errors.New("no living active unit")
)

// Winner is the terminal outcome of a match.
type Winner int

const (
	WinnerUnspecified Winner = iota
	WinnerTeamA
	WinnerTeamB
	WinnerDraw
	WinnerAbandoned
)

func (w Winner) String() string {
	switch w {
	case WinnerTeamA:
		return "team_a"
	case WinnerTeamB:
		return "team_b"
	case WinnerDraw:
		return "draw"
	case WinnerAbandoned:
		return "abandoned"
	default:
		return "unspecified"
	}
}

// Event records one resolved (or rejected) action within a round.
type Event struct {
	Side    Side    `json:"side"`
	MoveID  string  `json:"move_id"`
	Outcome Outcome `json:"outcome"`
	// Error is set when the submitted move identifier was unknown; the
	// action then had no effect but the round still completed.
	Error string `json:"error,omitempty"`
	// SwitchedIn names the unit that entered after the defender fainted.
	SwitchedIn string `json:"switched_in,omitempty"`
}

// RoundRecord is the append-only log entry for one resolved round.
type RoundRecord struct {
	Turn    int     `json:"turn"`
	ActiveA string  `json:"active_a"`
	ActiveB string  `json:"active_b"`
	Events  []Event `json:"events"`
	TeamA   []Unit  `json:"team_a"`
	TeamB   []Unit  `json:"team_b"`
}

// Match is the state machine for one duel between two teams of three.
type Match struct {
	TeamA   *Team
	TeamB   *Team
	Turn    int
	History []RoundRecord
	Winner  Winner

	src Source
}

// NewMatch validates both teams and builds a match using src for every
// random roll drawn during resolution.
func NewMatch(teamA, teamB []Unit, src Source) (*Match, error) {
	a, err := NewTeam(teamA)
	if err != nil {
		return nil, err
	}
	b, err := NewTeam(teamB)
	if err != nil {
		return nil, err
	}
	return &Match{TeamA: a, TeamB: b, src: src}, nil
}

// Team returns the team fighting on the given side.
func (m *Match) Team(s Side) *Team {
	if s == SideA {
		return m.TeamA
	}
	return m.TeamB
}

// IsOver reports whether the match reached a terminal state.
func (m *Match) IsOver() bool {
	return m.Winner != WinnerUnspecified || m.TeamA.Defeated() || m.TeamB.Defeated()
}

// Abandon marks a still-running match as abandoned (forfeit, disconnect
// or orchestrator cancellation). It is distinct from a draw and counts
// for neither side. Abandoning a finished match is a no-op.
func (m *Match) Abandon() {
	if m.Winner == WinnerUnspecified {
		m.Winner = WinnerAbandoned
	}
}

// ExecuteRound resolves one round given each side's move identifier for
// its active unit. The side with the higher-attack active unit acts
// first; ties break 50/50. The second action is skipped iff the match
// ended after the first. The returned record has also been appended to
// History.
func (m *Match) ExecuteRound(moveA, moveB string) (RoundRecord, error) {
	if m.IsOver() {
		return RoundRecord{}, ErrMatchOver
	}
	ua := m.TeamA.Active()
	ub := m.TeamB.Active()
	if ua == nil || ub == nil {
		return RoundRecord{}, ErrNoLivingUnit
	}

	m.Turn++
	rec := RoundRecord{Turn: m.Turn, ActiveA: ua.Name, ActiveB: ub.Name}

	first, second := SideA, SideB
	firstMove, secondMove := moveA, moveB
	if ub.Attack > ua.Attack || (ub.Attack == ua.Attack && m.src.CoinFlip()) {
		first, second = SideB, SideA
		firstMove, secondMove = moveB, moveA
	}

	// The unit expected to act second is captured before the first action:
	// a replacement that switches in mid-round never acts this round.
	secondActor := m.Team(second).Active()

	rec.Events = append(rec.Events, m.resolveAction(first, firstMove))

	if !m.teamsDone() && secondActor != nil && !secondActor.Fainted {
		rec.Events = append(rec.Events, m.resolveAction(second, secondMove))
	}

	m.settleWinner()
	rec.TeamA = m.TeamA.Snapshot()
	rec.TeamB = m.TeamB.Snapshot()
	m.History = append(m.History, rec)
	return rec, nil
}

// resolveAction applies one side's move to the opposing active unit and
// advances the opposing team when its active unit faints.
func (m *Match) resolveAction(s Side, moveID string) Event {
	ev := Event{Side: s, MoveID: moveID}
	mv, err := Lookup(moveID)
	if err != nil {
		ev.Error = err.Error()
		return ev
	}
	caster := m.Team(s).Active()
	opp := m.Team(s.Opponent())
	target := opp.Active()
	ev.Outcome = ApplyMove(m.src, mv, caster, target)
	if ev.Outcome.TargetFainted {
		if opp.AdvanceActive() {
			ev.SwitchedIn = opp.Active().Name
		}
	}
	return ev
}

func (m *Match) teamsDone() bool {
	return m.TeamA.Defeated() || m.TeamB.Defeated()
}

// settleWinner fixes the winner exactly once, after the round's actions.
func (m *Match) settleWinner() {
	if m.Winner != WinnerUnspecified {
		return
	}
	aDown := m.TeamA.Defeated()
	bDown := m.TeamB.Defeated()
	switch {
	case aDown && bDown:
		m.Winner = WinnerDraw
	case aDown:
		m.Winner = WinnerTeamB
	case bDown:
		m.Winner = WinnerTeamA
	}
}
