// Package arena hosts live matches: challenge negotiation, the per-channel
// registry and the runner that drives rounds through the combat engine.
package arena

import (
	"errors"
	"sync"
	"time"

	"github.com/CharGoon26/dwdex-battles/internal/battle"
)

var (
	ErrNotInvited       = errors.New("participant is not part of this challenge")
	ErrNotAccepted      = errors.New("challenge has not been accepted yet")
	ErrAlreadyAccepted  = errors.New("challenge was already accepted")
	ErrSelfChallenge    = errors.New("a participant cannot challenge themselves")
	ErrTeamFull         = errors.New("team already has the maximum number of units")
	ErrUnitNotInTeam    = errors.New("unit is not part of the team")
	ErrDuplicateUnit    = errors.New("unit was already added to the team")
	ErrTeamIncomplete   = errors.New("team does not have enough units")
	ErrAlreadyReady     = errors.New("participant already confirmed their team")
	ErrSetupNotComplete = errors.New("both participants must confirm their teams")
)

// Participant identifies one side of a challenge.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamSlot is one unit picked for the setup, tagged with the inventory
// instance it came from.
type TeamSlot struct {
	InstanceUUID string      `json:"instance_uuid"`
	Unit         battle.Unit `json:"unit"`
}

// Setup is a challenge in its negotiation phase: issued, optionally
// accepted, teams picked, both sides confirmed. All methods are safe for
// concurrent use.
type Setup struct {
	mu sync.Mutex

	ChannelID  string
	Challenger Participant
	Opponent   Participant
	CreatedAt  time.Time
	ExpiresAt  time.Time

	accepted bool
	teams    map[string][]TeamSlot
	ready    map[string]bool
}

func NewSetup(channelID string, challenger, opponent Participant, ttl time.Duration) (*Setup, error) {
	if challenger.ID == opponent.ID {
		return nil, ErrSelfChallenge
	}
	now := time.Now()
	return &Setup{
		ChannelID:  channelID,
		Challenger: challenger,
		Opponent:   opponent,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
		teams:      map[string][]TeamSlot{},
		ready:      map[string]bool{},
	}, nil
}

func (s *Setup) isParty(participantID string) bool {
	return participantID == s.Challenger.ID || participantID == s.Opponent.ID
}

// Accept marks the challenge accepted. Only the invited opponent may accept.
func (s *Setup) Accept(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if participantID != s.Opponent.ID {
		return ErrNotInvited
	}
	if s.accepted {
		return ErrAlreadyAccepted
	}
	s.accepted = true
	return nil
}

func (s *Setup) Accepted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

func (s *Setup) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.ExpiresAt)
}

// AddUnit appends a unit to the participant's team.
func (s *Setup) AddUnit(participantID string, slot TeamSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isParty(participantID) {
		return ErrNotInvited
	}
	if !s.accepted {
		return ErrNotAccepted
	}
	if s.ready[participantID] {
		return ErrAlreadyReady
	}
	team := s.teams[participantID]
	if len(team) >= battle.TeamSize {
		return ErrTeamFull
	}
	for _, existing := range team {
		if existing.InstanceUUID == slot.InstanceUUID {
			return ErrDuplicateUnit
		}
	}
	s.teams[participantID] = append(team, slot)
	return nil
}

// RemoveUnit drops the unit with the given instance UUID from the team.
func (s *Setup) RemoveUnit(participantID, instanceUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isParty(participantID) {
		return ErrNotInvited
	}
	if s.ready[participantID] {
		return ErrAlreadyReady
	}
	team := s.teams[participantID]
	for i, slot := range team {
		if slot.InstanceUUID == instanceUUID {
			s.teams[participantID] = append(team[:i], team[i+1:]...)
			return nil
		}
	}
	return ErrUnitNotInTeam
}

// FillBest replaces the participant's picks with the strongest units from
// their inventory, ranked by attack plus health.
func (s *Setup) FillBest(participantID string, inventory []TeamSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isParty(participantID) {
		return ErrNotInvited
	}
	if !s.accepted {
		return ErrNotAccepted
	}
	if s.ready[participantID] {
		return ErrAlreadyReady
	}
	if len(inventory) < battle.TeamSize {
		return ErrTeamIncomplete
	}
	picked := make([]TeamSlot, len(inventory))
	copy(picked, inventory)
	for i := 0; i < battle.TeamSize; i++ {
		best := i
		for j := i + 1; j < len(picked); j++ {
			if picked[j].Unit.Attack+picked[j].Unit.Health > picked[best].Unit.Attack+picked[best].Unit.Health {
				best = j
			}
		}
		picked[i], picked[best] = picked[best], picked[i]
	}
	s.teams[participantID] = picked[:battle.TeamSize]
	return nil
}

// MarkReady locks the participant's team. The team must be full.
func (s *Setup) MarkReady(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isParty(participantID) {
		return ErrNotInvited
	}
	if !s.accepted {
		return ErrNotAccepted
	}
	if len(s.teams[participantID]) != battle.TeamSize {
		return ErrTeamIncomplete
	}
	if s.ready[participantID] {
		return ErrAlreadyReady
	}
	s.ready[participantID] = true
	return nil
}

// Complete returns the two teams once both sides confirmed. The challenger's
// team always fights as side A.
func (s *Setup) Complete() (teamA, teamB []battle.Unit, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready[s.Challenger.ID] || !s.ready[s.Opponent.ID] {
		return nil, nil, ErrSetupNotComplete
	}
	for _, slot := range s.teams[s.Challenger.ID] {
		teamA = append(teamA, slot.Unit)
	}
	for _, slot := range s.teams[s.Opponent.ID] {
		teamB = append(teamB, slot.Unit)
	}
	return teamA, teamB, nil
}

// View is the wire snapshot of a setup used by the API.
type View struct {
	ChannelID  string                `json:"channel_id"`
	Challenger Participant           `json:"challenger"`
	Opponent   Participant           `json:"opponent"`
	Accepted   bool                  `json:"accepted"`
	Teams      map[string][]TeamSlot `json:"teams"`
	Ready      map[string]bool       `json:"ready"`
	ExpiresAt  time.Time             `json:"expires_at"`
}

func (s *Setup) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	teams := make(map[string][]TeamSlot, len(s.teams))
	for id, team := range s.teams {
		cp := make([]TeamSlot, len(team))
		copy(cp, team)
		teams[id] = cp
	}
	ready := make(map[string]bool, len(s.ready))
	for id, r := range s.ready {
		ready[id] = r
	}
	return View{
		ChannelID:  s.ChannelID,
		Challenger: s.Challenger,
		Opponent:   s.Opponent,
		Accepted:   s.accepted,
		Teams:      teams,
		Ready:      ready,
		ExpiresAt:  s.ExpiresAt,
	}
}
