package battle

import "errors"

// MoveKind classifies what a move does when it resolves.
type MoveKind string

const (
	NormalAttack MoveKind = "attack"
	HeavyAttack  MoveKind = "heavy_attack"
	Defend       MoveKind = "defend"
	Heal         MoveKind = "heal"
)

// ErrUnknownMove is returned by Lookup for move IDs outside the catalog.
var ErrUnknownMove = errors.New("unknown move")

// BaseMissChance is the universal miss roll evaluated before any move
// resolves, regardless of its kind.
const BaseMissChance = 0.1

// HealFraction of max health restored by the heal move (floored).
const HealFraction = 0.2

// Move is an immutable catalog entry. Numeric parameters are only
// meaningful for the kinds that use them.
type Move struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind MoveKind `json:"kind"`

	// Damage multiplier range applied to the caster's attack stat.
	MinMultiplier float64 `json:"min_multiplier,omitempty"`
	MaxMultiplier float64 `json:"max_multiplier,omitempty"`

	// ExtraMissChance is rolled after the universal miss check passed
	// (heavy attacks only).
	ExtraMissChance float64 `json:"extra_miss_chance,omitempty"`

	CritChance     float64 `json:"crit_chance,omitempty"`
	CritMultiplier float64 `json:"crit_multiplier,omitempty"`
}

// The fixed catalog. Defined once, never mutated.
var moves = []Move{
	{ID: "attack", Name: "Quick Attack", Kind: NormalAttack, MinMultiplier: 0.8, MaxMultiplier: 1.2, CritChance: 0.1, CritMultiplier: 1.5},
	{ID: "heavy", Name: "Heavy Strike", Kind: HeavyAttack, MinMultiplier: 1.2, MaxMultiplier: 1.8, ExtraMissChance: 0.3},
	{ID: "defend", Name: "Defend", Kind: Defend},
	{ID: "heal", Name: "Recover", Kind: Heal},
}

var movesByID = func() map[string]Move {
	m := make(map[string]Move, len(moves))
	for _, mv := range moves {
		m[mv.ID] = mv
	}
	return m
}()

// Lookup returns the catalog move for id or ErrUnknownMove.
func Lookup(id string) (Move, error) {
	mv, ok := movesByID[id]
	if !ok {
		return Move{}, ErrUnknownMove
	}
	return mv, nil
}

// MoveIDs returns the catalog move identifiers in definition order. The
// slice is a copy; callers may shuffle or index it freely.
func MoveIDs() []string {
	ids := make([]string, len(moves))
	for i, mv := range moves {
		ids[i] = mv.ID
	}
	return ids
}

// Offensive reports whether the move deals damage to the opposing unit.
func (m Move) Offensive() bool {
	return m.Kind == NormalAttack || m.Kind == HeavyAttack
}
