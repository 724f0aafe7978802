package battle

import "math"

// Unit is the mutable combat state of a single team member for the
// lifetime of one match.
type Unit struct {
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
	Attack    int    `json:"attack"`
	Fainted   bool   `json:"fainted"`
	Defending bool   `json:"defending"`
}

// NewUnit creates a unit at full health. Max health is fixed at creation.
func NewUnit(name, owner string, health, attack int) Unit {
	return Unit{Name: name, Owner: owner, Health: health, MaxHealth: health, Attack: attack}
}

// Outcome describes the effect of one resolved move.
type Outcome struct {
	Move          string `json:"move"`
	Caster        string `json:"caster"`
	Target        string `json:"target"`
	Damage        int    `json:"damage"`
	Heal          int    `json:"heal"`
	Missed        bool   `json:"missed"`
	Crit          bool   `json:"crit"`
	Blocked       bool   `json:"blocked"`
	TargetFainted bool   `json:"target_fainted"`
}

// ApplyMove resolves mv cast by caster against the opposing target. It is a
// pure function of (move, caster, target, src): all mutation is confined to
// the two units passed in.
//
// The universal miss roll is evaluated first for every kind; heavy attacks
// roll their own additional miss chance on top. The target's defend stance
// is consumed by this enemy action whatever its outcome.
func ApplyMove(src Source, mv Move, caster, target *Unit) Outcome {
	out := Outcome{Move: mv.ID, Caster: caster.Name, Target: target.Name}
	defer func() {
		// Defend absorbs (or would have absorbed) exactly one enemy action.
		target.Defending = false
	}()

	if src.Chance(BaseMissChance) {
		out.Missed = true
		return out
	}

	switch mv.Kind {
	case NormalAttack, HeavyAttack:
		if mv.ExtraMissChance > 0 && src.Chance(mv.ExtraMissChance) {
			out.Missed = true
			return out
		}
		dmg := int(float64(caster.Attack) * src.Uniform(mv.MinMultiplier, mv.MaxMultiplier))
		if mv.CritChance > 0 && src.Chance(mv.CritChance) {
			dmg = int(float64(dmg) * mv.CritMultiplier)
			out.Crit = true
		}
		if target.Defending {
			dmg = int(math.Floor(float64(dmg) * 0.5))
			out.Blocked = true
		}
		target.Health -= dmg
		out.Damage = dmg
		if target.Health <= 0 {
			target.Health = 0
			target.Fainted = true
			out.TargetFainted = true
		}
	case Defend:
		caster.Defending = true
	case Heal:
		amount := int(math.Floor(float64(caster.MaxHealth) * HealFraction))
		before := caster.Health
		caster.Health += amount
		if caster.Health > caster.MaxHealth {
			caster.Health = caster.MaxHealth
		}
		out.Heal = caster.Health - before
	}
	return out
}
