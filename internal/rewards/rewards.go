// Package rewards grants unit instances to participants: the win-streak
// reward, the weekly bonus and the starter set handed out at registration.
package rewards

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/CharGoon26/dwdex-battles/internal/roster"
	"github.com/CharGoon26/dwdex-battles/internal/storage"
)

var (
	ErrNoRewardAvailable = errors.New("no reward available yet")
	ErrEmptyRewardPool   = errors.New("no droppable unit is configured")
	ErrBonusNotToday     = errors.New("the weekly bonus cannot be claimed today")
	ErrBonusAlreadyTaken = errors.New("the weekly bonus was already claimed")
)

type Service struct {
	repo                  storage.Repository
	catalog               *roster.Catalog
	winThreshold          int
	rarityPercentile      float64
	maxAttackBonusPercent int
	maxHealthBonusPercent int
	bonusWeekday          time.Weekday
	starterSetSize        int

	// redeemGroup collapses concurrent redeem calls for the same
	// participant so a double click cannot mint two units.
	redeemGroup singleflight.Group

	now func() time.Time
}

type Options struct {
	WinThreshold          int
	RarityPercentile      float64
	MaxAttackBonusPercent int
	MaxHealthBonusPercent int
	BonusWeekday          time.Weekday
	StarterSetSize        int
}

func NewService(repo storage.Repository, catalog *roster.Catalog, opts Options) *Service {
	return &Service{
		repo:                  repo,
		catalog:               catalog,
		winThreshold:          opts.WinThreshold,
		rarityPercentile:      opts.RarityPercentile,
		maxAttackBonusPercent: opts.MaxAttackBonusPercent,
		maxHealthBonusPercent: opts.MaxHealthBonusPercent,
		bonusWeekday:          opts.BonusWeekday,
		starterSetSize:        opts.StarterSetSize,
		now:                   time.Now,
	}
}

// Available reports how many unclaimed win-streak rewards the profile holds.
func (s *Service) Available(p *storage.PlayerProfile) int {
	if s.winThreshold <= 0 {
		return 0
	}
	earned := p.Wins / s.winThreshold
	if earned <= p.RewardsClaimed {
		return 0
	}
	return earned - p.RewardsClaimed
}

// Redeem mints one unit from the common pool for the participant, consuming
// one earned reward. Concurrent calls for the same participant collapse into
// a single grant.
func (s *Service) Redeem(participantID string) (*storage.UnitInstance, error) {
	v, err, _ := s.redeemGroup.Do(participantID, func() (interface{}, error) {
		profile, err := s.repo.GetProfile(participantID)
		if err != nil {
			return nil, err
		}
		if s.Available(profile) == 0 {
			return nil, ErrNoRewardAvailable
		}
		// Consume the reward before minting so a failed profile save can
		// never leave a granted unit unaccounted for.
		profile.RewardsClaimed++
		if err := s.repo.SaveProfile(profile); err != nil {
			return nil, err
		}
		unit, err := s.mint(participantID, true)
		if err != nil {
			// The unit was never created; hand the reward back.
			profile.RewardsClaimed--
			if saveErr := s.repo.SaveProfile(profile); saveErr != nil {
				return nil, saveErr
			}
			return nil, err
		}
		return unit, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*storage.UnitInstance), nil
}

// ClaimWeeklyBonus mints one pool unit, at most once per bonus day.
func (s *Service) ClaimWeeklyBonus(participantID string) (*storage.UnitInstance, error) {
	today := s.now()
	if today.Weekday() != s.bonusWeekday {
		return nil, ErrBonusNotToday
	}
	profile, err := s.repo.GetProfile(participantID)
	if err != nil {
		return nil, err
	}
	y, m, d := today.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	if !profile.LastBonusClaim.Before(dayStart) {
		return nil, ErrBonusAlreadyTaken
	}
	unit, err := s.mint(participantID, false)
	if err != nil {
		return nil, err
	}
	profile.LastBonusClaim = today
	if err := s.repo.SaveProfile(profile); err != nil {
		return nil, err
	}
	return unit, nil
}

// GrantStarterSet mints the initial units for a freshly registered
// participant. It does nothing when the participant already owns units.
func (s *Service) GrantStarterSet(participantID string) ([]storage.UnitInstance, error) {
	owned, err := s.repo.ListUnits(participantID)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		return nil, nil
	}
	granted := make([]storage.UnitInstance, 0, s.starterSetSize)
	for i := 0; i < s.starterSetSize; i++ {
		unit, err := s.mint(participantID, false)
		if err != nil {
			return nil, err
		}
		granted = append(granted, *unit)
	}
	return granted, nil
}

// mint picks a template from the common pool, rolls the stat bonuses and
// persists the new instance.
func (s *Service) mint(participantID string, fromReward bool) (*storage.UnitInstance, error) {
	pool := s.pool()
	if len(pool) == 0 {
		return nil, ErrEmptyRewardPool
	}
	tpl := pool[rand.Intn(len(pool))]
	unit := &storage.UnitInstance{
		InstanceUUID: uuid.NewString(),
		OwnerID:      participantID,
		TemplateName: tpl.Name,
		Health:       applyBonus(tpl.Health, s.maxHealthBonusPercent),
		Attack:       applyBonus(tpl.Attack, s.maxAttackBonusPercent),
		FromReward:   fromReward,
	}
	if unit.Health < 1 {
		unit.Health = 1
	}
	if unit.Attack < 0 {
		unit.Attack = 0
	}
	if err := s.repo.CreateUnit(unit); err != nil {
		return nil, fmt.Errorf("persist granted unit: %w", err)
	}
	return unit, nil
}

// pool returns the rarest share of the droppable templates: rarities are
// sorted ascending (lower rarity = rarer) and the value at the percentile
// index becomes the cutoff, keeping every template at or below it.
func (s *Service) pool() []roster.Template {
	droppable := s.catalog.Droppable()
	if len(droppable) == 0 {
		return nil
	}
	sort.Slice(droppable, func(i, j int) bool { return droppable[i].Rarity < droppable[j].Rarity })
	idx := int(float64(len(droppable)) * s.rarityPercentile)
	if idx >= len(droppable) {
		idx = len(droppable) - 1
	}
	cutoff := droppable[idx].Rarity
	out := make([]roster.Template, 0, idx+1)
	for _, tpl := range droppable {
		if tpl.Rarity <= cutoff {
			out = append(out, tpl)
		}
	}
	return out
}

// applyBonus shifts base by a uniform roll in [-maxPercent, +maxPercent].
func applyBonus(base, maxPercent int) int {
	if maxPercent <= 0 {
		return base
	}
	delta := rand.Intn(2*maxPercent+1) - maxPercent
	return base + base*delta/100
}
