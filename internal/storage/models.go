package storage

import (
	"time"

	"gorm.io/gorm"
)

// PlayerProfile stores unique participant identity and aggregate battle
// stats. Reward eligibility is derived from Wins and RewardsClaimed.
type PlayerProfile struct {
	gorm.Model
	ParticipantID  string `gorm:"uniqueIndex"`
	DisplayName    string
	Wins           int
	Losses         int
	Draws          int
	RewardsClaimed int
	LastBonusClaim time.Time
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// UnitInstance is one collectible unit in a participant's inventory. The
// stats are fixed at creation (template stats plus rolled bonuses).
type UnitInstance struct {
	gorm.Model
	InstanceUUID string `gorm:"uniqueIndex"`
	OwnerID      string `gorm:"index"`
	TemplateName string
	Health       int
	Attack       int
	FromReward   bool
}

func (UnitInstance) TableName() string { return "unit_instances" }

// BattleRecord is the persisted outcome of one finished match, including
// the full round history as JSON for replay.
type BattleRecord struct {
	gorm.Model
	ChannelID  string `gorm:"index"`
	SideA      string
	SideB      string
	Winner     string
	Turns      int
	RoundsJSON []byte `gorm:"type:blob"`
	FinishedAt time.Time
}

func (BattleRecord) TableName() string { return "battle_records" }
