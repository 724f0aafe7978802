package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence collaborator contract: player profiles,
// win/loss counters, inventories and finished-battle records. The combat
// engine itself never touches it.
type Repository interface {
	// GetProfile returns the stored profile, or a zero-stats profile when
	// the participant has never been seen.
	GetProfile(participantID string) (*PlayerProfile, error)
	UpsertProfile(participantID, displayName string) error
	SaveProfile(p *PlayerProfile) error

	ListUnits(ownerID string) ([]UnitInstance, error)
	GetUnit(ownerID, instanceUUID string) (*UnitInstance, error)
	CreateUnit(u *UnitInstance) error

	// SaveBattleRecord persists the finished match.
	SaveBattleRecord(rec *BattleRecord) error
	// UpdateStatsOnMatchEnd applies win/loss/draw counters exactly once
	// per finished match. Abandoned matches pass empty winnerID and
	// draw=false, counting for neither side.
	UpdateStatsOnMatchEnd(sideA, sideB, winnerID string, draw bool) error
}
