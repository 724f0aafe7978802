package storage

import (
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetProfile(participantID string) (*PlayerProfile, error) {
	var p PlayerProfile
	if err := r.db.Where("participant_id = ?", participantID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &PlayerProfile{ParticipantID: participantID}, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) UpsertProfile(participantID, displayName string) error {
	var p PlayerProfile
	if err := r.db.Where("participant_id = ?", participantID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			p = PlayerProfile{ParticipantID: participantID}
		} else {
			return err
		}
	}
	p.DisplayName = displayName
	return r.db.Save(&p).Error
}

func (r *sqliteRepository) SaveProfile(p *PlayerProfile) error {
	return r.db.Save(p).Error
}

func (r *sqliteRepository) ListUnits(ownerID string) ([]UnitInstance, error) {
	var units []UnitInstance
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *sqliteRepository) GetUnit(ownerID, instanceUUID string) (*UnitInstance, error) {
	var u UnitInstance
	err := r.db.Where("owner_id = ? AND instance_uuid = ?", ownerID, instanceUUID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) CreateUnit(u *UnitInstance) error {
	return r.db.Create(u).Error
}

func (r *sqliteRepository) SaveBattleRecord(rec *BattleRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) UpdateStatsOnMatchEnd(sideA, sideB, winnerID string, draw bool) error {
	// Helper to load-or-init and add deltas.
	bump := func(participantID string, wins, losses, draws int) error {
		var p PlayerProfile
		if err := r.db.Where("participant_id = ?", participantID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				p = PlayerProfile{ParticipantID: participantID}
			} else {
				return err
			}
		}
		p.Wins += wins
		p.Losses += losses
		p.Draws += draws
		return r.db.Save(&p).Error
	}

	switch {
	case draw:
		if err := bump(sideA, 0, 0, 1); err != nil {
			return err
		}
		return bump(sideB, 0, 0, 1)
	case winnerID == sideA:
		if err := bump(sideA, 1, 0, 0); err != nil {
			return err
		}
		return bump(sideB, 0, 1, 0)
	case winnerID == sideB:
		if err := bump(sideB, 1, 0, 0); err != nil {
			return err
		}
		return bump(sideA, 0, 1, 0)
	default:
		// Abandoned or unknown winner: counters stay untouched.
		return nil
	}
}
