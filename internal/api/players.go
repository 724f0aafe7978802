package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CharGoon26/dwdex-battles/internal/constants"
	"github.com/CharGoon26/dwdex-battles/internal/logging"
	"github.com/CharGoon26/dwdex-battles/internal/rewards"
)

type RegisterPayload struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}

// Register provisions a participant coming from the chat gateway and
// returns the bearer token for subsequent calls. Registration is
// idempotent: existing participants get a fresh token and keep their
// inventory.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.ParticipantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.repo.UpsertProfile(req.ParticipantID, req.DisplayName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	granted, err := h.rewards.GrantStarterSet(req.ParticipantID)
	if err != nil {
		logging.Error("failed to grant starter set", err, logging.Fields{constants.LogFieldParticipant: req.ParticipantID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUnit})
		return
	}
	token, err := issueSessionToken(req.ParticipantID, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"starter_units": granted,
	})
}

// GetPlayerStats returns the win/loss record, pending rewards and cooldown
// for the authenticated participant.
func (h *Handler) GetPlayerStats(c *gin.Context) {
	participantID, _ := identity(c)
	profile, err := h.repo.GetProfile(participantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"participant_id":     profile.ParticipantID,
		"display_name":       profile.DisplayName,
		"wins":               profile.Wins,
		"losses":             profile.Losses,
		"draws":              profile.Draws,
		"rewards_available":  h.rewards.Available(profile),
		"cooldown_remaining": h.cooldowns.Remaining(participantID).Seconds(),
	})
}

// GetInventory lists the participant's unit instances.
func (h *Handler) GetInventory(c *gin.Context) {
	participantID, _ := identity(c)
	units, err := h.repo.ListUnits(participantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

// RedeemReward converts one earned win-streak reward into a new unit.
func (h *Handler) RedeemReward(c *gin.Context) {
	participantID, _ := identity(c)
	unit, err := h.rewards.Redeem(participantID)
	switch err {
	case nil:
	case rewards.ErrNoRewardAvailable:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoRewardAvailable})
		return
	default:
		logging.Error("reward redemption failed", err, logging.Fields{constants.LogFieldParticipant: participantID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUnit})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// ClaimBonus hands out the weekly bonus unit.
func (h *Handler) ClaimBonus(c *gin.Context) {
	participantID, _ := identity(c)
	unit, err := h.rewards.ClaimWeeklyBonus(participantID)
	switch err {
	case nil:
	case rewards.ErrBonusNotToday:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBonusNotToday})
		return
	case rewards.ErrBonusAlreadyTaken:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBonusAlreadyTaken})
		return
	default:
		logging.Error("bonus claim failed", err, logging.Fields{constants.LogFieldParticipant: participantID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUnit})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}
