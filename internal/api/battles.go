package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CharGoon26/dwdex-battles/internal/arena"
	"github.com/CharGoon26/dwdex-battles/internal/battle"
	"github.com/CharGoon26/dwdex-battles/internal/constants"
	"github.com/CharGoon26/dwdex-battles/internal/logging"
	"github.com/CharGoon26/dwdex-battles/internal/storage"
)

type ChallengePayload struct {
	OpponentID   string `json:"opponent_id"`
	OpponentName string `json:"opponent_name"`
}

// CreateChallenge opens a challenge in the channel. Both participants must
// be off cooldown and the channel must be free.
func (h *Handler) CreateChallenge(c *gin.Context) {
	participantID, displayName := identity(c)
	var req ChallengePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.OpponentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	channelID := c.Param("channelID")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidChannelID})
		return
	}
	if h.cooldowns.Remaining(participantID) > 0 {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrOnCooldown})
		return
	}
	if h.cooldowns.Remaining(req.OpponentID) > 0 {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrOpponentOnCooldown})
		return
	}

	challenger := arena.Participant{ID: participantID, Name: displayName}
	opponent := arena.Participant{ID: req.OpponentID, Name: req.OpponentName}
	setup, err := arena.NewSetup(channelID, challenger, opponent, h.cfg.SetupTTL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSelfChallenge})
		return
	}
	if err := h.registry.Put(setup); err != nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrChannelBusy})
		return
	}
	logging.Info("challenge created", logging.Fields{
		constants.LogFieldChannelID:   channelID,
		constants.LogFieldParticipant: participantID,
	})
	c.JSON(http.StatusCreated, setup.Snapshot())
}

// CancelChallenge withdraws a challenge that has not started fighting yet.
// Either party may cancel.
func (h *Handler) CancelChallenge(c *gin.Context) {
	participantID, _ := identity(c)
	channelID := c.Param("channelID")
	setup, err := h.registry.Setup(channelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	if participantID != setup.Challenger.ID && participantID != setup.Opponent.ID {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInBattle})
		return
	}
	h.registry.Remove(channelID)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Challenge cancelled"})
}

// AcceptChallenge lets the invited opponent accept.
func (h *Handler) AcceptChallenge(c *gin.Context) {
	participantID, _ := identity(c)
	setup, ok := h.setupFor(c)
	if !ok {
		return
	}
	if err := setup.Accept(participantID); err != nil {
		h.setupError(c, err)
		return
	}
	c.JSON(http.StatusOK, setup.Snapshot())
}

type TeamUnitPayload struct {
	InstanceUUID string `json:"instance_uuid"`
}

// AddTeamUnit puts one inventory unit into the participant's team.
func (h *Handler) AddTeamUnit(c *gin.Context) {
	participantID, _ := identity(c)
	setup, ok := h.setupFor(c)
	if !ok {
		return
	}
	var req TeamUnitPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.InstanceUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	unit, err := h.repo.GetUnit(participantID, req.InstanceUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUnitNotOwned})
		return
	}
	if err := setup.AddUnit(participantID, teamSlot(unit)); err != nil {
		h.setupError(c, err)
		return
	}
	c.JSON(http.StatusOK, setup.Snapshot())
}

// RemoveTeamUnit drops a picked unit from the participant's team.
func (h *Handler) RemoveTeamUnit(c *gin.Context) {
	participantID, _ := identity(c)
	setup, ok := h.setupFor(c)
	if !ok {
		return
	}
	var req TeamUnitPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.InstanceUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := setup.RemoveUnit(participantID, req.InstanceUUID); err != nil {
		h.setupError(c, err)
		return
	}
	c.JSON(http.StatusOK, setup.Snapshot())
}

// FillBestTeam auto-picks the participant's strongest units.
func (h *Handler) FillBestTeam(c *gin.Context) {
	participantID, _ := identity(c)
	setup, ok := h.setupFor(c)
	if !ok {
		return
	}
	units, err := h.repo.ListUnits(participantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	inventory := make([]arena.TeamSlot, 0, len(units))
	for i := range units {
		inventory = append(inventory, teamSlot(&units[i]))
	}
	if err := setup.FillBest(participantID, inventory); err != nil {
		h.setupError(c, err)
		return
	}
	c.JSON(http.StatusOK, setup.Snapshot())
}

// Ready locks the participant's team. When both sides are ready the battle
// starts immediately.
func (h *Handler) Ready(c *gin.Context) {
	participantID, _ := identity(c)
	channelID := c.Param("channelID")
	setup, ok := h.setupFor(c)
	if !ok {
		return
	}
	if err := setup.MarkReady(participantID); err != nil {
		h.setupError(c, err)
		return
	}
	teamA, teamB, err := setup.Complete()
	if err != nil {
		// Waiting for the other side.
		c.JSON(http.StatusOK, setup.Snapshot())
		return
	}

	match, err := battle.NewMatch(teamA, teamB, battle.NewSource(time.Now().UnixNano()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrTeamsNotReady})
		return
	}
	runner := arena.NewRunner(channelID, setup.Challenger, setup.Opponent, match, h.cfg.ActionTimeout, h.cfg.RoundPause, h.hub)
	// Both participants can reach this point when they hit ready at the
	// same time; Promote picks the single runner that actually fights.
	active, started, err := h.registry.Promote(channelID, runner)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrChannelBusy})
		return
	}
	if started {
		logging.Info("battle started", logging.Fields{constants.LogFieldChannelID: channelID})
		go h.runMatch(channelID, active)
	}

	c.JSON(http.StatusOK, active.Snapshot())
}

// runMatch drives the battle to completion and persists the result.
func (h *Handler) runMatch(channelID string, runner *arena.Runner) {
	res := runner.Run(h.ctx)
	h.registry.Remove(channelID)

	h.cooldowns.Set(res.SideA.ID)
	h.cooldowns.Set(res.SideB.ID)

	rounds, err := json.Marshal(res.History)
	if err != nil {
		logging.Error("failed to encode round history", err, logging.Fields{constants.LogFieldChannelID: channelID})
	}
	rec := &storage.BattleRecord{
		ChannelID:  channelID,
		SideA:      res.SideA.ID,
		SideB:      res.SideB.ID,
		Winner:     res.Outcome,
		Turns:      res.Turns,
		RoundsJSON: rounds,
		FinishedAt: time.Now(),
	}
	if err := h.repo.SaveBattleRecord(rec); err != nil {
		logging.Error("failed to save battle record", err, logging.Fields{constants.LogFieldChannelID: channelID})
	}
	draw := res.Winner == battle.WinnerDraw
	if err := h.repo.UpdateStatsOnMatchEnd(res.SideA.ID, res.SideB.ID, res.WinnerID, draw); err != nil {
		logging.Error("failed to update stats", err, logging.Fields{constants.LogFieldChannelID: channelID})
	}
}

type MovePayload struct {
	Move string `json:"move"`
}

// SubmitMove records the participant's move for the current round.
func (h *Handler) SubmitMove(c *gin.Context) {
	participantID, _ := identity(c)
	channelID := c.Param("channelID")
	runner, err := h.registry.Runner(channelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotRunning})
		return
	}
	var req MovePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Move == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	switch err := runner.Submit(participantID, req.Move); err {
	case nil:
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Move registered"})
	case battle.ErrUnknownMove:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
	case arena.ErrNotInvited:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInBattle})
	case arena.ErrMoveAlreadySet:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMoveAlreadySet})
	case arena.ErrMatchFinished:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreMove})
	}
}

// GetBattle returns the channel's current setup or live battle state.
func (h *Handler) GetBattle(c *gin.Context) {
	channelID := c.Param("channelID")
	if setup, err := h.registry.Setup(channelID); err == nil {
		c.JSON(http.StatusOK, gin.H{"phase": "setup", "setup": setup.Snapshot()})
		return
	}
	if runner, err := h.registry.Runner(channelID); err == nil {
		c.JSON(http.StatusOK, gin.H{"phase": "battle", "battle": runner.Snapshot()})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
}

// setupFor fetches the channel's setup or writes the 404 itself.
func (h *Handler) setupFor(c *gin.Context) (*arena.Setup, bool) {
	setup, err := h.registry.Setup(c.Param("channelID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return nil, false
	}
	if setup.Expired(time.Now()) {
		c.JSON(http.StatusGone, gin.H{constants.JSONKeyError: constants.ErrSetupExpired})
		return nil, false
	}
	return setup, true
}

// setupError maps negotiation errors onto HTTP statuses.
func (h *Handler) setupError(c *gin.Context, err error) {
	switch err {
	case arena.ErrNotInvited:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInBattle})
	case arena.ErrNotAccepted:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotAccepted})
	case arena.ErrAlreadyAccepted, arena.ErrAlreadyReady:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	case arena.ErrTeamFull:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTeamFull})
	case arena.ErrDuplicateUnit:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrUnitAlreadyPicked})
	case arena.ErrUnitNotInTeam:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUnitNotOwned})
	case arena.ErrTeamIncomplete:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughUnits})
	case arena.ErrSetupNotComplete:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTeamsNotReady})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
	}
}

func teamSlot(u *storage.UnitInstance) arena.TeamSlot {
	return arena.TeamSlot{
		InstanceUUID: u.InstanceUUID,
		Unit:         battle.NewUnit(u.TemplateName, u.OwnerID, u.Health, u.Attack),
	}
}
