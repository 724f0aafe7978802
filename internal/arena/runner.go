package arena

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/CharGoon26/dwdex-battles/internal/battle"
	"github.com/CharGoon26/dwdex-battles/internal/constants"
	"github.com/CharGoon26/dwdex-battles/internal/logging"
)

var (
	ErrMoveAlreadySet = errors.New("a move was already submitted for this round")
	ErrMatchFinished  = errors.New("the match is already finished")
)

// Reporter receives match progress. Implementations must not block.
type Reporter interface {
	RoundResolved(channelID string, rec battle.RoundRecord)
	MatchFinished(channelID string, res Result)
}

// Result summarizes a finished match.
type Result struct {
	ChannelID string               `json:"channel_id"`
	SideA     Participant          `json:"side_a"`
	SideB     Participant          `json:"side_b"`
	Winner    battle.Winner        `json:"-"`
	Outcome   string               `json:"outcome"`
	WinnerID  string               `json:"winner_id,omitempty"`
	Turns     int                  `json:"turns"`
	History   []battle.RoundRecord `json:"history"`
}

// Runner drives a single match: it waits for both moves each round, falls
// back to a random legal move on timeout and resolves through the engine.
type Runner struct {
	channelID string
	sideA     Participant
	sideB     Participant

	mu    sync.Mutex
	match *battle.Match

	movesA chan string
	movesB chan string

	actionTimeout time.Duration
	roundPause    time.Duration
	reporter      Reporter
}

func NewRunner(channelID string, sideA, sideB Participant, match *battle.Match, actionTimeout, roundPause time.Duration, reporter Reporter) *Runner {
	return &Runner{
		channelID:     channelID,
		sideA:         sideA,
		sideB:         sideB,
		match:         match,
		movesA:        make(chan string, 1),
		movesB:        make(chan string, 1),
		actionTimeout: actionTimeout,
		roundPause:    roundPause,
		reporter:      reporter,
	}
}

// Submit queues the participant's move for the current round. A side holds
// at most one pending move at a time.
func (r *Runner) Submit(participantID, moveID string) error {
	if _, err := battle.Lookup(moveID); err != nil {
		return err
	}
	var slot chan string
	switch participantID {
	case r.sideA.ID:
		slot = r.movesA
	case r.sideB.ID:
		slot = r.movesB
	default:
		return ErrNotInvited
	}
	r.mu.Lock()
	over := r.match.IsOver()
	r.mu.Unlock()
	if over {
		return ErrMatchFinished
	}
	select {
	case slot <- moveID:
		return nil
	default:
		return ErrMoveAlreadySet
	}
}

// Snapshot returns the current round history and winner state.
func (r *Runner) Snapshot() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result()
}

// result assumes r.mu is held.
func (r *Runner) result() Result {
	history := make([]battle.RoundRecord, len(r.match.History))
	copy(history, r.match.History)
	res := Result{
		ChannelID: r.channelID,
		SideA:     r.sideA,
		SideB:     r.sideB,
		Winner:    r.match.Winner,
		Outcome:   r.match.Winner.String(),
		Turns:     r.match.Turn,
		History:   history,
	}
	switch r.match.Winner {
	case battle.WinnerTeamA:
		res.WinnerID = r.sideA.ID
	case battle.WinnerTeamB:
		res.WinnerID = r.sideB.ID
	}
	return res
}

// Run executes the match to completion. Cancelling the context abandons the
// match. Run must be called exactly once.
func (r *Runner) Run(ctx context.Context) Result {
	for {
		r.mu.Lock()
		over := r.match.IsOver()
		r.mu.Unlock()
		if over {
			break
		}

		moveA, moveB, ok := r.collectMoves(ctx)
		if !ok {
			r.mu.Lock()
			r.match.Abandon()
			res := r.result()
			r.mu.Unlock()
			logging.Info("match abandoned", logging.Fields{constants.LogFieldChannelID: r.channelID})
			r.reporter.MatchFinished(r.channelID, res)
			return res
		}

		r.mu.Lock()
		rec, err := r.match.ExecuteRound(moveA, moveB)
		if err != nil {
			// Engine contract violation: cancel the battle rather than
			// crash the server.
			r.match.Abandon()
			r.mu.Unlock()
			logging.Error("round resolution failed; cancelling battle", err, logging.Fields{constants.LogFieldChannelID: r.channelID})
			break
		}
		over = r.match.IsOver()
		r.mu.Unlock()
		r.reporter.RoundResolved(r.channelID, rec)

		if !over && r.roundPause > 0 {
			select {
			case <-time.After(r.roundPause):
			case <-ctx.Done():
			}
		}
	}

	r.mu.Lock()
	res := r.result()
	r.mu.Unlock()
	logging.Info("match finished", logging.Fields{
		constants.LogFieldChannelID: r.channelID,
		constants.LogFieldWinner:    res.Outcome,
		constants.LogFieldTurn:      res.Turns,
	})
	r.reporter.MatchFinished(r.channelID, res)
	return res
}

// collectMoves blocks until both sides submitted or the shared deadline
// fires. Missing moves are replaced with a random legal one. It returns
// ok=false when the context is cancelled.
func (r *Runner) collectMoves(ctx context.Context) (moveA, moveB string, ok bool) {
	timer := time.NewTimer(r.actionTimeout)
	defer timer.Stop()

	chA, chB := r.movesA, r.movesB
	for chA != nil || chB != nil {
		select {
		case mv := <-chA:
			moveA = mv
			chA = nil
		case mv := <-chB:
			moveB = mv
			chB = nil
		case <-timer.C:
			if moveA == "" {
				moveA = randomMove()
			}
			if moveB == "" {
				moveB = randomMove()
			}
			logging.Info("round timed out; using fallback moves", logging.Fields{constants.LogFieldChannelID: r.channelID})
			return moveA, moveB, true
		case <-ctx.Done():
			return "", "", false
		}
	}
	return moveA, moveB, true
}

func randomMove() string {
	ids := battle.MoveIDs()
	return ids[rand.Intn(len(ids))]
}
