package rules

import (
	"fmt"
	"strings"
	"time"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/models"
)

// DefaultTurnWindow is how long the turn holder has to record an attempt.
const DefaultTurnWindow = 24 * time.Hour

// Engine evaluates challenge actions against a clock.
type Engine struct {
	now        func() time.Time
	turnWindow time.Duration
}

// NewEngine returns an engine. A nil clock uses time.Now; a non-positive
// window uses DefaultTurnWindow.
func NewEngine(now func() time.Time, turnWindow time.Duration) *Engine {
	if now == nil {
		now = time.Now
	}
	if turnWindow <= 0 {
		turnWindow = DefaultTurnWindow
	}
	return &Engine{now: now, turnWindow: turnWindow}
}

// TurnWindow returns the configured turn window.
func (e *Engine) TurnWindow() time.Duration {
	return e.turnWindow
}

// Outcome is the result of an action that may advance letters.
type Outcome struct {
	Patch        models.ChallengePatch
	LetterEarned string
	Completed    bool
	LoserID      string
}

// Join seats userID as the opponent and hands them the first turn.
func (e *Engine) Join(c models.Challenge, userID string) (models.ChallengePatch, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.ChallengePatch{}, apperrors.New(apperrors.CodeValidation, "userId is required")
	}
	if c.Status != models.StatusOpen {
		return models.ChallengePatch{}, apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("challenge is %s, not open", c.Status))
	}
	if userID == c.CreatorID {
		return models.ChallengePatch{}, apperrors.New(apperrors.CodeSelfJoin, "creator cannot join their own challenge")
	}

	return models.ChallengePatch{
		OpponentID:  models.Some(models.StringPtr(userID)),
		Status:      models.Some(models.StatusActive),
		CurrentTurn: models.Some(models.StringPtr(userID)),
		ExpiresAt:   models.Some(models.TimePtr(e.deadline())),
	}, nil
}

// RecordAttempt applies the outcome of the turn holder's attempt. A miss
// earns the acting player the next letter; spelling SKATE completes the
// challenge with the acting player as loser.
func (e *Engine) RecordAttempt(c models.Challenge, userID string, landed bool) (Outcome, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Outcome{}, apperrors.New(apperrors.CodeValidation, "userId is required")
	}
	if c.Status != models.StatusActive {
		return Outcome{}, apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("challenge is %s, not active", c.Status))
	}
	if e.IsExpired(c) {
		return Outcome{}, apperrors.New(apperrors.CodeInvalidState, "turn window has elapsed")
	}
	if c.CurrentTurn == nil || *c.CurrentTurn != userID {
		return Outcome{}, apperrors.New(apperrors.CodeNotYourTurn, fmt.Sprintf("it is not %s's turn", userID))
	}

	next := c.OtherParticipant(userID)
	if landed {
		return Outcome{Patch: e.passTurn(next)}, nil
	}
	return e.earnLetter(c, userID, next)
}

// AssignLetter is the administrative override: it gives userID the next
// letter regardless of whose turn it is. Turn order is left untouched unless
// the letter completes the challenge.
func (e *Engine) AssignLetter(c models.Challenge, userID string) (Outcome, error) {
	userID = strings.TrimSpace(userID)
	if c.Status != models.StatusActive {
		return Outcome{}, apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("challenge is %s, not active", c.Status))
	}
	if !c.IsParticipant(userID) {
		return Outcome{}, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("%q is not a participant", userID))
	}

	return e.earnLetter(c, userID, "")
}

// IsExpired reports whether an active challenge's turn deadline has passed.
func (e *Engine) IsExpired(c models.Challenge) bool {
	return c.Status == models.StatusActive && c.ExpiresAt != nil && e.now().After(*c.ExpiresAt)
}

// Expire returns the forfeit patch for an overdue active challenge. ok is
// false when the challenge is not due.
func (e *Engine) Expire(c models.Challenge) (patch models.ChallengePatch, ok bool) {
	if !e.IsExpired(c) {
		return models.ChallengePatch{}, false
	}
	return forfeit(c), true
}

// ForceExpire is the administrative override that ends an active challenge
// immediately, counting it as a forfeit by the turn holder.
func (e *Engine) ForceExpire(c models.Challenge) (models.ChallengePatch, error) {
	if !TransitionAllowed(c.Status, models.StatusExpired) {
		return models.ChallengePatch{}, apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("challenge is %s, not active", c.Status))
	}
	return forfeit(c), nil
}

func (e *Engine) earnLetter(c models.Challenge, userID, next string) (Outcome, error) {
	letters, err := NextLetters(c.LettersOf(userID))
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{LetterEarned: letters[len(letters)-1:]}
	if next != "" {
		out.Patch = e.passTurn(next)
	}
	if userID == c.CreatorID {
		out.Patch.CreatorLetters = models.Some(letters)
	} else {
		out.Patch.OpponentLetters = models.Some(letters)
	}

	if Spelled(letters) {
		out.Completed = true
		out.LoserID = userID
		out.Patch.Status = models.Some(models.StatusCompleted)
		out.Patch.CurrentTurn = models.Some[*string](nil)
		out.Patch.ExpiresAt = models.Some[*time.Time](nil)
		out.Patch.LoserID = models.Some(models.StringPtr(userID))
	}
	return out, nil
}

func (e *Engine) passTurn(next string) models.ChallengePatch {
	return models.ChallengePatch{
		CurrentTurn: models.Some(models.StringPtr(next)),
		ExpiresAt:   models.Some(models.TimePtr(e.deadline())),
	}
}

func (e *Engine) deadline() time.Time {
	return e.now().Add(e.turnWindow)
}

func forfeit(c models.Challenge) models.ChallengePatch {
	p := models.ChallengePatch{
		Status:      models.Some(models.StatusExpired),
		CurrentTurn: models.Some[*string](nil),
		ExpiresAt:   models.Some[*time.Time](nil),
	}
	if c.CurrentTurn != nil {
		p.LoserID = models.Some(models.StringPtr(*c.CurrentTurn))
	}
	return p
}
