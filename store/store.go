// Package store holds the authoritative challenge, attempt and user records.
// Stores are keyed containers: they enforce structural guarantees only and
// know nothing about the challenge rules.
package store

import (
	"context"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/models"
)

var (
	ErrChallengeNotFound = apperrors.New(apperrors.CodeNotFound, "challenge not found")
	ErrUserNotFound      = apperrors.New(apperrors.CodeNotFound, "user not found")
	// ErrUsernameTaken is returned when a different user id already holds
	// the username; usernames are unique in every store.
	ErrUsernameTaken = apperrors.New(apperrors.CodeConflict, "username already taken")
)

// Tx is the mutation surface available inside WithChallenge.
type Tx interface {
	// UpdateChallenge merges patch onto the record, refreshes updatedAt and
	// returns the new record.
	UpdateChallenge(ctx context.Context, id string, patch models.ChallengePatch) (models.Challenge, error)
	// CreateAttempt assigns an id and timestamp and stores the attempt.
	CreateAttempt(ctx context.Context, in models.AttemptInput) (models.TrickAttempt, error)
}

// ChallengeFilter narrows ListChallenges. Zero fields match everything.
type ChallengeFilter struct {
	UserID    string
	Status    models.ChallengeStatus
	TrickSlug string
}

// IsZero reports whether the filter matches every challenge.
func (f ChallengeFilter) IsZero() bool {
	return f == ChallengeFilter{}
}

// Match reports whether c passes the filter.
func (f ChallengeFilter) Match(c models.Challenge) bool {
	if f.UserID != "" && !c.IsParticipant(f.UserID) {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.TrickSlug != "" && c.TrickSlug != f.TrickSlug {
		return false
	}
	return true
}

// Store is the keyed container for challenges, attempts and users.
type Store interface {
	Tx

	CreateChallenge(ctx context.Context, in models.ChallengeInput) (models.Challenge, error)
	GetChallenge(ctx context.Context, id string) (models.Challenge, error)
	// ListChallenges returns matching challenges in insertion order.
	ListChallenges(ctx context.Context, filter ChallengeFilter) ([]models.Challenge, error)
	// ListAttempts returns a challenge's attempts in creation order.
	ListAttempts(ctx context.Context, challengeID string) ([]models.TrickAttempt, error)

	// WithChallenge runs fn with the current record while holding the
	// challenge's lock, so read-modify-write sequences on one id are
	// serialized. fn must not call WithChallenge for the same id.
	WithChallenge(ctx context.Context, id string, fn func(tx Tx, current models.Challenge) error) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	// EnsureUser stores u unless a user with that id exists. created reports
	// whether u was inserted; an existing user is returned unchanged.
	EnsureUser(ctx context.Context, u models.User) (user models.User, created bool, err error)
}
