package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/metrics"
	"skate-challenge-service/models"
	"skate-challenge-service/rules"
	"skate-challenge-service/store"
)

// ChallengeService applies the challenge rules to stored records. Every
// mutation of a challenge runs inside Store.WithChallenge, so rule checks
// always see the latest record.
type ChallengeService struct {
	Store  store.Store
	Engine *rules.Engine
}

func NewChallengeService(s store.Store, engine *rules.Engine) *ChallengeService {
	return &ChallengeService{Store: s, Engine: engine}
}

// Create validates and stores a new open challenge.
func (s *ChallengeService) Create(ctx context.Context, in models.ChallengeInput) (models.Challenge, error) {
	in, err := rules.NormalizeCreate(in)
	if err != nil {
		return models.Challenge{}, reject(err)
	}

	c, err := s.Store.CreateChallenge(ctx, in)
	if err != nil {
		return models.Challenge{}, err
	}
	metrics.ChallengesCreated.Inc()
	log.Printf("[CHALLENGE] 🛹 Created %s (%s, difficulty %d) by %s", c.ID, c.Trick, c.Difficulty, c.CreatorID)
	return c, nil
}

// Get returns a challenge, forfeiting it first if its turn window has passed.
func (s *ChallengeService) Get(ctx context.Context, id string) (models.Challenge, error) {
	c, err := s.Store.GetChallenge(ctx, id)
	if err != nil {
		return models.Challenge{}, err
	}
	if s.Engine.IsExpired(c) {
		return s.ExpireIfDue(ctx, id)
	}
	return c, nil
}

// List returns matching challenges in creation order. Overdue challenges are
// forfeited before they are returned.
func (s *ChallengeService) List(ctx context.Context, filter store.ChallengeFilter) ([]models.Challenge, error) {
	challenges, err := s.Store.ListChallenges(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := challenges[:0]
	for _, c := range challenges {
		if s.Engine.IsExpired(c) {
			if c, err = s.ExpireIfDue(ctx, c.ID); err != nil {
				return nil, err
			}
			if !filter.Match(c) {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// Join seats userID as the opponent of an open challenge.
func (s *ChallengeService) Join(ctx context.Context, id, userID string) (models.Challenge, error) {
	var updated models.Challenge
	err := s.Store.WithChallenge(ctx, id, func(tx store.Tx, current models.Challenge) error {
		patch, err := s.Engine.Join(current, userID)
		if err != nil {
			return reject(err)
		}
		updated, err = tx.UpdateChallenge(ctx, id, patch)
		return err
	})
	if err != nil {
		return models.Challenge{}, err
	}

	metrics.ChallengesJoined.Inc()
	log.Printf("[CHALLENGE] 🤝 %s joined %s, their turn until %s", userID, id, updated.ExpiresAt.Format("2006-01-02 15:04 MST"))
	return updated, nil
}

// RecordAttempt stores the turn holder's attempt and advances the challenge
// in the same locked operation.
func (s *ChallengeService) RecordAttempt(ctx context.Context, in models.AttemptInput) (models.TrickAttempt, models.Challenge, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.VideoURL != nil {
		if v := strings.TrimSpace(*in.VideoURL); v != "" {
			in.VideoURL = &v
		} else {
			in.VideoURL = nil
		}
	}

	// A lapsed turn is settled as a forfeit before the attempt is judged.
	if _, err := s.ExpireIfDue(ctx, in.ChallengeID); err != nil {
		return models.TrickAttempt{}, models.Challenge{}, err
	}

	var (
		attempt models.TrickAttempt
		updated models.Challenge
		outcome rules.Outcome
	)
	err := s.Store.WithChallenge(ctx, in.ChallengeID, func(tx store.Tx, current models.Challenge) error {
		var err error
		outcome, err = s.Engine.RecordAttempt(current, in.UserID, in.Landed)
		if err != nil {
			return reject(err)
		}
		if attempt, err = tx.CreateAttempt(ctx, in); err != nil {
			return err
		}
		updated, err = tx.UpdateChallenge(ctx, in.ChallengeID, outcome.Patch)
		return err
	})
	if err != nil {
		return models.TrickAttempt{}, models.Challenge{}, err
	}

	metrics.TrickAttempts.WithLabelValues(boolLabel(in.Landed)).Inc()
	if in.Landed {
		log.Printf("[CHALLENGE] ✅ %s landed %s on %s", in.UserID, updated.Trick, updated.ID)
	} else {
		s.recordLetter(updated, in.UserID, outcome)
	}
	return attempt, updated, nil
}

// Attempts lists a challenge's attempts in the order they were made.
func (s *ChallengeService) Attempts(ctx context.Context, id string) ([]models.TrickAttempt, error) {
	if _, err := s.Store.GetChallenge(ctx, id); err != nil {
		return nil, err
	}
	return s.Store.ListAttempts(ctx, id)
}

// Patch applies a direct edit of the challenge's descriptive fields.
func (s *ChallengeService) Patch(ctx context.Context, id string, patch models.ChallengePatch) (models.Challenge, error) {
	var updated models.Challenge
	err := s.Store.WithChallenge(ctx, id, func(tx store.Tx, current models.Challenge) error {
		p, err := rules.ValidatePatch(current, patch)
		if err != nil {
			return reject(err)
		}
		updated, err = tx.UpdateChallenge(ctx, id, p)
		return err
	})
	if err != nil {
		return models.Challenge{}, err
	}
	log.Printf("[CHALLENGE] ✏️ Updated %s", id)
	return updated, nil
}

// ExpireIfDue forfeits the challenge when its turn window has passed and
// returns the current record either way.
func (s *ChallengeService) ExpireIfDue(ctx context.Context, id string) (models.Challenge, error) {
	var (
		result  models.Challenge
		expired bool
	)
	err := s.Store.WithChallenge(ctx, id, func(tx store.Tx, current models.Challenge) error {
		patch, ok := s.Engine.Expire(current)
		if !ok {
			result = current
			return nil
		}
		var err error
		result, err = tx.UpdateChallenge(ctx, id, patch)
		expired = err == nil
		return err
	})
	if err != nil {
		return models.Challenge{}, err
	}

	if expired {
		metrics.ChallengesExpired.Inc()
		log.Printf("[EXPIRY] ⌛ Challenge %s forfeited by %s", id, deref(result.LoserID))
	}
	return result, nil
}

// ExpireDue forfeits every active challenge whose turn window has passed and
// returns how many were expired.
func (s *ChallengeService) ExpireDue(ctx context.Context) (int, error) {
	active, err := s.Store.ListChallenges(ctx, store.ChallengeFilter{Status: models.StatusActive})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, c := range active {
		if !s.Engine.IsExpired(c) {
			continue
		}
		updated, err := s.ExpireIfDue(ctx, c.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return count, err
		}
		if updated.Status == models.StatusExpired {
			count++
		}
	}
	return count, nil
}

// AssignLetter is the administrative override that gives userID their next
// letter outside turn order.
func (s *ChallengeService) AssignLetter(ctx context.Context, id, userID string) (models.Challenge, error) {
	var (
		updated models.Challenge
		outcome rules.Outcome
	)
	err := s.Store.WithChallenge(ctx, id, func(tx store.Tx, current models.Challenge) error {
		var err error
		outcome, err = s.Engine.AssignLetter(current, userID)
		if err != nil {
			return reject(err)
		}
		updated, err = tx.UpdateChallenge(ctx, id, outcome.Patch)
		return err
	})
	if err != nil {
		return models.Challenge{}, err
	}

	log.Printf("[ADMIN] 🔧 Assigned letter to %s on %s", userID, id)
	s.recordLetter(updated, userID, outcome)
	return updated, nil
}

// ForceExpire is the administrative override that ends an active challenge
// as a forfeit by the turn holder.
func (s *ChallengeService) ForceExpire(ctx context.Context, id string) (models.Challenge, error) {
	var updated models.Challenge
	err := s.Store.WithChallenge(ctx, id, func(tx store.Tx, current models.Challenge) error {
		patch, err := s.Engine.ForceExpire(current)
		if err != nil {
			return reject(err)
		}
		updated, err = tx.UpdateChallenge(ctx, id, patch)
		return err
	})
	if err != nil {
		return models.Challenge{}, err
	}

	metrics.ChallengesExpired.Inc()
	log.Printf("[ADMIN] ⌛ Force-expired %s, loser %s", id, deref(updated.LoserID))
	return updated, nil
}

func (s *ChallengeService) recordLetter(c models.Challenge, userID string, outcome rules.Outcome) {
	metrics.LettersEarned.Inc()
	log.Printf("[CHALLENGE] 🔤 %s earned %q on %s (%s)", userID, outcome.LetterEarned, c.ID, c.LettersOf(userID))
	if outcome.Completed {
		metrics.ChallengesCompleted.Inc()
		log.Printf("[CHALLENGE] 🏁 %s completed, %s spelled SKATE", c.ID, outcome.LoserID)
	}
}

// reject counts a rule rejection and passes the error through.
func reject(err error) error {
	metrics.RuleRejections.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
	return err
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func deref(s *string) string {
	if s == nil {
		return "nobody"
	}
	return *s
}
