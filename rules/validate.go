package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/models"
)

const (
	MinDifficulty  = 1
	MaxDifficulty  = 5
	MaxTrickLength = 120
)

// NormalizeCreate trims and validates a new challenge. Difficulty is clamped
// to 1-5; a zero buy-in is free entry.
func NormalizeCreate(in models.ChallengeInput) (models.ChallengeInput, error) {
	in.CreatorID = strings.TrimSpace(in.CreatorID)
	in.Trick = strings.TrimSpace(in.Trick)

	if in.CreatorID == "" {
		return in, apperrors.New(apperrors.CodeValidation, "creatorId is required")
	}
	if in.Trick == "" {
		return in, apperrors.New(apperrors.CodeValidation, "trick is required")
	}
	if utf8.RuneCountInString(in.Trick) > MaxTrickLength {
		return in, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("trick must be at most %d characters", MaxTrickLength))
	}
	if in.BuyIn < 0 {
		return in, apperrors.New(apperrors.CodeValidation, "buyIn must not be negative")
	}

	in.Difficulty = ClampDifficulty(in.Difficulty)
	in.TrickSlug = TrickSlug(in.Trick)
	in.VideoURL = trimOptional(in.VideoURL)
	in.VideoThumbnail = trimOptional(in.VideoThumbnail)
	return in, nil
}

// ClampDifficulty bounds d to the 1-5 star range.
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// TrickSlug returns the URL-safe key used to match tricks.
func TrickSlug(trick string) string {
	return slug.Make(trick)
}

// ValidatePatch checks a direct edit of a challenge. Fields governed by the
// lifecycle rules are rejected; they change only through join, attempts,
// expiry or the admin override. Terminal challenges accept no edits and the
// stake is fixed once an opponent has joined.
func ValidatePatch(c models.Challenge, p models.ChallengePatch) (models.ChallengePatch, error) {
	if governed := p.RuleGovernedFields(); len(governed) > 0 {
		return p, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("fields %s are governed by challenge rules", strings.Join(governed, ", ")))
	}
	if p.IsEmpty() {
		return p, apperrors.New(apperrors.CodeValidation, "no fields to update")
	}
	if c.Status.Terminal() {
		return p, apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("challenge is %s", c.Status))
	}
	if p.Difficulty.Set {
		if p.Difficulty.Value < MinDifficulty || p.Difficulty.Value > MaxDifficulty {
			return p, apperrors.New(apperrors.CodeValidation, "difficulty must be between 1 and 5")
		}
	}
	if p.BuyIn.Set {
		if p.BuyIn.Value < 0 {
			return p, apperrors.New(apperrors.CodeValidation, "buyIn must not be negative")
		}
		if c.Status != models.StatusOpen {
			return p, apperrors.New(apperrors.CodeInvalidState, "buyIn is fixed once the challenge is active")
		}
	}
	if p.VideoURL.Set {
		p.VideoURL.Value = trimOptional(p.VideoURL.Value)
	}
	if p.VideoThumbnail.Set {
		p.VideoThumbnail.Value = trimOptional(p.VideoThumbnail.Value)
	}
	return p, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
