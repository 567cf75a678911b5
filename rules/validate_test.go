package rules

import (
	"errors"
	"strings"
	"testing"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/models"
)

func TestNormalizeCreate(t *testing.T) {
	in, err := NormalizeCreate(models.ChallengeInput{
		CreatorID:  " u1 ",
		Trick:      "  Kickflip to Manual ",
		Difficulty: 0,
		BuyIn:      0,
		VideoURL:   models.StringPtr("   "),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if in.CreatorID != "u1" || in.Trick != "Kickflip to Manual" {
		t.Fatalf("expected trimmed input, got %+v", in)
	}
	if in.Difficulty != 1 {
		t.Fatalf("expected difficulty clamped to 1, got %d", in.Difficulty)
	}
	if in.TrickSlug != "kickflip-to-manual" {
		t.Fatalf("unexpected slug %q", in.TrickSlug)
	}
	if in.VideoURL != nil {
		t.Fatal("expected blank video url dropped")
	}
}

func TestNormalizeCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input models.ChallengeInput
	}{
		{name: "missing creator", input: models.ChallengeInput{Trick: "Ollie"}},
		{name: "missing trick", input: models.ChallengeInput{CreatorID: "u1", Trick: "  "}},
		{name: "negative buy-in", input: models.ChallengeInput{CreatorID: "u1", Trick: "Ollie", BuyIn: -1}},
		{name: "long trick", input: models.ChallengeInput{CreatorID: "u1", Trick: strings.Repeat("x", MaxTrickLength+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeCreate(tt.input); !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestClampDifficulty(t *testing.T) {
	cases := map[int]int{-2: 1, 0: 1, 1: 1, 3: 3, 5: 5, 9: 5}
	for in, want := range cases {
		if got := ClampDifficulty(in); got != want {
			t.Fatalf("clamp(%d): expected %d, got %d", in, want, got)
		}
	}
}

func TestValidatePatch(t *testing.T) {
	open := models.Challenge{Status: models.StatusOpen}
	active := models.Challenge{Status: models.StatusActive}
	completed := models.Challenge{Status: models.StatusCompleted}

	tests := []struct {
		name      string
		challenge models.Challenge
		patch     models.ChallengePatch
		err       error
	}{
		{name: "media on active", challenge: active, patch: models.ChallengePatch{VideoURL: models.Some(models.StringPtr("https://cdn/a.mp4"))}},
		{name: "buy-in while open", challenge: open, patch: models.ChallengePatch{BuyIn: models.Some(int64(500))}},
		{name: "letters", challenge: active, patch: models.ChallengePatch{CreatorLetters: models.Some("S")}, err: apperrors.ErrValidation},
		{name: "status", challenge: open, patch: models.ChallengePatch{Status: models.Some(models.StatusCompleted)}, err: apperrors.ErrValidation},
		{name: "empty", challenge: open, patch: models.ChallengePatch{}, err: apperrors.ErrValidation},
		{name: "terminal", challenge: completed, patch: models.ChallengePatch{Difficulty: models.Some(2)}, err: apperrors.ErrInvalidState},
		{name: "difficulty range", challenge: open, patch: models.ChallengePatch{Difficulty: models.Some(6)}, err: apperrors.ErrValidation},
		{name: "buy-in once active", challenge: active, patch: models.ChallengePatch{BuyIn: models.Some(int64(100))}, err: apperrors.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatePatch(tt.challenge, tt.patch)
			if tt.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}
