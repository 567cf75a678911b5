package store

import (
	"context"
	"testing"

	"skate-challenge-service/models"
	"skate-challenge-service/rules"
)

func TestSeedDemoData(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	if err := SeedDemoData(ctx, s, clock.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	users, _ := s.ListUsers(ctx)
	if len(users) != 5 {
		t.Fatalf("expected 5 users, got %d", len(users))
	}
	challenges, _ := s.ListChallenges(ctx, ChallengeFilter{})
	if len(challenges) != 4 {
		t.Fatalf("expected 4 challenges, got %d", len(challenges))
	}

	active := challenges[0]
	if active.Status != models.StatusActive || active.CreatorLetters != "SK" || *active.CurrentTurn != "user2" {
		t.Fatalf("unexpected seeded active challenge %+v", active)
	}
	for _, c := range challenges {
		if !rules.ValidLetters(c.CreatorLetters) || !rules.ValidLetters(c.OpponentLetters) {
			t.Fatalf("seeded invalid letters on %s", c.ID)
		}
		if c.TrickSlug != rules.TrickSlug(c.Trick) {
			t.Fatalf("seeded slug %q does not match trick %q", c.TrickSlug, c.Trick)
		}
	}

	if err := SeedDemoData(ctx, s, clock.Now()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	challenges, _ = s.ListChallenges(ctx, ChallengeFilter{})
	if len(challenges) != 4 {
		t.Fatalf("expected reseed to be skipped, got %d challenges", len(challenges))
	}
}
