package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"skate-challenge-service/models"
)

// SeedDemoData inserts the demo users and sample challenges unless users
// already exist.
func SeedDemoData(ctx context.Context, s Store, now time.Time) error {
	existing, err := s.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}
	if len(existing) > 0 {
		log.Println("🌱 Users already exist, skipping demo seed.")
		return nil
	}

	users := []models.User{
		{ID: "user1", Username: "TonyHawk_99"},
		{ID: "user2", Username: "StreetSkater_23"},
		{ID: "user3", Username: "SkaterDude_42"},
		{ID: "user4", Username: "ProSkater_88"},
		{ID: "user5", Username: "FlipMaster_21"},
	}
	for _, u := range users {
		if _, _, err := s.EnsureUser(ctx, u); err != nil {
			return fmt.Errorf("seed: user %s: %w", u.ID, err)
		}
	}

	samples := []models.ChallengeInput{
		{CreatorID: "user1", Trick: "Kickflip to Manual", TrickSlug: "kickflip-to-manual", Difficulty: 3},
		{CreatorID: "user3", Trick: "Varial Heelflip", TrickSlug: "varial-heelflip", Difficulty: 3, BuyIn: 500},
		{CreatorID: "user4", Trick: "Backside 360", TrickSlug: "backside-360", Difficulty: 4, BuyIn: 1000},
		{CreatorID: "user5", Trick: "Nollie Flip", TrickSlug: "nollie-flip", Difficulty: 2},
	}
	for i, in := range samples {
		c, err := s.CreateChallenge(ctx, in)
		if err != nil {
			return fmt.Errorf("seed: challenge %q: %w", in.Trick, err)
		}
		if i != 0 {
			continue
		}
		// One game already underway: user2 on turn, creator holding "SK".
		if _, err := s.UpdateChallenge(ctx, c.ID, models.ChallengePatch{
			OpponentID:     models.Some(models.StringPtr("user2")),
			Status:         models.Some(models.StatusActive),
			CreatorLetters: models.Some("SK"),
			CurrentTurn:    models.Some(models.StringPtr("user2")),
			ExpiresAt:      models.Some(models.TimePtr(now.Add(24 * time.Hour))),
		}); err != nil {
			return fmt.Errorf("seed: activate %s: %w", c.ID, err)
		}
	}

	log.Printf("🌱 Seeded %d users and %d challenges.", len(users), len(samples))
	return nil
}
