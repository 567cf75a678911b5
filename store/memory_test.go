package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/models"
	"skate-challenge-service/rules"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestStore() (*MemoryStore, *testClock) {
	clock := &testClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	return NewMemoryStore(WithClock(clock.Now), WithIDGenerator(sequentialIDs("id-"))), clock
}

func TestCreateChallengeAppliesDefaults(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	c, err := s.CreateChallenge(ctx, models.ChallengeInput{CreatorID: "u1", Trick: "Kickflip", Difficulty: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != "id-1" {
		t.Fatalf("expected id-1, got %q", c.ID)
	}
	if c.Status != models.StatusOpen {
		t.Fatalf("expected open, got %s", c.Status)
	}
	if c.OpponentID != nil || c.CurrentTurn != nil || c.ExpiresAt != nil || c.VideoURL != nil {
		t.Fatal("expected null opponent, turn, expiry and video")
	}
	if c.CreatorLetters != "" || c.OpponentLetters != "" {
		t.Fatal("expected empty letters")
	}
	if !c.CreatedAt.Equal(clock.Now()) || !c.UpdatedAt.Equal(clock.Now()) {
		t.Fatal("expected timestamps from clock")
	}
}

func TestGetChallengeNotFound(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.GetChallenge(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListChallengesInsertionOrderAndFilter(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	for _, trick := range []string{"Ollie", "Kickflip", "Heelflip"} {
		if _, err := s.CreateChallenge(ctx, models.ChallengeInput{CreatorID: "u1", Trick: trick, TrickSlug: rules.TrickSlug(trick)}); err != nil {
			t.Fatalf("create %s: %v", trick, err)
		}
	}
	if _, err := s.CreateChallenge(ctx, models.ChallengeInput{CreatorID: "u2", Trick: "Ollie", TrickSlug: "ollie"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := s.ListChallenges(ctx, ChallengeFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].Trick != "Ollie" || all[2].Trick != "Heelflip" {
		t.Fatalf("unexpected order: %+v", all)
	}

	ollies, _ := s.ListChallenges(ctx, ChallengeFilter{TrickSlug: "ollie"})
	if len(ollies) != 2 {
		t.Fatalf("expected 2 ollies, got %d", len(ollies))
	}
	byUser, _ := s.ListChallenges(ctx, ChallengeFilter{UserID: "u2"})
	if len(byUser) != 1 || byUser[0].CreatorID != "u2" {
		t.Fatalf("unexpected user filter result %+v", byUser)
	}
}

func TestUpdateChallengeMergesAndRefreshesUpdatedAt(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	c, _ := s.CreateChallenge(ctx, models.ChallengeInput{CreatorID: "u1", Trick: "Ollie", Difficulty: 2})

	clock.Advance(time.Minute)
	updated, err := s.UpdateChallenge(ctx, c.ID, models.ChallengePatch{Difficulty: models.Some(4)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Difficulty != 4 || updated.Trick != "Ollie" {
		t.Fatalf("unexpected merge result %+v", updated)
	}
	if !updated.UpdatedAt.Equal(clock.Now()) || !updated.CreatedAt.Equal(c.CreatedAt) {
		t.Fatal("expected updatedAt refreshed and createdAt kept")
	}

	if _, err := s.UpdateChallenge(ctx, "missing", models.ChallengePatch{}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReturnedChallengeIsACopy(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	c, _ := s.CreateChallenge(ctx, models.ChallengeInput{CreatorID: "u1", Trick: "Ollie"})
	c, _ = s.UpdateChallenge(ctx, c.ID, models.ChallengePatch{VideoURL: models.Some(models.StringPtr("a"))})

	*c.VideoURL = "b"
	got, _ := s.GetChallenge(ctx, c.ID)
	if *got.VideoURL != "a" {
		t.Fatalf("stored record mutated through returned copy: %q", *got.VideoURL)
	}
}

func TestAttemptsInCreationOrder(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	for i, landed := range []bool{false, true, false} {
		clock.Advance(time.Second)
		if _, err := s.CreateAttempt(ctx, models.AttemptInput{ChallengeID: "c1", UserID: fmt.Sprintf("u%d", i), Landed: landed}); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}
	if _, err := s.CreateAttempt(ctx, models.AttemptInput{ChallengeID: "c2", UserID: "u9"}); err != nil {
		t.Fatalf("create attempt: %v", err)
	}

	attempts, err := s.ListAttempts(ctx, "c1")
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	for i, a := range attempts {
		if a.UserID != fmt.Sprintf("u%d", i) {
			t.Fatalf("attempt %d out of order: %+v", i, a)
		}
	}
	if !attempts[1].Landed || attempts[0].Landed {
		t.Fatal("landed flags not preserved")
	}
}

func TestConcurrentJoinsExactlyOneSucceeds(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	engine := rules.NewEngine(clock.Now, 0)
	c, _ := s.CreateChallenge(ctx, models.ChallengeInput{CreatorID: "u1", Trick: "Ollie"})

	const joiners = 16
	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.WithChallenge(ctx, c.ID, func(tx Tx, current models.Challenge) error {
				patch, err := engine.Join(current, fmt.Sprintf("joiner-%d", i))
				if err != nil {
					return err
				}
				_, err = tx.UpdateChallenge(ctx, c.ID, patch)
				return err
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInvalidState):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful join, got %d", succeeded)
	}

	got, _ := s.GetChallenge(ctx, c.ID)
	if got.Status != models.StatusActive || got.OpponentID == nil || *got.CurrentTurn != *got.OpponentID {
		t.Fatalf("unexpected final state %+v", got)
	}
}

func TestWithChallengeNotFound(t *testing.T) {
	s, _ := newTestStore()
	called := false
	err := s.WithChallenge(context.Background(), "missing", func(Tx, models.Challenge) error {
		called = true
		return nil
	})
	if !errors.Is(err, apperrors.ErrNotFound) || called {
		t.Fatalf("expected not found without calling fn, got %v (called=%v)", err, called)
	}
}

func TestEnsureUserKeepsExisting(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	u, created, err := s.EnsureUser(ctx, models.User{ID: "user1", Username: "TonyHawk_99"})
	if err != nil || !created || u.Username != "TonyHawk_99" {
		t.Fatalf("unexpected first ensure: %+v %v %v", u, created, err)
	}
	u, created, err = s.EnsureUser(ctx, models.User{ID: "user1", Username: "Renamed"})
	if err != nil || created || u.Username != "TonyHawk_99" {
		t.Fatalf("expected existing user unchanged, got %+v %v %v", u, created, err)
	}

	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEnsureUserRejectsTakenUsername(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, _, err := s.EnsureUser(ctx, models.User{ID: "user1", Username: "TonyHawk_99"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	_, created, err := s.EnsureUser(ctx, models.User{ID: "user2", Username: "TonyHawk_99"})
	if !errors.Is(err, ErrUsernameTaken) || created {
		t.Fatalf("expected username taken, got created=%v err=%v", created, err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict code, got %s", apperrors.CodeOf(err))
	}
	if _, err := s.GetUser(ctx, "user2"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("rejected user was stored: %v", err)
	}

	// Usernames compare exactly, as the database index does.
	if _, created, err := s.EnsureUser(ctx, models.User{ID: "user3", Username: "tonyhawk_99"}); err != nil || !created {
		t.Fatalf("expected differently cased username accepted, got %v %v", created, err)
	}
}
