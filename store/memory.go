package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"skate-challenge-service/models"
)

// MemoryStore keeps every record in process memory. Records are lost on
// restart.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]models.Challenge
	order      []string
	attempts   map[string][]models.TrickAttempt
	users      map[string]models.User
	userOrder  []string

	locks sync.Map // challenge id -> *sync.Mutex

	now   func() time.Time
	newID func() string
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator sets the id source.
func WithIDGenerator(newID func() string) MemoryOption {
	return func(s *MemoryStore) { s.newID = newID }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		challenges: map[string]models.Challenge{},
		attempts:   map[string][]models.TrickAttempt{},
		users:      map[string]models.User{},
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) CreateChallenge(_ context.Context, in models.ChallengeInput) (models.Challenge, error) {
	now := s.now()
	c := models.Challenge{
		ID:             s.newID(),
		CreatorID:      in.CreatorID,
		Trick:          in.Trick,
		TrickSlug:      in.TrickSlug,
		Status:         models.StatusOpen,
		Difficulty:     in.Difficulty,
		BuyIn:          in.BuyIn,
		VideoURL:       in.VideoURL,
		VideoThumbnail: in.VideoThumbnail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	c = c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = c
	s.order = append(s.order, c.ID)
	return c.Clone(), nil
}

func (s *MemoryStore) GetChallenge(_ context.Context, id string) (models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.challenges[id]
	if !ok {
		return models.Challenge{}, ErrChallengeNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) ListChallenges(_ context.Context, filter ChallengeFilter) ([]models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Challenge, 0, len(s.order))
	for _, id := range s.order {
		c := s.challenges[id]
		if filter.Match(c) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateChallenge(_ context.Context, id string, patch models.ChallengePatch) (models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok {
		return models.Challenge{}, ErrChallengeNotFound
	}
	patch.Apply(&c)
	c.UpdatedAt = s.now()
	s.challenges[id] = c
	return c.Clone(), nil
}

func (s *MemoryStore) WithChallenge(ctx context.Context, id string, fn func(tx Tx, current models.Challenge) error) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	current, err := s.GetChallenge(ctx, id)
	if err != nil {
		return err
	}
	return fn(s, current)
}

func (s *MemoryStore) lockFor(id string) *sync.Mutex {
	if l, ok := s.locks.Load(id); ok {
		return l.(*sync.Mutex)
	}
	l, _ := s.locks.LoadOrStore(strings.Clone(id), &sync.Mutex{})
	return l.(*sync.Mutex)
}

func (s *MemoryStore) ListAttempts(_ context.Context, challengeID string) ([]models.TrickAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.attempts[challengeID]
	out := make([]models.TrickAttempt, len(src))
	copy(out, src)
	return out, nil
}

func (s *MemoryStore) CreateAttempt(_ context.Context, in models.AttemptInput) (models.TrickAttempt, error) {
	a := models.TrickAttempt{
		ID:          s.newID(),
		ChallengeID: strings.Clone(in.ChallengeID),
		UserID:      strings.Clone(in.UserID),
		Landed:      in.Landed,
		Timestamp:   s.now(),
	}
	if in.VideoURL != nil {
		a.VideoURL = models.StringPtr(*in.VideoURL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ChallengeID] = append(s.attempts[a.ChallengeID], a)
	return a, nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStore) EnsureUser(_ context.Context, u models.User) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = s.newID()
	}
	if existing, ok := s.users[u.ID]; ok {
		return existing, false, nil
	}
	for _, other := range s.users {
		if other.Username == u.Username {
			return models.User{}, false, ErrUsernameTaken
		}
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return u, true, nil
}
