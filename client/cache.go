package client

import (
	"sync"
	"time"

	"skate-challenge-service/models"
)

// SessionCache holds challenges seen during one client session. Entries
// expire after ttl and are dropped explicitly when the client mutates them.
type SessionCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	challenges map[string]cachedChallenge
	list       []string
	listAt     time.Time
	hasList    bool
}

type cachedChallenge struct {
	value    models.Challenge
	storedAt time.Time
}

// NewSessionCache returns a cache; a nil clock uses time.Now.
func NewSessionCache(ttl time.Duration, now func() time.Time) *SessionCache {
	if now == nil {
		now = time.Now
	}
	return &SessionCache{ttl: ttl, now: now, challenges: map[string]cachedChallenge{}}
}

func (s *SessionCache) fresh(at time.Time) bool {
	return s.ttl > 0 && s.now().Sub(at) < s.ttl
}

func (s *SessionCache) Challenge(id string) (models.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.challenges[id]
	if !ok || !s.fresh(e.storedAt) {
		return models.Challenge{}, false
	}
	return e.value.Clone(), true
}

func (s *SessionCache) PutChallenge(c models.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = cachedChallenge{value: c.Clone(), storedAt: s.now()}
}

// List returns the cached unfiltered list if it and every member are fresh.
func (s *SessionCache) List() ([]models.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasList || !s.fresh(s.listAt) {
		return nil, false
	}
	out := make([]models.Challenge, 0, len(s.list))
	for _, id := range s.list {
		e, ok := s.challenges[id]
		if !ok {
			return nil, false
		}
		out = append(out, e.value.Clone())
	}
	return out, true
}

func (s *SessionCache) PutList(list []models.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.list = s.list[:0]
	for _, c := range list {
		s.challenges[c.ID] = cachedChallenge{value: c.Clone(), storedAt: now}
		s.list = append(s.list, c.ID)
	}
	s.listAt = now
	s.hasList = true
}

// Invalidate drops one challenge.
func (s *SessionCache) Invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, id)
}

func (s *SessionCache) InvalidateList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasList = false
	s.list = nil
}

// Clear drops everything, for example on logout.
func (s *SessionCache) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = map[string]cachedChallenge{}
	s.hasList = false
	s.list = nil
}
