// models/challenge.go
package models

import "time"

// ChallengeStatus is the lifecycle label of a challenge.
type ChallengeStatus string

const (
	StatusOpen      ChallengeStatus = "open"
	StatusActive    ChallengeStatus = "active"
	StatusCompleted ChallengeStatus = "completed"
	StatusExpired   ChallengeStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s ChallengeStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusActive, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether no further mutation is allowed.
func (s ChallengeStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// Challenge is one SKATE contest between a creator and (once joined) an opponent.
type Challenge struct {
	ID         string  `json:"id" gorm:"primaryKey"`
	CreatorID  string  `json:"creatorId" gorm:"index;not null"`
	OpponentID *string `json:"opponentId" gorm:"index"`
	Trick      string  `json:"trick" gorm:"not null"`
	TrickSlug  string  `json:"trickSlug" gorm:"index"`

	Status          ChallengeStatus `json:"status" gorm:"type:varchar(16);index;not null;default:'open'"`
	CreatorLetters  string          `json:"creatorLetters" gorm:"type:varchar(5);not null;default:''"`
	OpponentLetters string          `json:"opponentLetters" gorm:"type:varchar(5);not null;default:''"`
	CurrentTurn     *string         `json:"currentTurn"`
	ExpiresAt       *time.Time      `json:"expiresAt" gorm:"index"`
	LoserID         *string         `json:"loserId"`

	Difficulty int   `json:"difficulty" gorm:"not null;default:1;check:difficulty >= 1 and difficulty <= 5"`
	BuyIn      int64 `json:"buyIn" gorm:"not null;default:0;check:buy_in >= 0"` // cents

	// 🎥 Media
	VideoURL       *string `json:"videoUrl"`
	VideoThumbnail *string `json:"videoThumbnail"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// IsParticipant reports whether userID is the creator or the opponent.
func (c Challenge) IsParticipant(userID string) bool {
	return userID == c.CreatorID || (c.OpponentID != nil && *c.OpponentID == userID)
}

// OtherParticipant returns the participant that is not userID.
func (c Challenge) OtherParticipant(userID string) string {
	if userID == c.CreatorID {
		if c.OpponentID != nil {
			return *c.OpponentID
		}
		return ""
	}
	return c.CreatorID
}

// LettersOf returns the letters held by userID.
func (c Challenge) LettersOf(userID string) string {
	if userID == c.CreatorID {
		return c.CreatorLetters
	}
	return c.OpponentLetters
}

// Clone returns a deep copy so callers never share pointer fields with a store.
func (c Challenge) Clone() Challenge {
	c.OpponentID = cloneString(c.OpponentID)
	c.CurrentTurn = cloneString(c.CurrentTurn)
	c.LoserID = cloneString(c.LoserID)
	c.VideoURL = cloneString(c.VideoURL)
	c.VideoThumbnail = cloneString(c.VideoThumbnail)
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		c.ExpiresAt = &t
	}
	return c
}

// ChallengeInput holds the creator-supplied fields of a new challenge.
type ChallengeInput struct {
	CreatorID      string  `json:"creatorId"`
	Trick          string  `json:"trick"`
	TrickSlug      string  `json:"-"`
	Difficulty     int     `json:"difficulty"`
	BuyIn          int64   `json:"buyIn"`
	VideoURL       *string `json:"videoUrl"`
	VideoThumbnail *string `json:"videoThumbnail"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
