// models/attempt.go
package models

import "time"

// TrickAttempt records the outcome of one turn. Attempts are never edited.
type TrickAttempt struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ChallengeID string    `json:"challengeId" gorm:"index;not null"`
	UserID      string    `json:"userId" gorm:"not null"`
	VideoURL    *string   `json:"videoUrl"`
	Landed      bool      `json:"landed"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
}

// AttemptInput is the payload of a new attempt.
type AttemptInput struct {
	ChallengeID string  `json:"challengeId"`
	UserID      string  `json:"userId"`
	VideoURL    *string `json:"videoUrl"`
	Landed      bool    `json:"landed"`
}
