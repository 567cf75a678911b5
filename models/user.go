package models

// User is a player identity. No authentication semantics; immutable once created.
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
}
