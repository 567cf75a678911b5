package rules

import (
	"fmt"
	"strings"

	"skate-challenge-service/apperrors"
)

// Word is the full set of letters; holding all of it loses the game.
const Word = "SKATE"

// ValidLetters reports whether s is a prefix of Word.
func ValidLetters(s string) bool {
	return len(s) <= len(Word) && strings.HasPrefix(Word, s)
}

// NextLetters returns s with the next letter of Word appended.
func NextLetters(s string) (string, error) {
	if !ValidLetters(s) {
		return "", apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("letters %q are not a prefix of %s", s, Word))
	}
	if s == Word {
		return "", apperrors.New(apperrors.CodeInvalidState, "player already holds every letter")
	}
	return Word[:len(s)+1], nil
}

// Spelled reports whether s holds every letter of Word.
func Spelled(s string) bool {
	return s == Word
}
