package client

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"skate-challenge-service/rules"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatBuyIn renders a stake held in cents, "Free" when there is none.
func FormatBuyIn(cents int64) string {
	if cents <= 0 {
		return "Free"
	}
	return printer.Sprintf("$%.2f", float64(cents)/100)
}

// FormatLetters renders earned letters against the full word, e.g. "S K _ _ _".
func FormatLetters(letters string) string {
	out := make([]string, len(rules.Word))
	for i := range rules.Word {
		if i < len(letters) {
			out[i] = string(letters[i])
		} else {
			out[i] = "_"
		}
	}
	return strings.Join(out, " ")
}

// FormatCountdown describes the time left on a turn.
func FormatCountdown(expiresAt *time.Time, now time.Time) string {
	if expiresAt == nil {
		return ""
	}
	left := expiresAt.Sub(now)
	switch {
	case left <= 0:
		return "expired"
	case left < time.Minute:
		return "<1m left"
	case left < time.Hour:
		return fmt.Sprintf("%dm left", int(left/time.Minute))
	default:
		h := int(left / time.Hour)
		m := int((left % time.Hour) / time.Minute)
		return fmt.Sprintf("%dh %02dm left", h, m)
	}
}
