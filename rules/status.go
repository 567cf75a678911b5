package rules

import "skate-challenge-service/models"

// TransitionAllowed enforces the forward-only challenge lifecycle.
func TransitionAllowed(from, to models.ChallengeStatus) bool {
	switch from {
	case models.StatusOpen:
		return to == models.StatusActive
	case models.StatusActive:
		return to == models.StatusCompleted || to == models.StatusExpired
	default:
		return false
	}
}
