// handlers/challenge_routes.go
package handlers

import (
	"skate-challenge-service/middleware"
	"skate-challenge-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challengeService *services.ChallengeService) {
	challenges := app.Group("/challenges", middleware.UserContextMiddleware())

	challenges.Get("/", challengeService.GetAllChallenges)
	challenges.Post("/", challengeService.CreateChallenge)
	challenges.Get("/:id", challengeService.GetChallengeByID)
	challenges.Patch("/:id", challengeService.UpdateChallenge)

	// Rule-driven transitions
	challenges.Post("/:id/join", challengeService.JoinChallenge)
	challenges.Get("/:id/attempts", challengeService.GetAttempts)
	challenges.Post("/:id/attempts", challengeService.CreateAttempt)
}
