// handlers/user_routes.go
package handlers

import (
	"skate-challenge-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, challengeService *services.ChallengeService) {
	app.Get("/users", userService.GetAllUsers)
	app.Get("/users/:id", userService.GetUserByID)
	app.Get("/users/:id/challenges", challengeService.GetUserChallenges)
}
