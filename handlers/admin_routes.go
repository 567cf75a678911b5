// handlers/admin_routes.go
package handlers

import (
	"log"

	"skate-challenge-service/middleware"
	"skate-challenge-service/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes mounts the override routes. Without a token they are not
// mounted at all.
func SetupAdminRoutes(app *fiber.App, challengeService *services.ChallengeService, adminToken string) {
	if adminToken == "" {
		log.Println("⚠️  ADMIN_TOKEN not set, admin routes disabled")
		return
	}

	admin := app.Group("/admin", middleware.AdminAuthMiddleware(adminToken))
	admin.Post("/challenges/:id/letters", challengeService.AdminAssignLetter)
	admin.Post("/challenges/:id/expire", challengeService.AdminForceExpire)
}
