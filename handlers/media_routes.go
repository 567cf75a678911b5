// handlers/media_routes.go
package handlers

import (
	"skate-challenge-service/middleware"
	"skate-challenge-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMediaRoutes(app *fiber.App, mediaService *services.MediaService) {
	app.Post("/media/videos", middleware.UserContextMiddleware(), mediaService.UploadVideo)
}
