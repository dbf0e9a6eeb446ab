package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/services"
)

func SetupUserRoutes(api fiber.Router, auth fiber.Handler, svc *services.UserService) {
	api.Get("/users", auth, developerOnly, svc.SearchUsers)
}
