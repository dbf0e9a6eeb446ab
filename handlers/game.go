package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/models"
	"sports-event-platform/services"
)

func SetupGameRoutes(api fiber.Router, auth fiber.Handler, svc *services.GameService, cascade *services.CascadeService) {
	r := api.Group("/games", auth)

	r.Post("/", organisers, svc.CreateGame)
	r.Get("/", svc.GetGames)
	r.Delete("/:id", organisers, cascade.DeleteEndpoint(models.KindGame))
}
