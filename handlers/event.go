package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/models"
	"sports-event-platform/services"
)

func SetupEventRoutes(api fiber.Router, auth fiber.Handler, svc *services.EventService, cascade *services.CascadeService) {
	r := api.Group("/events", auth)

	r.Post("/", organisers, svc.CreateEvent)
	r.Get("/", svc.GetEvents)
	r.Delete("/:id", organisers, cascade.DeleteEndpoint(models.KindEvent))
}
