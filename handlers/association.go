package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/models"
	"sports-event-platform/services"
)

func SetupAssociationRoutes(api fiber.Router, auth fiber.Handler, svc *services.AssociationService, cascade *services.CascadeService) {
	r := api.Group("/associations", auth)

	r.Post("/", developerOnly, svc.CreateAssociation)
	r.Get("/", staff, svc.GetAssociations)
	r.Put("/:id", developerOnly, svc.UpdateAssociation)
	r.Delete("/:id", developerOnly, cascade.DeleteEndpoint(models.KindAssociation))
}
