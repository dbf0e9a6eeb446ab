package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/models"
	"sports-event-platform/services"
)

func SetupCategoryRoutes(api fiber.Router, auth fiber.Handler, svc *services.CategoryService, fixtures *services.FixtureService, cascade *services.CascadeService) {
	r := api.Group("/categories", auth)

	r.Post("/", organisers, svc.CreateCategory)
	r.Get("/", svc.GetCategories)
	r.Put("/:id", organisers, svc.UpdateCategory)
	r.Delete("/:id", organisers, cascade.DeleteEndpoint(models.KindCategory))

	r.Post("/:id/fixtures", staff, fixtures.GenerateFixtures)
}
