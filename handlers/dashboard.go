package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/services"
)

func SetupDashboardRoutes(api fiber.Router, auth fiber.Handler, budget *services.BudgetService, integrity *services.IntegrityService) {
	r := api.Group("/dashboard", auth)

	r.Get("/budget", organisers, budget.GetBudgetDashboard)
	r.Post("/budget/export", organisers, budget.ExportBudgetEndpoint)
	r.Get("/integrity", developerOnly, integrity.GetIntegrityReport)
}
