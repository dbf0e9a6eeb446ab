package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/services"
)

func SetupMatchRoutes(api fiber.Router, auth fiber.Handler, svc *services.MatchService) {
	// 🔓 Public schedule
	api.Get("/matches", svc.GetMatches)

	api.Post("/matches", auth, staff, svc.ScheduleMatch)
	api.Patch("/matches/:id/result", auth, staff, svc.UpdateMatchResult)
	api.Put("/matches/:id", auth, staff, svc.UpdateMatch)
	api.Delete("/matches/:id", auth, staff, svc.DeleteMatch)
}
