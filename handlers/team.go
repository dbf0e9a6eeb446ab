package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/services"
)

func SetupTeamRoutes(api fiber.Router, auth fiber.Handler, svc *services.TeamService) {
	// 🔓 Public: student registration form
	api.Post("/teams/register", svc.RegisterTeam)

	api.Get("/teams", auth, staff, svc.GetTeams)
	api.Patch("/teams/:id/status", auth, staff, svc.UpdateTeamStatus)
}
