package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/services"
)

// SetupPublicRoutes registers the unauthenticated read endpoints.
func SetupPublicRoutes(api fiber.Router, events *services.EventService, leaderboard *services.LeaderboardService) {
	api.Get("/public/events", events.GetPublicEvents)
	api.Get("/leaderboard/:categoryId", leaderboard.GetLeaderboard)
}
