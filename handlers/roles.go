package handlers

import (
	"sports-event-platform/middleware"
	"sports-event-platform/models"
)

var (
	developerOnly = middleware.RequireRoles(models.RoleDeveloper)
	organisers    = middleware.RequireRoles(models.RoleDeveloper, models.RoleAdmin)
	staff         = middleware.RequireRoles(models.RoleDeveloper, models.RoleAdmin, models.RoleIncharge)
)
