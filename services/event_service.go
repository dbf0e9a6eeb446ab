package services

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type EventService struct {
	DB       *gorm.DB
	Identity *IdentityService
}

func NewEventService(db *gorm.DB, identity *IdentityService) *EventService {
	return &EventService{DB: db, Identity: identity}
}

type EventInput struct {
	Name          string `json:"name" validate:"required,max=200"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	Venue         string `json:"venue"`
	AssociationID string `json:"association_id" validate:"required"`

	// Used when a DEVELOPER provisions the event for an admin.
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// parseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(field, v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, invalid(field, "use RFC3339 or YYYY-MM-DD")
}

// Create provisions an event. A DEVELOPER names the admin by email, which is
// resolved (or created) through the identity resolver; an ADMIN always
// administers the events they create.
func (s *EventService) Create(ctx context.Context, caller models.Caller, in EventInput) (*models.Event, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalid("end_date", "must not be before start_date")
	}

	db := s.DB.WithContext(ctx)
	var association models.Association
	if err := db.Select("id").First(&association, "id = ?", in.AssociationID).Error; err != nil {
		return nil, translateStoreError(err)
	}

	var adminID string
	switch caller.Role {
	case models.RoleDeveloper:
		if in.AdminEmail == "" {
			return nil, invalid("admin_email", "is required")
		}
		adminID, err = s.Identity.ResolveOrCreate(ctx, ResolveUserInput{
			Email:    in.AdminEmail,
			Role:     models.RoleAdmin,
			Name:     in.AdminName,
			Password: in.AdminPassword,
		})
		if err != nil {
			return nil, err
		}
	case models.RoleAdmin:
		adminID = caller.UserID
	default:
		return nil, ErrForbidden
	}

	event := &models.Event{
		AssociationID: in.AssociationID,
		Name:          in.Name,
		Slug:          slug.Make(in.Name),
		StartDate:     start,
		EndDate:       end,
		Venue:         in.Venue,
		AdminID:       adminID,
	}
	if err := db.Create(event).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	err := orderByCreation(s.DB.WithContext(ctx)).
		Preload("Association").
		Preload("Admin").
		Find(&events).Error
	return events, err
}

// ListPublic returns every event with its games and categories, the data a
// team registration form needs.
func (s *EventService) ListPublic(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	err := orderByCreation(s.DB.WithContext(ctx)).
		Preload("Games", orderByCreation).
		Preload("Games.Categories", orderByCreation).
		Find(&events).Error
	return events, err
}

func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	var req EventInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	event, err := s.Create(c.UserContext(), callerFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (s *EventService) GetEvents(c *fiber.Ctx) error {
	events, err := s.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

func (s *EventService) GetPublicEvents(c *fiber.Ctx) error {
	events, err := s.ListPublic(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}
