package services

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

type GameInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	EventID string `json:"event_id" validate:"required"`
}

func (s *GameService) Create(ctx context.Context, in GameInput) (*models.Game, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var event models.Event
	if err := db.Select("id").First(&event, "id = ?", in.EventID).Error; err != nil {
		return nil, translateStoreError(err)
	}
	game := &models.Game{EventID: in.EventID, Name: in.Name}
	if err := db.Create(game).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return game, nil
}

// List returns games with their categories, optionally for one event.
func (s *GameService) List(ctx context.Context, eventID string) ([]models.Game, error) {
	games := []models.Game{}
	q := orderByCreation(s.DB.WithContext(ctx)).Preload("Categories", orderByCreation)
	if eventID != "" {
		q = q.Where("event_id = ?", eventID)
	}
	err := q.Find(&games).Error
	return games, err
}

func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var req GameInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	game, err := s.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(game)
}

func (s *GameService) GetGames(c *fiber.Ctx) error {
	games, err := s.List(c.UserContext(), c.Query("event_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(games)
}
