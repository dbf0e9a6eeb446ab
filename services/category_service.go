package services

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type CategoryService struct {
	DB       *gorm.DB
	Identity *IdentityService
}

func NewCategoryService(db *gorm.DB, identity *IdentityService) *CategoryService {
	return &CategoryService{DB: db, Identity: identity}
}

type CategoryInput struct {
	Name             string  `json:"name" validate:"required,max=200"`
	EntryFee         float64 `json:"entry_fee" validate:"gte=0"`
	GameID           string  `json:"game_id" validate:"required"`
	InchargeName     string  `json:"incharge_name"`
	InchargeEmail    string  `json:"incharge_email" validate:"required,email"`
	InchargePassword string  `json:"incharge_password"`
}

// CategoryUpdate carries optional changes; nil / empty fields are left alone.
type CategoryUpdate struct {
	Name             *string  `json:"name" validate:"omitempty,max=200"`
	EntryFee         *float64 `json:"entry_fee" validate:"omitempty,gte=0"`
	InchargeName     string   `json:"incharge_name"`
	InchargeEmail    string   `json:"incharge_email" validate:"omitempty,email"`
	InchargePassword string   `json:"incharge_password"`
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var game models.Game
	if err := db.Select("id").First(&game, "id = ?", in.GameID).Error; err != nil {
		return nil, translateStoreError(err)
	}

	inchargeID, err := s.Identity.ResolveOrCreate(ctx, ResolveUserInput{
		Email:    in.InchargeEmail,
		Role:     models.RoleIncharge,
		Name:     in.InchargeName,
		Password: in.InchargePassword,
	})
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		GameID:     in.GameID,
		Name:       in.Name,
		EntryFee:   in.EntryFee,
		InchargeID: inchargeID,
	}
	if err := db.Create(category).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryUpdate) (*models.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var category models.Category
	if err := db.Preload("Incharge").First(&category, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "must not be empty")
		}
		category.Name = name
	}
	if in.EntryFee != nil {
		category.EntryFee = *in.EntryFee
	}
	email := strings.ToLower(strings.TrimSpace(in.InchargeEmail))
	if email != "" && (category.Incharge == nil || email != category.Incharge.Email) {
		inchargeID, err := s.Identity.ResolveOrCreate(ctx, ResolveUserInput{
			Email:    email,
			Role:     models.RoleIncharge,
			Name:     in.InchargeName,
			Password: in.InchargePassword,
		})
		if err != nil {
			return nil, err
		}
		category.InchargeID = inchargeID
	}

	err := db.Model(&category).
		Select("name", "entry_fee", "incharge_id").
		Updates(map[string]interface{}{
			"name":        category.Name,
			"entry_fee":   category.EntryFee,
			"incharge_id": category.InchargeID,
		}).Error
	if err != nil {
		return nil, translateStoreError(err)
	}
	category.Incharge = nil
	return &category, nil
}

// List returns categories with their incharge, optionally for one game.
func (s *CategoryService) List(ctx context.Context, gameID string) ([]models.Category, error) {
	categories := []models.Category{}
	q := orderByCreation(s.DB.WithContext(ctx)).Preload("Incharge")
	if gameID != "" {
		q = q.Where("game_id = ?", gameID)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (s *CategoryService) CreateCategory(c *fiber.Ctx) error {
	var req CategoryInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := s.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (s *CategoryService) UpdateCategory(c *fiber.Ctx) error {
	var req CategoryUpdate
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := s.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (s *CategoryService) GetCategories(c *fiber.Ctx) error {
	categories, err := s.List(c.UserContext(), c.Query("game_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}
