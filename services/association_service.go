package services

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type AssociationService struct {
	DB *gorm.DB
}

func NewAssociationService(db *gorm.DB) *AssociationService {
	return &AssociationService{DB: db}
}

type AssociationInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (s *AssociationService) Create(ctx context.Context, caller models.Caller, in AssociationInput) (*models.Association, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	a := &models.Association{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		CreatedByID: caller.UserID,
	}
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return a, nil
}

func (s *AssociationService) List(ctx context.Context) ([]models.Association, error) {
	associations := []models.Association{}
	err := s.DB.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Events", orderByCreation).
		Order("created_at ASC").
		Find(&associations).Error
	return associations, err
}

func (s *AssociationService) Rename(ctx context.Context, id string, in AssociationInput) (*models.Association, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var a models.Association
	if err := db.First(&a, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	a.Name = in.Name
	a.Slug = slug.Make(in.Name)
	if err := db.Model(&a).Select("name", "slug").Updates(&a).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return &a, nil
}

func (s *AssociationService) CreateAssociation(c *fiber.Ctx) error {
	var req AssociationInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	a, err := s.Create(c.UserContext(), callerFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (s *AssociationService) GetAssociations(c *fiber.Ctx) error {
	associations, err := s.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(associations)
}

func (s *AssociationService) UpdateAssociation(c *fiber.Ctx) error {
	var req AssociationInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	a, err := s.Rename(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}
