package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

type TeamMemberInput struct {
	Name   string `json:"name" validate:"required"`
	Branch string `json:"branch"`
	Year   string `json:"year"`
}

type TeamRegistration struct {
	Name        string            `json:"name" validate:"required,max=200"`
	CaptainName string            `json:"captain_name" validate:"required"`
	Branch      string            `json:"branch"`
	Year        string            `json:"year"`
	CategoryID  string            `json:"category_id" validate:"required"`
	Members     []TeamMemberInput `json:"members" validate:"dive"`
}

// Register records a new team and its members as PENDING approval.
func (s *TeamService) Register(ctx context.Context, in TeamRegistration) (*models.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var category models.Category
	if err := db.Select("id").First(&category, "id = ?", in.CategoryID).Error; err != nil {
		return nil, translateStoreError(err)
	}

	team := &models.Team{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		CaptainName: in.CaptainName,
		Branch:      in.Branch,
		Year:        in.Year,
		Status:      models.TeamStatusPending,
		Members:     make([]models.TeamMember, 0, len(in.Members)),
	}
	for _, m := range in.Members {
		team.Members = append(team.Members, models.TeamMember{Name: m.Name, Branch: m.Branch, Year: m.Year})
	}
	if err := db.Create(team).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return team, nil
}

// SetStatus applies the approval decision. Only PENDING teams can move, and
// only to APPROVED or REJECTED; the update is conditional on the row still
// being PENDING so two concurrent decisions cannot both apply.
func (s *TeamService) SetStatus(ctx context.Context, id string, status models.TeamStatus) (*models.Team, error) {
	if status != models.TeamStatusApproved && status != models.TeamStatusRejected {
		return nil, invalid("status", "must be APPROVED or REJECTED")
	}
	db := s.DB.WithContext(ctx)
	var team models.Team
	if err := db.First(&team, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	if !team.Status.CanTransitionTo(status) {
		return nil, invalid("status", fmt.Sprintf("team is %s, cannot move to %s", team.Status, status))
	}

	res := db.Model(&models.Team{}).
		Where("id = ? AND status = ?", id, models.TeamStatusPending).
		Update("status", status)
	if res.Error != nil {
		return nil, translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("team %s was decided concurrently: %w", id, ErrConflict)
	}
	team.Status = status
	zap.L().Info("[TEAM] status changed", zap.String("team_id", id), zap.String("status", string(status)))
	return &team, nil
}

// List returns teams with their members, optionally for one category.
func (s *TeamService) List(ctx context.Context, categoryID string) ([]models.Team, error) {
	teams := []models.Team{}
	q := orderByCreation(s.DB.WithContext(ctx)).Preload("Members", orderByCreation)
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&teams).Error
	return teams, err
}

func (s *TeamService) RegisterTeam(c *fiber.Ctx) error {
	var req TeamRegistration
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	team, err := s.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "team registered, pending approval",
		"team":    team,
	})
}

func (s *TeamService) UpdateTeamStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.TeamStatus `json:"status"`
	}
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	team, err := s.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "team status updated to " + string(team.Status), "team": team})
}

func (s *TeamService) GetTeams(c *fiber.Ctx) error {
	teams, err := s.List(c.UserContext(), c.Query("category_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(teams)
}
