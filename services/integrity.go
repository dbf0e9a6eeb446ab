package services

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

// OrphanReport counts rows whose owning parent no longer exists.
// Any non-zero value is a defect left behind by an interrupted or bypassed cascade.
type OrphanReport struct {
	Events      int64 `json:"events"`
	Games       int64 `json:"games"`
	Categories  int64 `json:"categories"`
	Teams       int64 `json:"teams"`
	TeamMembers int64 `json:"team_members"`
	Matches     int64 `json:"matches"`
	// Matches whose team1/team2 points at a team that is gone.
	DanglingMatchTeams int64 `json:"dangling_match_teams"`
}

func (r OrphanReport) Total() int64 {
	return r.Events + r.Games + r.Categories + r.Teams + r.TeamMembers + r.Matches + r.DanglingMatchTeams
}

type IntegrityService struct {
	DB *gorm.DB
}

func NewIntegrityService(db *gorm.DB) *IntegrityService {
	return &IntegrityService{DB: db}
}

type orphanCheck struct {
	dst   *int64
	model interface{}
	join  string
	where string
}

// FindOrphans scans every ownership level. It only reads.
func (s *IntegrityService) FindOrphans(ctx context.Context) (OrphanReport, error) {
	var r OrphanReport
	db := s.DB.WithContext(ctx)

	checks := []orphanCheck{
		{&r.Events, &models.Event{}, "LEFT JOIN associations p ON p.id = events.association_id", "p.id IS NULL"},
		{&r.Games, &models.Game{}, "LEFT JOIN events p ON p.id = games.event_id", "p.id IS NULL"},
		{&r.Categories, &models.Category{}, "LEFT JOIN games p ON p.id = categories.game_id", "p.id IS NULL"},
		{&r.Teams, &models.Team{}, "LEFT JOIN categories p ON p.id = teams.category_id", "p.id IS NULL"},
		{&r.TeamMembers, &models.TeamMember{}, "LEFT JOIN teams p ON p.id = team_members.team_id", "p.id IS NULL"},
		{&r.Matches, &models.Match{}, "LEFT JOIN categories p ON p.id = matches.category_id", "p.id IS NULL"},
		{&r.DanglingMatchTeams, &models.Match{},
			"LEFT JOIN teams t1 ON t1.id = matches.team1_id LEFT JOIN teams t2 ON t2.id = matches.team2_id",
			"(matches.team1_id IS NOT NULL AND t1.id IS NULL) OR (matches.team2_id IS NOT NULL AND t2.id IS NULL)"},
	}
	for _, chk := range checks {
		if err := db.Model(chk.model).Joins(chk.join).Where(chk.where).Count(chk.dst).Error; err != nil {
			return r, err
		}
	}
	return r, nil
}

// GetIntegrityReport serves GET /dashboard/integrity
func (s *IntegrityService) GetIntegrityReport(c *fiber.Ctx) error {
	report, err := s.FindOrphans(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orphans": report, "total": report.Total()})
}
