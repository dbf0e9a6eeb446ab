package services

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

// FixtureService drafts matches between the APPROVED teams of a category.
type FixtureService struct {
	DB *gorm.DB
}

func NewFixtureService(db *gorm.DB) *FixtureService {
	return &FixtureService{DB: db}
}

type FixtureFormat string

const (
	FormatRoundRobin  FixtureFormat = "ROUND_ROBIN"
	FormatElimination FixtureFormat = "ELIMINATION"
)

// Pair is one drafted fixture.
type Pair struct {
	Team1ID     string `json:"team1_id"`
	Team1Name   string `json:"team1_name"`
	Team2ID     string `json:"team2_id"`
	Team2Name   string `json:"team2_name"`
	MatchNumber int    `json:"match_number"`
}

type FixtureRequest struct {
	Format FixtureFormat `json:"format" validate:"required,oneof=ROUND_ROBIN ELIMINATION"`
	// First kickoff; later matches follow every Interval minutes.
	StartTime       string `json:"start_time" validate:"required"`
	IntervalMinutes int    `json:"interval_minutes" validate:"gte=0"`
}

type FixtureResult struct {
	CategoryID string         `json:"category_id"`
	Format     FixtureFormat  `json:"format"`
	Pairs      []Pair         `json:"pairs"`
	Bye        *Pair          `json:"bye,omitempty"`
	Matches    []models.Match `json:"matches"`
}

// roundRobinPairs returns every unique pairing, in seeding order.
func roundRobinPairs(teams []models.Team) []Pair {
	pairs := []Pair{}
	n := 1
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			pairs = append(pairs, pairOf(teams[i], teams[j], n))
			n++
		}
	}
	return pairs
}

// eliminationPairs seeds first against last, second against second-to-last.
// With an odd field the middle seed gets a bye.
func eliminationPairs(teams []models.Team) ([]Pair, *Pair) {
	n := len(teams)
	pairs := make([]Pair, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, pairOf(teams[i], teams[n-i-1], i+1))
	}
	if n%2 == 0 {
		return pairs, nil
	}
	bye := teams[n/2]
	return pairs, &Pair{Team1ID: bye.ID, Team1Name: bye.Name}
}

func pairOf(a, b models.Team, n int) Pair {
	return Pair{Team1ID: a.ID, Team1Name: a.Name, Team2ID: b.ID, Team2Name: b.Name, MatchNumber: n}
}

// Generate drafts fixtures for the category and stores them as scheduled
// matches, all in one transaction.
func (s *FixtureService) Generate(ctx context.Context, categoryID string, in FixtureRequest) (*FixtureResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	start, err := time.Parse(time.RFC3339, in.StartTime)
	if err != nil {
		return nil, invalid("start_time", "use RFC3339")
	}
	step := time.Duration(in.IntervalMinutes) * time.Minute

	db := s.DB.WithContext(ctx)
	var category models.Category
	if err := db.Select("id").First(&category, "id = ?", categoryID).Error; err != nil {
		return nil, translateStoreError(err)
	}
	var teams []models.Team
	err = db.Where("category_id = ? AND status = ?", categoryID, models.TeamStatusApproved).
		Order("created_at ASC").Order("id ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, invalid("category_id", "at least two approved teams are needed")
	}

	out := &FixtureResult{CategoryID: categoryID, Format: in.Format}
	switch in.Format {
	case FormatRoundRobin:
		out.Pairs = roundRobinPairs(teams)
	case FormatElimination:
		out.Pairs, out.Bye = eliminationPairs(teams)
	}

	out.Matches = make([]models.Match, len(out.Pairs))
	for i, p := range out.Pairs {
		t1, t2 := p.Team1ID, p.Team2ID
		out.Matches[i] = models.Match{
			CategoryID:    categoryID,
			Team1ID:       &t1,
			Team2ID:       &t2,
			ScheduledTime: start.Add(time.Duration(i) * step),
		}
	}
	if err := db.Create(&out.Matches).Error; err != nil {
		return nil, translateStoreError(err)
	}

	zap.L().Info("[FIXTURES] generated",
		zap.String("category_id", categoryID),
		zap.String("format", string(in.Format)),
		zap.Int("matches", len(out.Matches)))
	return out, nil
}

func (s *FixtureService) GenerateFixtures(c *fiber.Ctx) error {
	var req FixtureRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	res, err := s.Generate(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
