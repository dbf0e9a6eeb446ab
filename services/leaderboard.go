package services

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type LeaderboardRow struct {
	Rank   int    `json:"rank"`
	TeamID string `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Played int    `json:"played"`
}

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// Leaderboard ranks the APPROVED teams of a category by wins.
// Standings are recomputed from the match rows on every call.
//
// Ties are broken by team name (collation order), then by id.
// Teams without wins stay on the board with zero.
func (s *LeaderboardService) Leaderboard(ctx context.Context, categoryID string) ([]LeaderboardRow, error) {
	db := s.DB.WithContext(ctx)

	var category models.Category
	if err := db.Select("id").First(&category, "id = ?", categoryID).Error; err != nil {
		return nil, translateStoreError(err)
	}

	var teams []models.Team
	err := db.Where("category_id = ? AND status = ?", categoryID, models.TeamStatusApproved).
		Order("created_at ASC").Order("id ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, len(teams))
	byID := make(map[string]*LeaderboardRow, len(teams))
	for i, t := range teams {
		rows[i] = LeaderboardRow{TeamID: t.ID, Name: t.Name}
		byID[t.ID] = &rows[i]
	}

	var matches []models.Match
	err = db.Where("category_id = ?", categoryID).
		Where("result IS NOT NULL OR winner_team_id IS NOT NULL OR is_draw = ?", true).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		for _, side := range []*string{m.Team1ID, m.Team2ID} {
			if side == nil {
				continue
			}
			if row, ok := byID[*side]; ok {
				row.Played++
			}
		}
		winner, ok := matchWinner(m)
		if !ok {
			continue
		}
		// Teams rejected or removed since the match keep no credit.
		if row, ok := byID[winner]; ok {
			row.Wins++
		}
	}

	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if c := col.CompareString(rows[i].Name, rows[j].Name); c != 0 {
			return c < 0
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	rank := 0
	for i := range rows {
		if i == 0 || rows[i].Wins != rows[i-1].Wins {
			rank++
		}
		rows[i].Rank = rank
	}
	return rows, nil
}

// matchWinner resolves the winning team id of a decided match.
// A stored WinnerTeamID is authoritative. Rows recorded before the outcome
// was decoded at write time fall back to the raw result string; those score
// only when exactly one side matches it.
func matchWinner(m models.Match) (string, bool) {
	if m.IsDraw {
		return "", false
	}
	if m.WinnerTeamID != nil {
		return *m.WinnerTeamID, true
	}
	if m.Result == nil {
		return "", false
	}
	team1 := m.Team1ID != nil && (*m.Result == *m.Team1ID || *m.Result == models.ResultTeam1Won)
	team2 := m.Team2ID != nil && (*m.Result == *m.Team2ID || *m.Result == models.ResultTeam2Won)
	switch {
	case team1 && !team2:
		return *m.Team1ID, true
	case team2 && !team1:
		return *m.Team2ID, true
	}
	return "", false
}

// GetLeaderboard serves GET /leaderboard/:categoryId
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	rows, err := s.Leaderboard(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
