package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

type MatchInput struct {
	CategoryID    string  `json:"category_id" validate:"required"`
	Team1ID       *string `json:"team1_id"`
	Team2ID       *string `json:"team2_id"`
	ScheduledTime string  `json:"scheduled_time" validate:"required"`
}

type MatchReschedule struct {
	Team1ID       *string `json:"team1_id"`
	Team2ID       *string `json:"team2_id"`
	ScheduledTime string  `json:"scheduled_time"`
}

type MatchResultInput struct {
	// A team id, "Team1 Won", "Team2 Won" or "DRAW".
	Result    string          `json:"result" validate:"required"`
	ScoreData json.RawMessage `json:"score_data"`
}

// checkTeams makes sure the given team ids belong to the category and differ.
func checkTeams(db *gorm.DB, categoryID string, team1, team2 *string) error {
	var ids []string
	for _, t := range []*string{team1, team2} {
		if t != nil && *t != "" {
			ids = append(ids, *t)
		}
	}
	if len(ids) == 2 && ids[0] == ids[1] {
		return invalid("team2_id", "a team cannot play itself")
	}
	if len(ids) == 0 {
		return nil
	}
	var n int64
	err := db.Model(&models.Team{}).Where("category_id = ? AND id IN ?", categoryID, ids).Count(&n).Error
	if err != nil {
		return err
	}
	if int(n) != len(ids) {
		return invalid("team_id", "teams must belong to the match category")
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func (s *MatchService) Schedule(ctx context.Context, in MatchInput) (*models.Match, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	when, err := time.Parse(time.RFC3339, in.ScheduledTime)
	if err != nil {
		return nil, invalid("scheduled_time", "use RFC3339")
	}
	db := s.DB.WithContext(ctx)
	var category models.Category
	if err := db.Select("id").First(&category, "id = ?", in.CategoryID).Error; err != nil {
		return nil, translateStoreError(err)
	}
	in.Team1ID, in.Team2ID = emptyToNil(in.Team1ID), emptyToNil(in.Team2ID)
	if err := checkTeams(db, in.CategoryID, in.Team1ID, in.Team2ID); err != nil {
		return nil, err
	}

	match := &models.Match{
		CategoryID:    in.CategoryID,
		Team1ID:       in.Team1ID,
		Team2ID:       in.Team2ID,
		ScheduledTime: when,
	}
	if err := db.Create(match).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return match, nil
}

// decodeResult turns a submitted result into (winner, draw).
// Exactly one side must be identified; anything else is rejected.
func decodeResult(m models.Match, result string) (*string, bool, error) {
	if result == models.ResultDraw {
		return nil, true, nil
	}
	team1 := m.Team1ID != nil && (result == *m.Team1ID || result == models.ResultTeam1Won)
	team2 := m.Team2ID != nil && (result == *m.Team2ID || result == models.ResultTeam2Won)
	switch {
	case team1 && !team2:
		return m.Team1ID, false, nil
	case team2 && !team1:
		return m.Team2ID, false, nil
	}
	return nil, false, invalid("result", "must name exactly one team of the match, or be DRAW")
}

// RecordResult decides the outcome once, at write time, and stores it as
// WinnerTeamID / IsDraw alongside the submitted value.
func (s *MatchService) RecordResult(ctx context.Context, id string, in MatchResultInput) (*models.Match, error) {
	in.Result = strings.TrimSpace(in.Result)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var match models.Match
	if err := db.First(&match, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	winner, draw, err := decodeResult(match, in.Result)
	if err != nil {
		return nil, err
	}
	if len(in.ScoreData) > 0 && !json.Valid(in.ScoreData) {
		return nil, invalid("score_data", "must be valid JSON")
	}

	match.Result = &in.Result
	match.WinnerTeamID = winner
	match.IsDraw = draw
	match.ScoreData = nil
	if len(in.ScoreData) > 0 && string(in.ScoreData) != "null" {
		match.ScoreData = datatypes.JSON(in.ScoreData)
	}
	err = db.Model(&match).Select("result", "winner_team_id", "is_draw", "score_data").Updates(&match).Error
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &match, nil
}

// Reschedule changes the teams and/or time of a match. Changing a team
// clears any recorded outcome, which no longer refers to the same fixture.
func (s *MatchService) Reschedule(ctx context.Context, id string, in MatchReschedule) (*models.Match, error) {
	db := s.DB.WithContext(ctx)
	var match models.Match
	if err := db.First(&match, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}

	teamsChanged := false
	if t := emptyToNil(in.Team1ID); t != nil {
		teamsChanged = teamsChanged || match.Team1ID == nil || *match.Team1ID != *t
		match.Team1ID = t
	}
	if t := emptyToNil(in.Team2ID); t != nil {
		teamsChanged = teamsChanged || match.Team2ID == nil || *match.Team2ID != *t
		match.Team2ID = t
	}
	if teamsChanged {
		if err := checkTeams(db, match.CategoryID, match.Team1ID, match.Team2ID); err != nil {
			return nil, err
		}
		match.Result, match.WinnerTeamID, match.IsDraw = nil, nil, false
	}
	if in.ScheduledTime != "" {
		when, err := time.Parse(time.RFC3339, in.ScheduledTime)
		if err != nil {
			return nil, invalid("scheduled_time", "use RFC3339")
		}
		match.ScheduledTime = when
	}

	err := db.Model(&match).
		Select("team1_id", "team2_id", "scheduled_time", "result", "winner_team_id", "is_draw").
		Updates(&match).Error
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &match, nil
}

// Delete removes one match. Matches are leaves, so no cascade is involved.
func (s *MatchService) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Match{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("match", id)
	}
	return nil
}

func (s *MatchService) List(ctx context.Context, categoryID string) ([]models.Match, error) {
	matches := []models.Match{}
	q := s.DB.WithContext(ctx).
		Preload("Team1").
		Preload("Team2").
		Order("scheduled_time ASC").Order("id ASC")
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&matches).Error
	return matches, err
}

func (s *MatchService) ScheduleMatch(c *fiber.Ctx) error {
	var req MatchInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	match, err := s.Schedule(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(match)
}

func (s *MatchService) UpdateMatchResult(c *fiber.Ctx) error {
	var req MatchResultInput
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	match, err := s.RecordResult(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(match)
}

func (s *MatchService) UpdateMatch(c *fiber.Ctx) error {
	var req MatchReschedule
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	match, err := s.Reschedule(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(match)
}

func (s *MatchService) DeleteMatch(c *fiber.Ctx) error {
	if err := s.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "match deleted"})
}

func (s *MatchService) GetMatches(c *fiber.Ctx) error {
	matches, err := s.List(c.UserContext(), c.Query("category_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(matches)
}
