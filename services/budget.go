package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

var ErrExportDisabled = errors.New("report export is not configured")

// ReportUploader stores a generated report and returns its public URL.
type ReportUploader interface {
	UploadReport(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type CategoryBudget struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	EntryFee           float64 `json:"entry_fee"`
	InchargeEmail      string  `json:"incharge_email,omitempty"`
	ApprovedTeamsCount int64   `json:"approved_teams_count"`
	Revenue            float64 `json:"revenue"`
}

type GameBudget struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	TotalTeams int64            `json:"total_teams"`
	Revenue    float64          `json:"revenue"`
	Categories []CategoryBudget `json:"categories"`
}

type EventBudget struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	TotalTeams   int64        `json:"total_teams"`
	TotalRevenue float64      `json:"total_revenue"`
	Games        []GameBudget `json:"games"`
}

type BudgetService struct {
	DB       *gorm.DB
	Uploader ReportUploader
}

func NewBudgetService(db *gorm.DB, uploader ReportUploader) *BudgetService {
	return &BudgetService{DB: db, Uploader: uploader}
}

func orderByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

// BudgetForScope rolls approved-team counts and entry fees up through
// Event → Game → Category. ADMIN callers only see events they administer;
// the restriction is part of the query, so other events are never loaded.
// A non-empty eventIDs narrows the scope further.
func (s *BudgetService) BudgetForScope(ctx context.Context, caller models.Caller, eventIDs []string) ([]EventBudget, error) {
	db := s.DB.WithContext(ctx)

	q := db.Model(&models.Event{})
	switch caller.Role {
	case models.RoleDeveloper:
	case models.RoleAdmin:
		q = q.Where("admin_id = ?", caller.UserID)
	default:
		return nil, ErrForbidden
	}
	if len(eventIDs) > 0 {
		q = q.Where("id IN ?", eventIDs)
	}

	var events []models.Event
	err := orderByCreation(q).
		Preload("Games", orderByCreation).
		Preload("Games.Categories", orderByCreation).
		Preload("Games.Categories.Incharge").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	var categoryIDs []string
	for _, e := range events {
		for _, g := range e.Games {
			for _, c := range g.Categories {
				categoryIDs = append(categoryIDs, c.ID)
			}
		}
	}
	approved, err := approvedTeamCounts(db, categoryIDs)
	if err != nil {
		return nil, err
	}

	out := make([]EventBudget, 0, len(events))
	for _, e := range events {
		eb := EventBudget{ID: e.ID, Name: e.Name, Games: make([]GameBudget, 0, len(e.Games))}
		for _, g := range e.Games {
			gb := GameBudget{ID: g.ID, Name: g.Name, Categories: make([]CategoryBudget, 0, len(g.Categories))}
			for _, c := range g.Categories {
				n := approved[c.ID]
				cb := CategoryBudget{
					ID:                 c.ID,
					Name:               c.Name,
					EntryFee:           c.EntryFee,
					ApprovedTeamsCount: n,
					Revenue:            float64(n) * c.EntryFee,
				}
				if c.Incharge != nil {
					cb.InchargeEmail = c.Incharge.Email
				}
				gb.TotalTeams += n
				gb.Revenue += cb.Revenue
				gb.Categories = append(gb.Categories, cb)
			}
			eb.TotalTeams += gb.TotalTeams
			eb.TotalRevenue += gb.Revenue
			eb.Games = append(eb.Games, gb)
		}
		out = append(out, eb)
	}
	return out, nil
}

// approvedTeamCounts returns category id → number of APPROVED teams.
func approvedTeamCounts(db *gorm.DB, categoryIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CategoryID string
		N          int64
	}
	err := db.Model(&models.Team{}).
		Select("category_id, COUNT(*) AS n").
		Where("status = ? AND category_id IN ?", models.TeamStatusApproved, categoryIDs).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.CategoryID] = r.N
	}
	return counts, nil
}

var budgetCSVHeader = []string{
	"event_id", "event_name", "game_id", "game_name",
	"category_id", "category_name", "entry_fee", "incharge_email",
	"approved_teams", "revenue",
}

// BudgetCSV flattens a budget tree, one row per category. Games without
// categories and events without games still get a row with zero totals.
func BudgetCSV(budgets []EventBudget) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(budgetCSVHeader); err != nil {
		return nil, err
	}
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	count := func(n int64) string { return strconv.FormatInt(n, 10) }

	for _, e := range budgets {
		if len(e.Games) == 0 {
			if err := w.Write([]string{e.ID, e.Name, "", "", "", "", "", "", "0", money(0)}); err != nil {
				return nil, err
			}
			continue
		}
		for _, g := range e.Games {
			if len(g.Categories) == 0 {
				if err := w.Write([]string{e.ID, e.Name, g.ID, g.Name, "", "", "", "", "0", money(0)}); err != nil {
					return nil, err
				}
				continue
			}
			for _, c := range g.Categories {
				row := []string{
					e.ID, e.Name, g.ID, g.Name,
					c.ID, c.Name, money(c.EntryFee), c.InchargeEmail,
					count(c.ApprovedTeamsCount), money(c.Revenue),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportBudgetCSV computes the caller's budget and uploads it as CSV.
func (s *BudgetService) ExportBudgetCSV(ctx context.Context, caller models.Caller, eventIDs []string) (string, error) {
	if s.Uploader == nil {
		return "", ErrExportDisabled
	}
	budgets, err := s.BudgetForScope(ctx, caller, eventIDs)
	if err != nil {
		return "", err
	}
	body, err := BudgetCSV(budgets)
	if err != nil {
		return "", err
	}
	key := "reports/budget/" + time.Now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString() + ".csv"
	url, err := s.Uploader.UploadReport(ctx, key, "text/csv", body)
	if err != nil {
		return "", err
	}
	zap.L().Info("[BUDGET] report exported", zap.String("user_id", caller.UserID), zap.String("key", key))
	return url, nil
}

func eventFilterFrom(c *fiber.Ctx) []string {
	raw := c.Query("event_id")
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// GetBudgetDashboard serves GET /dashboard/budget?event_id=a,b
func (s *BudgetService) GetBudgetDashboard(c *fiber.Ctx) error {
	budgets, err := s.BudgetForScope(c.UserContext(), callerFrom(c), eventFilterFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(budgets)
}

func (s *BudgetService) ExportBudgetEndpoint(c *fiber.Ctx) error {
	url, err := s.ExportBudgetCSV(c.UserContext(), callerFrom(c), eventFilterFrom(c))
	if errors.Is(err, ErrExportDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
