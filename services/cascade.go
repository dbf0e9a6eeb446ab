package services

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

// DeletionLevel names one step of the delete-up phase.
type DeletionLevel string

const (
	LevelMatches     DeletionLevel = "matches"
	LevelTeamMembers DeletionLevel = "team_members"
	LevelTeams       DeletionLevel = "teams"
	LevelCategories  DeletionLevel = "categories"
	LevelGames       DeletionLevel = "games"
	LevelEvents      DeletionLevel = "events"
	LevelRoot        DeletionLevel = "root"
)

// DeletionSummary counts the rows removed at each level below the root.
// On a partial failure it describes exactly the levels that completed.
type DeletionSummary struct {
	RootKind    models.EntityKind `json:"root_kind"`
	RootID      string            `json:"root_id"`
	Events      int64             `json:"events"`
	Games       int64             `json:"games"`
	Categories  int64             `json:"categories"`
	Teams       int64             `json:"teams"`
	TeamMembers int64             `json:"team_members"`
	Matches     int64             `json:"matches"`
	RootDeleted bool              `json:"root_deleted"`
	Stage       CascadeStage      `json:"stage"`
	Completed   []DeletionLevel   `json:"completed"`
	Skipped     []DeletionLevel   `json:"skipped"`
}

// Total is the number of rows removed, root included.
func (s DeletionSummary) Total() int64 {
	n := s.Events + s.Games + s.Categories + s.Teams + s.TeamMembers + s.Matches
	if s.RootDeleted {
		n++
	}
	return n
}

// add counts rows removed at a level; a chunked level calls it once per chunk.
func (s *DeletionSummary) add(level DeletionLevel, rows int64) {
	switch level {
	case LevelMatches:
		s.Matches += rows
	case LevelTeamMembers:
		s.TeamMembers += rows
	case LevelTeams:
		s.Teams += rows
	case LevelCategories:
		s.Categories += rows
	case LevelGames:
		s.Games += rows
	case LevelEvents:
		s.Events += rows
	case LevelRoot:
		s.RootDeleted = s.RootDeleted || rows > 0
	}
}

// PartialDeletionError reports a cascade that stopped after removing some
// levels. Every level below FailedLevel is empty; retrying the same root is safe.
type PartialDeletionError struct {
	Summary     DeletionSummary
	FailedLevel DeletionLevel
	Err         error
}

func (e *PartialDeletionError) Error() string {
	return fmt.Sprintf("cascade delete of %s %s stopped at %s (%s): %v",
		e.Summary.RootKind, e.Summary.RootID, e.FailedLevel, e.Summary.Stage, e.Err)
}

func (e *PartialDeletionError) Unwrap() error { return e.Err }

func (e *PartialDeletionError) Is(target error) bool { return target == ErrPartialDeletion }

// CascadeStage is where a cascade run stands. A summary returned with
// StagePartialFailure can be retried; StageCapturing means nothing was deleted.
type CascadeStage string

const (
	StageCapturing      CascadeStage = "capturing_ids"
	StageDeleting       CascadeStage = "deleting"
	StageDone           CascadeStage = "done"
	StagePartialFailure CascadeStage = "partial_failure"
)

// idChunkSize bounds every IN list, keeping large subtrees under the
// driver's bind-parameter limit.
var idChunkSize = 1000

func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > idChunkSize {
		chunks = append(chunks, ids[:idChunkSize])
		ids = ids[idChunkSize:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// subtreeSnapshot holds the id sets captured on the way down, the root
// included at its own level. They are taken before anything is deleted,
// since removing a parent level would lose the lookup for the next one.
type subtreeSnapshot struct {
	events     []string
	games      []string
	categories []string
	teams      []string
}

type deleteStep struct {
	level DeletionLevel
	ids   []string // driving id set; the step is skipped when empty
	exec  func(db *gorm.DB, ids []string) *gorm.DB
}

type cascadeRun struct {
	summary DeletionSummary
	steps   []deleteStep
	next    int
}

// advance executes the remaining steps in order, stopping at the first failure.
// Rows already removed by earlier chunks of the failing level stay counted.
func (r *cascadeRun) advance(db *gorm.DB) error {
	r.summary.Stage = StageDeleting
	for r.next < len(r.steps) {
		step := r.steps[r.next]
		if len(step.ids) == 0 {
			r.summary.Skipped = append(r.summary.Skipped, step.level)
			r.next++
			continue
		}
		for _, chunk := range chunkIDs(step.ids) {
			res := step.exec(db, chunk)
			if res.Error != nil {
				r.summary.Stage = StagePartialFailure
				return &PartialDeletionError{Summary: r.summary, FailedLevel: step.level, Err: res.Error}
			}
			r.summary.add(step.level, res.RowsAffected)
		}
		r.summary.Completed = append(r.summary.Completed, step.level)
		r.next++
	}
	r.summary.Stage = StageDone
	return nil
}

type CascadeService struct {
	DB *gorm.DB
}

func NewCascadeService(db *gorm.DB) *CascadeService {
	return &CascadeService{DB: db}
}

// depth of each deletable root in the ownership chain.
func kindDepth(kind models.EntityKind) int {
	switch kind {
	case models.KindAssociation:
		return 0
	case models.KindEvent:
		return 1
	case models.KindGame:
		return 2
	case models.KindCategory:
		return 3
	}
	return -1
}

func rootModel(kind models.EntityKind) interface{} {
	switch kind {
	case models.KindAssociation:
		return &models.Association{}
	case models.KindEvent:
		return &models.Event{}
	case models.KindGame:
		return &models.Game{}
	case models.KindCategory:
		return &models.Category{}
	}
	return nil
}

// DeleteSubtree removes the root record and every descendant below it.
//
// Ids are captured top-down first, then levels are deleted bottom-up:
// matches, team members, teams, categories, games, events, and the root last.
// A level with no ids is skipped without touching the store.
func (s *CascadeService) DeleteSubtree(ctx context.Context, kind models.EntityKind, id string) (DeletionSummary, error) {
	run := &cascadeRun{summary: DeletionSummary{RootKind: kind, RootID: id, Stage: StageCapturing}}
	if kindDepth(kind) < 0 {
		return run.summary, invalid("kind", "cannot cascade-delete a "+string(kind))
	}
	if id == "" {
		return run.summary, invalid("id", "is required")
	}
	db := s.DB.WithContext(ctx)

	var exists int64
	if err := db.Model(rootModel(kind)).Where("id = ?", id).Count(&exists).Error; err != nil {
		return run.summary, err
	}
	if exists == 0 {
		return run.summary, notFound(string(kind), id)
	}

	snap, err := s.capture(db, kind, id)
	if err != nil {
		return run.summary, fmt.Errorf("capturing %s %s subtree: %w", kind, id, err)
	}
	run.steps = planSteps(kind, id, snap)

	if err := run.advance(db); err != nil {
		return run.summary, err
	}
	if !run.summary.RootDeleted {
		// Removed by someone else between the existence check and now.
		return run.summary, notFound(string(kind), id)
	}

	zap.L().Info("[CASCADE] subtree deleted",
		zap.String("root_kind", string(kind)),
		zap.String("root_id", id),
		zap.Int64("events", run.summary.Events),
		zap.Int64("games", run.summary.Games),
		zap.Int64("categories", run.summary.Categories),
		zap.Int64("teams", run.summary.Teams),
		zap.Int64("team_members", run.summary.TeamMembers),
		zap.Int64("matches", run.summary.Matches),
	)
	return run.summary, nil
}

func (s *CascadeService) capture(db *gorm.DB, kind models.EntityKind, id string) (subtreeSnapshot, error) {
	var snap subtreeSnapshot
	depth := kindDepth(kind)
	ids := []string{id}
	var err error

	if depth == 0 {
		if ids, err = childIDs(db, &models.Event{}, "association_id", ids); err != nil {
			return snap, err
		}
	}
	if depth <= 1 {
		snap.events = ids
		if ids, err = childIDs(db, &models.Game{}, "event_id", ids); err != nil {
			return snap, err
		}
	}
	if depth <= 2 {
		snap.games = ids
		if ids, err = childIDs(db, &models.Category{}, "game_id", ids); err != nil {
			return snap, err
		}
	}
	snap.categories = ids
	if snap.teams, err = childIDs(db, &models.Team{}, "category_id", ids); err != nil {
		return snap, err
	}
	return snap, nil
}

// childIDs lists the ids of model rows whose parentColumn is in parents.
func childIDs(db *gorm.DB, model interface{}, parentColumn string, parents []string) ([]string, error) {
	var ids []string
	for _, chunk := range chunkIDs(parents) {
		var part []string
		err := db.Model(model).Where(parentColumn+" IN ?", chunk).Order("id").Pluck("id", &part).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, part...)
	}
	return ids, nil
}

func planSteps(kind models.EntityKind, id string, snap subtreeSnapshot) []deleteStep {
	depth := kindDepth(kind)
	steps := []deleteStep{
		{LevelMatches, snap.categories, func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Where("category_id IN ?", ids).Delete(&models.Match{})
		}},
		{LevelTeamMembers, snap.teams, func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Where("team_id IN ?", ids).Delete(&models.TeamMember{})
		}},
		{LevelTeams, snap.teams, func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Where("id IN ?", ids).Delete(&models.Team{})
		}},
	}
	if depth < 3 {
		steps = append(steps, deleteStep{LevelCategories, snap.categories, func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Where("id IN ?", ids).Delete(&models.Category{})
		}})
	}
	if depth < 2 {
		steps = append(steps, deleteStep{LevelGames, snap.games, func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Where("id IN ?", ids).Delete(&models.Game{})
		}})
	}
	if depth < 1 {
		steps = append(steps, deleteStep{LevelEvents, snap.events, func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Where("id IN ?", ids).Delete(&models.Event{})
		}})
	}
	return append(steps, deleteStep{LevelRoot, []string{id}, func(db *gorm.DB, ids []string) *gorm.DB {
		return db.Where("id IN ?", ids).Delete(rootModel(kind))
	}})
}

// DeleteEndpoint serves DELETE /<kind>s/:id through the cascade.
func (s *CascadeService) DeleteEndpoint(kind models.EntityKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := s.DeleteSubtree(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": string(kind) + " deleted", "summary": summary})
	}
}
