package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

func TestDeleteSubtreeEvent(t *testing.T) {
	db := newTestDB(t)
	tr := seedTree(t, db)
	svc := NewCascadeService(db)
	s := newSeed(t, db)

	summary, err := svc.DeleteSubtree(context.Background(), models.KindEvent, tr.events[0].ID)
	require.NoError(t, err)

	assert.True(t, summary.RootDeleted)
	assert.EqualValues(t, 1, summary.Games)
	assert.EqualValues(t, 1, summary.Categories)
	assert.EqualValues(t, 2, summary.Teams)
	assert.EqualValues(t, 3, summary.TeamMembers)
	assert.EqualValues(t, 1, summary.Matches)
	assert.EqualValues(t, 0, summary.Events)
	assert.EqualValues(t, 9, summary.Total())
	assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers, LevelTeams, LevelCategories, LevelGames, LevelRoot}, summary.Completed)

	// the sibling event is untouched
	assert.EqualValues(t, 1, s.count(&models.Event{}))
	assert.EqualValues(t, 1, s.count(&models.Game{}))
	assert.EqualValues(t, 2, s.count(&models.Team{}))
	assert.EqualValues(t, 1, s.count(&models.Match{}))
	assert.EqualValues(t, 1, s.count(&models.Association{}))
}

func TestDeleteSubtreeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	tr := seedTree(t, db)
	svc := NewCascadeService(db)

	_, err := svc.DeleteSubtree(context.Background(), models.KindAssociation, tr.association.ID)
	require.NoError(t, err)

	again, err := svc.DeleteSubtree(context.Background(), models.KindAssociation, tr.association.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, again.Total())
	assert.False(t, again.RootDeleted)
}

func TestDeleteSubtreeLeavesNoOrphans(t *testing.T) {
	db := newTestDB(t)
	tr := seedTree(t, db)
	svc := NewCascadeService(db)
	s := newSeed(t, db)

	summary, err := svc.DeleteSubtree(context.Background(), models.KindAssociation, tr.association.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Events)
	assert.EqualValues(t, 4, summary.Teams)

	for _, m := range []interface{}{&models.Association{}, &models.Event{}, &models.Game{}, &models.Category{}, &models.Team{}, &models.TeamMember{}, &models.Match{}} {
		assert.Zero(t, s.count(m))
	}
	report, err := NewIntegrityService(db).FindOrphans(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Total())

	// users are not part of the ownership tree
	assert.EqualValues(t, 3, s.count(&models.User{}))
}

func TestDeleteSubtreeCategoryRoot(t *testing.T) {
	db := newTestDB(t)
	tr := seedTree(t, db)
	s := newSeed(t, db)

	summary, err := NewCascadeService(db).DeleteSubtree(context.Background(), models.KindCategory, tr.categories[1].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Categories)
	assert.True(t, summary.RootDeleted)
	assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers, LevelTeams, LevelRoot}, summary.Completed)

	assert.EqualValues(t, 2, s.count(&models.Game{}))
	assert.EqualValues(t, 1, s.count(&models.Category{}))
}

func TestDeleteSubtreeGameRoot(t *testing.T) {
	t.Run("populated game", func(t *testing.T) {
		db := newTestDB(t)
		tr := seedTree(t, db)
		s := newSeed(t, db)

		summary, err := NewCascadeService(db).DeleteSubtree(context.Background(), models.KindGame, tr.games[0].ID)
		require.NoError(t, err)
		assert.True(t, summary.RootDeleted)
		assert.Equal(t, StageDone, summary.Stage)
		assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers, LevelTeams, LevelCategories, LevelRoot}, summary.Completed)
		assert.Empty(t, summary.Skipped)
		assert.EqualValues(t, 1, summary.Categories)
		assert.EqualValues(t, 2, summary.Teams)
		assert.EqualValues(t, 3, summary.TeamMembers)
		assert.EqualValues(t, 1, summary.Matches)
		assert.Zero(t, summary.Games)
		assert.EqualValues(t, 8, summary.Total())

		// the sibling game and both events survive
		assert.EqualValues(t, 2, s.count(&models.Event{}))
		assert.EqualValues(t, 1, s.count(&models.Game{}))
		assert.EqualValues(t, 1, s.count(&models.Category{}))
		assert.EqualValues(t, 2, s.count(&models.Team{}))
		assert.EqualValues(t, 1, s.count(&models.Match{}))
		var left models.Game
		require.NoError(t, db.First(&left).Error)
		assert.Equal(t, tr.games[1].ID, left.ID)
	})

	t.Run("game without categories", func(t *testing.T) {
		db := newTestDB(t)
		s := newSeed(t, db)
		dev := s.user(models.RoleDeveloper, "dev@example.com")
		admin := s.user(models.RoleAdmin, "admin@example.com")
		e := s.event(s.association(dev, "council"), admin, "fest")
		g := s.game(e, "chess")

		summary, err := NewCascadeService(db).DeleteSubtree(context.Background(), models.KindGame, g.ID)
		require.NoError(t, err)
		assert.True(t, summary.RootDeleted)
		assert.Equal(t, []DeletionLevel{LevelRoot}, summary.Completed)
		assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers, LevelTeams, LevelCategories}, summary.Skipped)
		assert.EqualValues(t, 1, summary.Total())
		assert.Zero(t, s.count(&models.Game{}))
		assert.EqualValues(t, 1, s.count(&models.Event{}))
	})
}

func TestDeleteSubtreeChunksLargeIDSets(t *testing.T) {
	prev := idChunkSize
	idChunkSize = 1
	t.Cleanup(func() { idChunkSize = prev })

	db := newTestDB(t)
	tr := seedTree(t, db)
	s := newSeed(t, db)

	summary, err := NewCascadeService(db).DeleteSubtree(context.Background(), models.KindAssociation, tr.association.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Events)
	assert.EqualValues(t, 2, summary.Games)
	assert.EqualValues(t, 2, summary.Categories)
	assert.EqualValues(t, 4, summary.Teams)
	assert.EqualValues(t, 6, summary.TeamMembers)
	assert.EqualValues(t, 2, summary.Matches)
	assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers, LevelTeams, LevelCategories, LevelGames, LevelEvents, LevelRoot}, summary.Completed)

	for _, m := range []interface{}{&models.Event{}, &models.Game{}, &models.Category{}, &models.Team{}, &models.TeamMember{}, &models.Match{}} {
		assert.Zero(t, s.count(m))
	}
}

func TestChunkIDs(t *testing.T) {
	prev := idChunkSize
	idChunkSize = 2
	t.Cleanup(func() { idChunkSize = prev })

	assert.Empty(t, chunkIDs(nil))
	assert.Equal(t, [][]string{{"a", "b"}}, chunkIDs([]string{"a", "b"}))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunkIDs([]string{"a", "b", "c"}))
}

func TestDeleteSubtreeSkipsEmptyLevels(t *testing.T) {
	db := newTestDB(t)
	s := newSeed(t, db)
	dev := s.user(models.RoleDeveloper, "dev@example.com")
	admin := s.user(models.RoleAdmin, "admin@example.com")
	e := s.event(s.association(dev, "council"), admin, "empty")

	summary, err := NewCascadeService(db).DeleteSubtree(context.Background(), models.KindEvent, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []DeletionLevel{LevelRoot}, summary.Completed)
	assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers, LevelTeams, LevelCategories, LevelGames}, summary.Skipped)
	assert.EqualValues(t, 1, summary.Total())
}

func TestDeleteSubtreeRejectsLeafKinds(t *testing.T) {
	db := newTestDB(t)
	svc := NewCascadeService(db)

	for _, kind := range []models.EntityKind{models.KindTeam, models.KindMatch, "venue"} {
		_, err := svc.DeleteSubtree(context.Background(), kind, "x")
		assert.ErrorIs(t, err, ErrValidation, kind)
	}
	_, err := svc.DeleteSubtree(context.Background(), models.KindEvent, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteSubtreePartialFailureAndRetry(t *testing.T) {
	db := newTestDB(t)
	tr := seedTree(t, db)
	s := newSeed(t, db)

	var failTeams atomic.Bool
	failTeams.Store(true)
	err := db.Callback().Delete().Before("gorm:delete").Register("test:fail_teams", func(tx *gorm.DB) {
		if failTeams.Load() && tx.Statement.Table == "teams" {
			_ = tx.AddError(errors.New("injected failure"))
		}
	})
	require.NoError(t, err)

	svc := NewCascadeService(db)
	summary, err := svc.DeleteSubtree(context.Background(), models.KindEvent, tr.events[0].ID)
	require.ErrorIs(t, err, ErrPartialDeletion)

	var pd *PartialDeletionError
	require.True(t, errors.As(err, &pd))
	assert.Equal(t, LevelTeams, pd.FailedLevel)
	assert.Equal(t, StagePartialFailure, pd.Summary.Stage)
	assert.Contains(t, err.Error(), string(StagePartialFailure))
	assert.Equal(t, []DeletionLevel{LevelMatches, LevelTeamMembers}, pd.Summary.Completed)
	assert.EqualValues(t, 1, summary.Matches)
	assert.EqualValues(t, 3, summary.TeamMembers)
	assert.False(t, summary.RootDeleted)

	// levels below the failure are already gone, the rest is intact
	assert.EqualValues(t, 1, s.count(&models.Match{}))
	assert.EqualValues(t, 4, s.count(&models.Team{}))
	assert.EqualValues(t, 2, s.count(&models.Event{}))

	failTeams.Store(false)
	retry, err := svc.DeleteSubtree(context.Background(), models.KindEvent, tr.events[0].ID)
	require.NoError(t, err)
	assert.True(t, retry.RootDeleted)
	assert.Equal(t, StageDone, retry.Stage)
	assert.EqualValues(t, 2, retry.Teams)
	assert.Zero(t, retry.Matches)
	assert.Zero(t, retry.TeamMembers)
	assert.EqualValues(t, 2, s.count(&models.Team{}))
}
