package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports-event-platform/models"
)

func TestFindOrphans(t *testing.T) {
	db := newTestDB(t)
	tr := seedTree(t, db)
	svc := NewIntegrityService(db)
	ctx := context.Background()

	clean, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, clean.Total())

	// Simulate a bypassed cascade: remove parents underneath their children.
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("DELETE FROM categories WHERE id = ?", tr.categories[0].ID).Error)
	require.NoError(t, db.Exec("DELETE FROM teams WHERE id = ?", tr.teams[3].ID).Error)

	report, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, report.Teams)
	assert.EqualValues(t, 1, report.Matches)
	assert.EqualValues(t, 1, report.TeamMembers)
	assert.EqualValues(t, 1, report.DanglingMatchTeams)
	assert.EqualValues(t, 5, report.Total())
	assert.Zero(t, report.Events)

	var stillThere int64
	require.NoError(t, db.Model(&models.Team{}).Where("category_id = ?", tr.categories[0].ID).Count(&stillThere).Error)
	assert.EqualValues(t, 2, stillThere)
}
