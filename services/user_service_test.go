package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports-event-platform/models"
)

func TestSearchUsers(t *testing.T) {
	db := newTestDB(t)
	s := newSeed(t, db)
	s.user(models.RoleAdmin, "alice@example.com")
	s.user(models.RoleIncharge, "alvin@example.com")
	s.user(models.RoleIncharge, "bob@example.com")
	svc := NewUserService(db)
	ctx := context.Background()

	res, err := svc.Search(ctx, "AL", "", 0)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "alice@example.com", res[0].Email)

	res, err = svc.Search(ctx, "", models.RoleIncharge, 10)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = svc.Search(ctx, "al", models.RoleIncharge, 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "alvin@example.com", res[0].Email)

	_, err = svc.Search(ctx, "", models.Role("OWNER"), 10)
	assert.ErrorIs(t, err, ErrValidation)
}
