package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sports-event-platform/models"
)

// newTestDB opens a private in-memory sqlite database with every model migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type seed struct {
	t  *testing.T
	db *gorm.DB
}

func newSeed(t *testing.T, db *gorm.DB) seed {
	return seed{t: t, db: db}
}

func (s seed) create(v interface{}) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(v).Error)
}

func (s seed) user(role models.Role, email string) models.User {
	u := models.User{Email: email, PasswordHash: "x", Name: email, Role: role}
	s.create(&u)
	return u
}

func (s seed) association(creator models.User, name string) models.Association {
	a := models.Association{Name: name, Slug: name, CreatedByID: creator.ID}
	s.create(&a)
	return a
}

func (s seed) event(a models.Association, admin models.User, name string) models.Event {
	e := models.Event{
		AssociationID: a.ID,
		Name:          name,
		StartDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		AdminID:       admin.ID,
	}
	s.create(&e)
	return e
}

func (s seed) game(e models.Event, name string) models.Game {
	g := models.Game{EventID: e.ID, Name: name}
	s.create(&g)
	return g
}

func (s seed) category(g models.Game, incharge models.User, name string, fee float64) models.Category {
	c := models.Category{GameID: g.ID, Name: name, EntryFee: fee, InchargeID: incharge.ID}
	s.create(&c)
	return c
}

func (s seed) team(c models.Category, name string, status models.TeamStatus, members ...string) models.Team {
	tm := models.Team{CategoryID: c.ID, Name: name, CaptainName: name + " captain", Status: status}
	for _, m := range members {
		tm.Members = append(tm.Members, models.TeamMember{Name: m})
	}
	s.create(&tm)
	return tm
}

// match stores a fixture between a and b. winner, when non-nil, is stored as
// the decided outcome.
func (s seed) match(c models.Category, a, b models.Team, winner *models.Team) models.Match {
	m := models.Match{CategoryID: c.ID, Team1ID: &a.ID, Team2ID: &b.ID, ScheduledTime: time.Now().UTC()}
	if winner != nil {
		m.WinnerTeamID = &winner.ID
		m.Result = &winner.ID
	}
	s.create(&m)
	return m
}

func (s seed) count(model interface{}) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Model(model).Count(&n).Error)
	return n
}

// tree is a two-event association with a populated subtree under each event.
type tree struct {
	dev, admin, incharge models.User
	association          models.Association
	events               []models.Event
	games                []models.Game
	categories           []models.Category
	teams                []models.Team
	matches              []models.Match
}

func seedTree(t *testing.T, db *gorm.DB) tree {
	s := newSeed(t, db)
	var tr tree
	tr.dev = s.user(models.RoleDeveloper, "dev@example.com")
	tr.admin = s.user(models.RoleAdmin, "admin@example.com")
	tr.incharge = s.user(models.RoleIncharge, "incharge@example.com")
	tr.association = s.association(tr.dev, "sports-council")

	for _, en := range []string{"spring", "autumn"} {
		e := s.event(tr.association, tr.admin, en)
		tr.events = append(tr.events, e)
		g := s.game(e, en+"-cricket")
		tr.games = append(tr.games, g)
		c := s.category(g, tr.incharge, en+"-u19", 100)
		tr.categories = append(tr.categories, c)
		a := s.team(c, en+"-a", models.TeamStatusApproved, "p1", "p2")
		b := s.team(c, en+"-b", models.TeamStatusPending, "p3")
		tr.teams = append(tr.teams, a, b)
		tr.matches = append(tr.matches, s.match(c, a, b, &a))
	}
	return tr
}
