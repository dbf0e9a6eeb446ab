package models

// EntityKind names a level of the ownership hierarchy.
type EntityKind string

const (
	KindAssociation EntityKind = "association"
	KindEvent       EntityKind = "event"
	KindGame        EntityKind = "game"
	KindCategory    EntityKind = "category"
	KindTeam        EntityKind = "team"
	KindTeamMember  EntityKind = "team_member"
	KindMatch       EntityKind = "match"
)

// All returns every persisted model, in parent-before-child order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Association{},
		&Event{},
		&Game{},
		&Category{},
		&Team{},
		&TeamMember{},
		&Match{},
	}
}
