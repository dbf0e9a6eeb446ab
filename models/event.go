package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a tournament instance with a date range and venue,
// owned by one Association and managed by one ADMIN user.
type Event struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	AssociationID string    `json:"association_id" gorm:"size:36;not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"index"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Venue         string    `json:"venue"`
	AdminID       string    `json:"admin_id" gorm:"size:36;not null;index"`

	Timestamps

	// Relationships
	Association *Association `json:"association,omitempty" gorm:"foreignKey:AssociationID"`
	Admin       *User        `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Games       []Game       `json:"games,omitempty" gorm:"foreignKey:EventID"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
