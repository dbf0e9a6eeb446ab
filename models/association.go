package models

import "gorm.io/gorm"

// Association is the top-level owner of Events (e.g. a sports council).
type Association struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"index"`
	CreatedByID string `json:"created_by_id" gorm:"size:36;index"`

	Timestamps

	// Relationships
	CreatedBy *User   `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	Events    []Event `json:"events,omitempty" gorm:"foreignKey:AssociationID"`
}

func (a *Association) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
