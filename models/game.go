package models

import "gorm.io/gorm"

// Game is a sport grouping within an Event (e.g. "Cricket").
type Game struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	EventID string `json:"event_id" gorm:"size:36;not null;index"`
	Name    string `json:"name" gorm:"not null"`

	Timestamps

	Categories []Category `json:"categories,omitempty" gorm:"foreignKey:GameID"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}
