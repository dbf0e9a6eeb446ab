package models

import "gorm.io/gorm"

// Category is a priced competition bracket within a Game, run by one INCHARGE user.
type Category struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	GameID     string  `json:"game_id" gorm:"size:36;not null;index"`
	Name       string  `json:"name" gorm:"not null"`
	EntryFee   float64 `json:"entry_fee" gorm:"not null;default:0"`
	InchargeID string  `json:"incharge_id" gorm:"size:36;not null;index"`

	Timestamps

	// Relationships
	Incharge *User   `json:"incharge,omitempty" gorm:"foreignKey:InchargeID"`
	Teams    []Team  `json:"teams,omitempty" gorm:"foreignKey:CategoryID"`
	Matches  []Match `json:"matches,omitempty" gorm:"foreignKey:CategoryID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
