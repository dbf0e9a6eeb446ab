package models

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps adds GORM auto-times.
// Records are hard-deleted by the cascade engine, so there is no DeletedAt here.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
