package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Result sentinels accepted when an outcome is recorded.
const (
	ResultTeam1Won = "Team1 Won"
	ResultTeam2Won = "Team2 Won"
	ResultDraw     = "DRAW"
)

// Match is a fixture between two Teams of the same Category.
// It hangs off the Category, not the Teams, so it survives approval changes.
//
// The outcome is stored as a tagged variant (WinnerTeamID / IsDraw) decided
// when the result is recorded. Result keeps the raw value as submitted.
type Match struct {
	ID            string         `json:"id" gorm:"primaryKey;size:36"`
	CategoryID    string         `json:"category_id" gorm:"size:36;not null;index"`
	Team1ID       *string        `json:"team1_id,omitempty" gorm:"size:36;index"`
	Team2ID       *string        `json:"team2_id,omitempty" gorm:"size:36;index"`
	ScheduledTime time.Time      `json:"scheduled_time"`
	Result        *string        `json:"result,omitempty"`
	WinnerTeamID  *string        `json:"winner_team_id,omitempty" gorm:"size:36"`
	IsDraw        bool           `json:"is_draw" gorm:"default:false"`
	ScoreData     datatypes.JSON `json:"score_data,omitempty"`

	Timestamps

	// Relationships
	Team1 *Team `json:"team1,omitempty" gorm:"foreignKey:Team1ID"`
	Team2 *Team `json:"team2,omitempty" gorm:"foreignKey:Team2ID"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// Decided reports whether the match has a recorded outcome.
func (m Match) Decided() bool {
	return m.Result != nil || m.WinnerTeamID != nil || m.IsDraw
}
