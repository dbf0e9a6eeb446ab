package models

import "gorm.io/gorm"

type TeamStatus string

const (
	TeamStatusPending  TeamStatus = "PENDING"
	TeamStatusApproved TeamStatus = "APPROVED"
	TeamStatusRejected TeamStatus = "REJECTED"
)

// CanTransitionTo reports whether s → next is a legal approval step.
// Only PENDING teams move, and only to APPROVED or REJECTED.
func (s TeamStatus) CanTransitionTo(next TeamStatus) bool {
	return s == TeamStatusPending && (next == TeamStatusApproved || next == TeamStatusRejected)
}

// Team is a registrant group under a Category.
type Team struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	CategoryID  string     `json:"category_id" gorm:"size:36;not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	CaptainName string     `json:"captain_name"`
	Branch      string     `json:"branch"`
	Year        string     `json:"year"`
	Status      TeamStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`

	Timestamps

	Members []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.Status == "" {
		t.Status = TeamStatusPending
	}
	return nil
}

type TeamMember struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	TeamID string `json:"team_id" gorm:"size:36;not null;index"`
	Name   string `json:"name" gorm:"not null"`
	Branch string `json:"branch"`
	Year   string `json:"year"`

	Timestamps
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
