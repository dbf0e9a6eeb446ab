package models

import "gorm.io/gorm"

type Role string

const (
	RoleDeveloper Role = "DEVELOPER"
	RoleAdmin     Role = "ADMIN"
	RoleIncharge  Role = "INCHARGE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDeveloper, RoleAdmin, RoleIncharge:
		return true
	}
	return false
}

// User is an account bound to exactly one role.
// Email is globally unique; the unique index is the authoritative guard
// against two concurrent creations for the same address.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Name         string `json:"name"`
	Role         Role   `json:"role" gorm:"type:varchar(16);not null"`

	Timestamps
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserSummary is the public projection of a User embedded in listings.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Caller is the authenticated identity handed to the engine by the auth layer.
// It is trusted as-is; only scope filtering is derived from it.
type Caller struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// CallerLocalsKey is the fiber Locals key holding the request's Caller.
const CallerLocalsKey = "caller"
