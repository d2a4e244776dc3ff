// Package models contains data models for the blog service.
package models

import "time"

// RoleAuthor is the role every verified signup receives.
const RoleAuthor = "Author"

// User account statuses.
const (
	UserStatusPending = "Pending"
	UserStatusActive  = "Active"
)

// User represents a registered author.
type User struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	FullName      string    `json:"fullName" gorm:"column:full_name;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string    `json:"-" gorm:"column:password;not null"`
	Role          string    `json:"role" gorm:"size:32;not null;default:Author"`
	EmailVerified bool      `json:"emailVerified" gorm:"not null;default:false"`
	Status        string    `json:"status" gorm:"size:16;not null;default:Pending"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the user may log in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
