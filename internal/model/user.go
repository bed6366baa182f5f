package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the coarse role of a user.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// Theme represents the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// TaskView represents the preferred task list rendering.
type TaskView string

const (
	TaskViewList     TaskView = "list"
	TaskViewBoard    TaskView = "board"
	TaskViewCalendar TaskView = "calendar"
)

// NotificationPrefs holds per-channel notification toggles.
type NotificationPrefs struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// Preferences holds user display and notification preferences.
type Preferences struct {
	Theme         Theme             `json:"theme"`
	Notifications NotificationPrefs `json:"notifications"`
	TaskView      TaskView          `json:"taskView"`
}

// DefaultPreferences returns the preferences assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: ThemeLight,
		Notifications: NotificationPrefs{
			Email: true,
			Push:  true,
		},
		TaskView: TaskViewBoard,
	}
}

// User represents a registered account. Email is unique, case-normalized.
type User struct {
	ID               uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Name             string      `json:"name" gorm:"size:255;not null"`
	Email            string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string      `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role             UserRole    `json:"role" gorm:"type:varchar(10);not null;default:'USER'"`
	Preferences      Preferences `json:"preferences" gorm:"serializer:json"`
	Avatar           string      `json:"avatar,omitempty" gorm:"size:512"`
	LastLogin        *time.Time  `json:"lastLogin,omitempty"`
	ResetToken       string      `json:"-" gorm:"size:255"`
	ResetTokenExpiry *time.Time  `json:"-"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
