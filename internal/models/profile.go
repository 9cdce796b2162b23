package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PresenceStatus is a user-chosen availability indicator
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusAway    PresenceStatus = "away"
	StatusBusy    PresenceStatus = "busy"
	StatusOffline PresenceStatus = "offline"
)

func IsValidPresenceStatus(s PresenceStatus) bool {
	switch s {
	case StatusOnline, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// Profile holds the user-editable display identity. One per user, created
// lazily on first update; reads synthesize defaults without persisting them.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID string `gorm:"uniqueIndex;type:text;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  string         `json:"displayName"`
	Bio          string         `json:"bio"`
	AvatarURL    string         `json:"avatarUrl"`
	Status       PresenceStatus `gorm:"type:text;not null;default:'online'" json:"status"`
	CustomStatus string         `json:"customStatus"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = StatusOnline
	}
	return
}
