package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoiceSession tracks the active voice room of a channel
type VoiceSession struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ChannelID string  `gorm:"uniqueIndex;type:text;not null" json:"channelId"`
	Channel   Channel `gorm:"foreignKey:ChannelID" json:"-"`

	IsActive bool `gorm:"default:false" json:"isActive"`
}

func (VoiceSession) TableName() string {
	return "voice_sessions"
}

func (vs *VoiceSession) BeforeCreate(tx *gorm.DB) (err error) {
	if vs.ID == "" {
		vs.ID = uuid.New().String()
	}
	return
}

// VoiceParticipant is one user currently in a channel's voice session
type VoiceParticipant struct {
	ID string `gorm:"primaryKey;type:text" json:"id"`

	SessionID string       `gorm:"uniqueIndex:idx_session_user;type:text;not null" json:"sessionId"`
	Session   VoiceSession `gorm:"foreignKey:SessionID" json:"-"`

	UserID string `gorm:"uniqueIndex:idx_session_user;type:text;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	JoinedAt time.Time `json:"joinedAt"`
}

func (VoiceParticipant) TableName() string {
	return "voice_participants"
}

func (vp *VoiceParticipant) BeforeCreate(tx *gorm.DB) (err error) {
	if vp.ID == "" {
		vp.ID = uuid.New().String()
	}
	if vp.JoinedAt.IsZero() {
		vp.JoinedAt = time.Now()
	}
	return
}
