package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChannelRole is the member role inside a single channel
type ChannelRole string

const (
	RoleAdmin     ChannelRole = "admin"
	RoleModerator ChannelRole = "moderator"
	RoleMember    ChannelRole = "member"
)

type Channel struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `gorm:"default:false" json:"isPrivate"`

	CreatedBy string `gorm:"type:text;not null" json:"createdBy"`
	Creator   User   `gorm:"foreignKey:CreatedBy" json:"-"`

	// Unique across all channels; presented code grants membership
	InviteCode string `gorm:"uniqueIndex" json:"inviteCode,omitempty"`
}

func (Channel) TableName() string {
	return "channels"
}

func (ch *Channel) BeforeCreate(tx *gorm.DB) (err error) {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	return
}

// ChannelMember is both the membership proof and the authorization token for
// every channel-scoped read and write.
type ChannelMember struct {
	ID string `gorm:"primaryKey;type:text" json:"id"`

	ChannelID string  `gorm:"uniqueIndex:idx_channel_user;type:text;not null" json:"channelId"`
	Channel   Channel `gorm:"foreignKey:ChannelID" json:"-"`

	UserID string `gorm:"uniqueIndex:idx_channel_user;type:text;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	JoinedAt time.Time `json:"joinedAt"`

	// Written with an explicit default; legacy rows without a role read as member
	Role ChannelRole `gorm:"type:text;not null;default:'member'" json:"role"`
}

func (ChannelMember) TableName() string {
	return "channel_members"
}

func (cm *ChannelMember) BeforeCreate(tx *gorm.DB) (err error) {
	if cm.ID == "" {
		cm.ID = uuid.New().String()
	}
	if cm.Role == "" {
		cm.Role = RoleMember
	}
	if cm.JoinedAt.IsZero() {
		cm.JoinedAt = time.Now()
	}
	return
}

// EffectiveRole normalizes legacy rows that predate the role column
func (cm *ChannelMember) EffectiveRole() ChannelRole {
	if cm.Role == "" {
		return RoleMember
	}
	return cm.Role
}

// CanManageInvites reports whether the member may rotate the channel
// invite code
func (cm *ChannelMember) CanManageInvites() bool {
	r := cm.EffectiveRole()
	return r == RoleAdmin || r == RoleModerator
}
