package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message belongs to exactly one of: a channel, or a direct conversation
// (IsDirectMessage + RecipientID).
type Message struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Content string `gorm:"type:text;not null" json:"content"`

	ChannelID *string  `gorm:"index;type:text" json:"channelId,omitempty"`
	Channel   *Channel `gorm:"foreignKey:ChannelID" json:"-"`

	AuthorID string `gorm:"index;type:text;not null" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`

	IsDirectMessage bool    `gorm:"default:false" json:"isDirectMessage"`
	RecipientID     *string `gorm:"index;type:text" json:"recipientId,omitempty"`

	ReplyToID *string  `gorm:"index;type:text" json:"replyTo,omitempty"`
	ReplyTo   *Message `gorm:"-" json:"-"`

	// Either a blob-store key set after a presigned upload, or a literal URL
	ImageStorageKey *string `gorm:"type:text" json:"imageStorageKey,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// Reaction is a toggled emoji annotation, unique per (message, user, emoji)
type Reaction struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	MessageID string  `gorm:"uniqueIndex:idx_message_user_emoji;type:text;not null" json:"messageId"`
	Message   Message `gorm:"foreignKey:MessageID" json:"-"`

	UserID string `gorm:"uniqueIndex:idx_message_user_emoji;type:text;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	Emoji string `gorm:"uniqueIndex:idx_message_user_emoji;type:text;not null" json:"emoji"`
}

func (Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// ReactionGroup is the per-emoji aggregate attached to enriched messages
type ReactionGroup struct {
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// GroupReactions aggregates reaction rows into an emoji-keyed map
func GroupReactions(reactions []Reaction) map[string]*ReactionGroup {
	groups := make(map[string]*ReactionGroup)
	for _, r := range reactions {
		g, ok := groups[r.Emoji]
		if !ok {
			g = &ReactionGroup{Users: []string{}}
			groups[r.Emoji] = g
		}
		g.Count++
		g.Users = append(g.Users, r.UserID)
	}
	return groups
}
