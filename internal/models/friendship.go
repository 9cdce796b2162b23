package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendshipStatus is the state of the relation between two users
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship relates an unordered pair of users. The row is stored in the
// direction it was requested: UserID1 is the requester, UserID2 the
// recipient, and only UserID2 may accept or reject.
type Friendship struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID1 string `gorm:"uniqueIndex:idx_friend_pair;type:text;not null" json:"userId1"`
	User1   User   `gorm:"foreignKey:UserID1" json:"-"`

	UserID2 string `gorm:"uniqueIndex:idx_friend_pair;type:text;not null" json:"userId2"`
	User2   User   `gorm:"foreignKey:UserID2" json:"-"`

	Status FriendshipStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	RequestedBy string `gorm:"type:text;not null" json:"requestedBy"`
}

func (Friendship) TableName() string {
	return "friendships"
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}

// OtherUser returns the opposite side of the pair
func (f *Friendship) OtherUser(userID string) string {
	if f.UserID1 == userID {
		return f.UserID2
	}
	return f.UserID1
}
