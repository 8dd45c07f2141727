package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow records that Follower follows Followee
type Follow struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FollowerID uuid.UUID `gorm:"type:text;not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	Follower   *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FolloweeID uuid.UUID `gorm:"type:text;not null;uniqueIndex:idx_follows_pair;index" json:"followee_id"`
	Followee   *User     `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Chat is a conversation between two or more users
type Chat struct {
	ID        uuid.UUID `gorm:"type:text;primary_key" json:"id"`
	Title     string    `json:"title"`
	CreatorID uuid.UUID `gorm:"type:text;not null" json:"creator_id"`
	Members   []User    `gorm:"many2many:chat_members;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Message is a single chat message
type Message struct {
	ID        uuid.UUID `gorm:"type:text;primary_key" json:"id"`
	ChatID    uuid.UUID `gorm:"type:text;not null;index" json:"chat_id"`
	Chat      *Chat     `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID  uuid.UUID `gorm:"type:text;not null" json:"sender_id"`
	Sender    *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate hook to generate UUID
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
