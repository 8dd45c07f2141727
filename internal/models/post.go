package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a fundraising appeal published by a user
type Post struct {
	ID           uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	AuthorID     uuid.UUID      `gorm:"type:text;not null;index" json:"author_id"`
	Author       *User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Title        string         `gorm:"not null" json:"title"`
	Body         string         `gorm:"type:text" json:"body"`
	GoalAmount   int64          `gorm:"not null;default:0" json:"goal_amount"`
	RaisedAmount int64          `gorm:"not null;default:0" json:"raised_amount"`
	Currency     string         `gorm:"size:3;not null" json:"currency"`
	ImageID      string         `json:"image_id,omitempty"`
	ImageType    string         `json:"image_type,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Comment is a reply to a post
type Comment struct {
	ID        uuid.UUID `gorm:"type:text;primary_key" json:"id"`
	PostID    uuid.UUID `gorm:"type:text;not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uuid.UUID `gorm:"type:text;not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ReactionKind enumerates the reactions a user can leave on a post
type ReactionKind string

const (
	ReactionLike      ReactionKind = "like"
	ReactionLove      ReactionKind = "love"
	ReactionSupport   ReactionKind = "support"
	ReactionCelebrate ReactionKind = "celebrate"
)

// Reaction is one user's reaction to a post. A user holds at most one
// reaction per post.
type Reaction struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	PostID    uuid.UUID    `gorm:"type:text;not null;uniqueIndex:idx_reactions_post_user" json:"post_id"`
	Post      *Post        `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID    `gorm:"type:text;not null;uniqueIndex:idx_reactions_post_user" json:"user_id"`
	User      *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Kind      ReactionKind `gorm:"size:16;not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
