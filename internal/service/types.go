package service

import (
	"io"

	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Mask permission.Mask
}

// Can reports whether the actor holds every capability in required.
func (a Actor) Can(required permission.Mask) bool {
	return permission.Has(a.Mask, required)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page selects a window of a listing. Pages are 1-based.
type Page struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// List is one page of a listing.
type List[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// paginate counts the rows matched by q and loads the requested page. find
// adds preloads and ordering to the page query only.
func paginate[T any](q *gorm.DB, page Page, find func(*gorm.DB) *gorm.DB) (*List[T], error) {
	page = page.normalize()
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0)
	if err := find(q).Offset((page.Page - 1) * page.PageSize).Limit(page.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}

	return &List[T]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

// Upload is a file received from a client.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// RegisterRequest holds parameters for creating an account.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"max=64"`
}

// UpdateProfileRequest holds the profile fields a user may change. Nil
// fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=64"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateRoleRequest assigns a role to a user.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,max=64"`
}

// RoleRequest creates or edits a role. Permissions are capability names.
type RoleRequest struct {
	Name        string   `json:"name" validate:"required,alphanum,max=64"`
	Description string   `json:"description" validate:"max=256"`
	Permissions []string `json:"permissions"`
}

// RoleView is a role with its capability names spelled out.
type RoleView struct {
	models.Role
	Capabilities []string `json:"capabilities"`
}

func roleView(r models.Role) RoleView {
	return RoleView{Role: r, Capabilities: r.Permissions.Names()}
}

// PostFilter narrows a post listing.
type PostFilter struct {
	AuthorID *uuid.UUID
	Page
}

// CreatePostRequest holds parameters for publishing a post.
type CreatePostRequest struct {
	Title      string `json:"title" form:"title" validate:"required,max=200"`
	Body       string `json:"body" form:"body" validate:"max=10000"`
	GoalAmount int64  `json:"goal_amount" form:"goal_amount" validate:"min=0"`
	Currency   string `json:"currency" form:"currency" validate:"omitempty,len=3,alpha"`
}

// UpdatePostRequest holds the post fields an author may change. Nil fields
// are left untouched.
type UpdatePostRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=200"`
	Body       *string `json:"body" validate:"omitempty,max=10000"`
	GoalAmount *int64  `json:"goal_amount" validate:"omitempty,min=0"`
}

// CommentRequest holds a new comment.
type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// ReactRequest sets the caller's reaction to a post.
type ReactRequest struct {
	Kind string `json:"kind" validate:"required,reaction"`
}

// ReactionSummary counts the reactions on a post by kind.
type ReactionSummary struct {
	PostID uuid.UUID                     `json:"post_id"`
	Counts map[models.ReactionKind]int64 `json:"counts"`
	Total  int64                         `json:"total"`
}

// CreateChatRequest starts a chat. The creator is always a member.
type CreateChatRequest struct {
	Title     string   `json:"title" validate:"max=100"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,max=50,dive,uuid"`
}

// MessageRequest holds a chat message.
type MessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// DonationRequest pledges amount minor units to a post.
type DonationRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

// DonationResult carries the recorded donation and the secret the client
// uses to confirm the payment with the processor.
type DonationResult struct {
	Donation     *models.Donation `json:"donation"`
	ClientSecret string           `json:"client_secret"`
}
