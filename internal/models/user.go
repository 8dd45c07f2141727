package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a platform member
type User struct {
	ID                uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	Username          string         `gorm:"uniqueIndex;not null" json:"username"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	DisplayName       string         `json:"display_name"`
	Bio               string         `json:"bio"`
	AvatarID          string         `json:"avatar_id,omitempty"`
	RoleName          string         `gorm:"not null;default:User;index" json:"role"`
	Role              *Role          `gorm:"foreignKey:RoleName;references:Name;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Banned            bool           `gorm:"not null;default:false" json:"banned"`
	PaymentCustomerID string         `json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// SecretColumns are never selected when users are returned to clients.
var SecretColumns = []string{"password_hash", "payment_customer_id"}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
