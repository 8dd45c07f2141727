package models

import (
	"time"

	"github.com/fundloop/fundloop/internal/permission"
)

// Role is a named set of capabilities. Users reference roles by name.
type Role struct {
	Name        string          `gorm:"primaryKey;size:64" json:"name"`
	Description string          `json:"description"`
	Permissions permission.Mask `gorm:"not null;default:0" json:"permissions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
