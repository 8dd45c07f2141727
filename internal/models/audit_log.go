package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is a record of privileged actions
type AuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:text;index" json:"user_id"`
	Action      string    `gorm:"not null" json:"action"`        // e.g., "ban_user", "update_role"
	Resource    string    `gorm:"not null" json:"resource"`      // e.g., "user:<id>", "role:Volunteer"
	DetailsJSON string    `gorm:"type:text" json:"details_json"` // Additional context in JSON
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}
