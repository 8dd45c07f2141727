package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fundloop/fundloop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogAction records an audit log entry. Pass the transaction handle when
// the entry must commit together with the change it describes.
func LogAction(db *gorm.DB, userID uuid.UUID, action, resource string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	log := models.AuditLog{
		UserID:      userID,
		Action:      action,
		Resource:    resource,
		DetailsJSON: string(detailsJSON),
		Timestamp:   time.Now().UTC(),
	}

	return db.Create(&log).Error
}

// List returns the most recent audit entries, newest first.
func List(ctx context.Context, db *gorm.DB, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.AuditLog
	err := db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// Audit actions constants
const (
	ActionRegister        = "register"
	ActionLogin           = "login"
	ActionUpdateUserRole  = "update_user_role"
	ActionBanUser         = "ban_user"
	ActionUnbanUser       = "unban_user"
	ActionCreateRole      = "create_role"
	ActionUpdateRole      = "update_role"
	ActionDeleteRole      = "delete_role"
	ActionModeratePost    = "moderate_post"
	ActionModerateComment = "moderate_comment"
)

// Resource formats
func UserResource(id uuid.UUID) string    { return "user:" + id.String() }
func RoleResource(name string) string     { return "role:" + name }
func PostResource(id uuid.UUID) string    { return "post:" + id.String() }
func CommentResource(id uuid.UUID) string { return "comment:" + id.String() }
