// Package rbac resolves a user's effective capability mask from the role
// currently assigned to them.
package rbac

import (
	"context"

	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EffectiveMask returns the capabilities user holds through its loaded role.
// Banned users and users without a loaded role hold nothing.
func EffectiveMask(user *models.User) permission.Mask {
	if user == nil || user.Banned || user.Role == nil {
		return permission.None
	}
	return user.Role.Permissions
}

// Resolve loads the user and its current role from the database and returns
// the effective mask. Nothing is cached: every call reflects the role as it
// is stored right now. A missing user yields gorm.ErrRecordNotFound.
func Resolve(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*models.User, permission.Mask, error) {
	var user models.User
	err := db.WithContext(ctx).Preload("Role").Take(&user, "id = ?", userID).Error
	if err != nil {
		return nil, permission.None, err
	}
	return &user, EffectiveMask(&user), nil
}
