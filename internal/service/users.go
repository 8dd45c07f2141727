package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/audit"
	"github.com/fundloop/fundloop/internal/auth"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/payment"
	"github.com/fundloop/fundloop/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Register creates an account with the default role. When a payment
// processor is configured a customer is created for the new user; failures
// there are logged and retried lazily on the first donation.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Username
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	if _, err := s.ensureCustomer(ctx, &user); err != nil && !errors.Is(err, payment.ErrDisabled) {
		slog.Warn("Failed to create payment customer", "user_id", user.ID, "error", err)
	}

	if err := audit.LogAction(s.db.WithContext(ctx), user.ID, audit.ActionRegister, audit.UserResource(user.ID), map[string]interface{}{
		"username": user.Username,
	}); err != nil {
		slog.Error("Failed to write audit log", "action", audit.ActionRegister, "error", err)
	}

	return s.GetUser(ctx, user.ID)
}

// ensureCustomer returns the user's payment customer id, creating the
// customer first if the user has none.
func (s *Service) ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.PaymentCustomerID != "" {
		return user.PaymentCustomerID, nil
	}

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	customerID, err := s.payments.CreateCustomer(ctx, user.Email, name)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Update("payment_customer_id", customerID).Error; err != nil {
		return "", err
	}
	user.PaymentCustomerID = customerID
	return customerID, nil
}

// GetUser returns a user without secret fields.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Scopes(s.users).Take(&user, "users.id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// ListUsers returns users ordered by username.
func (s *Service) ListUsers(ctx context.Context, page Page) (*List[models.User], error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	return paginate[models.User](q, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(s.users).Order("users.username ASC")
	})
}

// UpdateProfile changes the caller's own profile fields.
func (s *Service) UpdateProfile(ctx context.Context, actor Actor, req UpdateProfileRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", actor.ID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, apierr.NotFound("user")
		}
	}

	return s.GetUser(ctx, actor.ID)
}

// SetAvatar uploads a new avatar for the caller and deletes the previous one.
func (s *Service) SetAvatar(ctx context.Context, actor Actor, upload Upload) (*models.User, error) {
	if media.Classify(upload.ContentType) != media.TypeImage {
		return nil, apierr.Invalid("avatar must be an image", apierr.Violation{
			Field: "avatar", Rule: "image", Message: "avatar must be an image",
		})
	}

	res, err := s.media.Upload(ctx, upload.Reader, media.UploadOptions{
		Folder:      "avatars",
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
	})
	if err != nil {
		return nil, collaboratorError(err)
	}

	var previous string
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := db.LockForUpdate(tx, &user, "user", "id = ?", actor.ID); err != nil {
			return err
		}
		previous = user.AvatarID
		return tx.Model(&models.User{}).Where("id = ?", user.ID).Update("avatar_id", res.ID).Error
	})
	if err != nil {
		s.discard(ctx, res.ID)
		return nil, err
	}

	if previous != "" {
		s.discard(ctx, previous)
	}
	return s.GetUser(ctx, actor.ID)
}

// discard deletes hosted media that is no longer referenced.
func (s *Service) discard(ctx context.Context, id string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), id); err != nil {
		slog.Warn("Failed to delete media", "resource_id", id, "error", err)
	}
}

// UpdateUserRole assigns a role to another user. Callers can only hand out
// capabilities they hold themselves, and cannot change the role of a user
// who holds capabilities they lack.
func (s *Service) UpdateUserRole(ctx context.Context, actor Actor, targetID uuid.UUID, req UpdateRoleRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	err := db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var target models.User
		if err := db.LockForUpdate(tx.Preload("Role"), &target, "user", "id = ?", targetID); err != nil {
			return err
		}

		var role models.Role
		if err := tx.Take(&role, "name = ?", req.Role).Error; err != nil {
			return notFound(err, "role")
		}

		if !actor.Can(role.Permissions) || (target.Role != nil && !actor.Can(target.Role.Permissions)) {
			return apierr.Forbidden()
		}

		if err := tx.Model(&models.User{}).Where("id = ?", target.ID).Update("role_name", role.Name).Error; err != nil {
			return err
		}

		return audit.LogAction(tx, actor.ID, audit.ActionUpdateUserRole, audit.UserResource(target.ID), map[string]interface{}{
			"from": target.RoleName,
			"to":   role.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, targetID)
}

// SetBanned bans or unbans a user. Banned users keep their account but hold
// no capabilities. Users cannot ban themselves or anyone holding
// capabilities they lack.
func (s *Service) SetBanned(ctx context.Context, actor Actor, targetID uuid.UUID, banned bool) (*models.User, error) {
	if actor.ID == targetID {
		return nil, apierr.Invalid("you cannot ban yourself", apierr.Violation{
			Field: "id", Rule: "not_self", Message: "you cannot ban yourself",
		})
	}

	err := db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var target models.User
		if err := db.LockForUpdate(tx.Preload("Role"), &target, "user", "id = ?", targetID); err != nil {
			return err
		}
		if target.Role != nil && !actor.Can(target.Role.Permissions) {
			return apierr.Forbidden()
		}

		if err := tx.Model(&models.User{}).Where("id = ?", target.ID).Update("banned", banned).Error; err != nil {
			return err
		}

		action := audit.ActionBanUser
		if !banned {
			action = audit.ActionUnbanUser
		}
		return audit.LogAction(tx, actor.ID, action, audit.UserResource(target.ID), nil)
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, targetID)
}

// Follow makes the caller follow another user. Following twice is a no-op.
func (s *Service) Follow(ctx context.Context, actor Actor, targetID uuid.UUID) error {
	if actor.ID == targetID {
		return apierr.Invalid("you cannot follow yourself", apierr.Violation{
			Field: "id", Rule: "not_self", Message: "you cannot follow yourself",
		})
	}

	var target models.User
	return db.MutateExisting(ctx, s.db, &target, "user", []any{"id = ?", targetID}, func(tx *gorm.DB) error {
		s.checked(tx)
		follow := models.Follow{FollowerID: actor.ID, FolloweeID: targetID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
	})
}

// Unfollow removes a follow. Removing a follow that does not exist is a no-op.
func (s *Service) Unfollow(ctx context.Context, actor Actor, targetID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", actor.ID, targetID).
		Delete(&models.Follow{}).Error
}

// Followers lists the users following userID.
func (s *Service) Followers(ctx context.Context, userID uuid.UUID, page Page) (*List[models.User], error) {
	return s.follows(ctx, userID, page, "follows.follower_id", "follows.followee_id")
}

// Following lists the users userID follows.
func (s *Service) Following(ctx context.Context, userID uuid.UUID, page Page) (*List[models.User], error) {
	return s.follows(ctx, userID, page, "follows.followee_id", "follows.follower_id")
}

func (s *Service) follows(ctx context.Context, userID uuid.UUID, page Page, joinCol, filterCol string) (*List[models.User], error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(filterCol+" = ?", userID)
	return paginate[models.User](q, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(s.users).Order("follows.created_at DESC")
	})
}
