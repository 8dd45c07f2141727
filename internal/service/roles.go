package service

import (
	"context"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/audit"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/fundloop/fundloop/internal/validate"
	"gorm.io/gorm"
)

// ListRoles returns every role ordered by name.
func (s *Service) ListRoles(ctx context.Context) ([]RoleView, error) {
	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	views := make([]RoleView, len(roles))
	for i, r := range roles {
		views[i] = roleView(r)
	}
	return views, nil
}

// GetRole returns a role by name.
func (s *Service) GetRole(ctx context.Context, name string) (*RoleView, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).Take(&role, "name = ?", name).Error; err != nil {
		return nil, notFound(err, "role")
	}
	v := roleView(role)
	return &v, nil
}

func parseCapabilities(names []string) (permission.Mask, error) {
	mask, err := permission.Parse(names)
	if err != nil {
		return permission.None, apierr.Invalid("request validation failed", apierr.Violation{
			Field: "permissions", Rule: "capability", Message: err.Error(),
		})
	}
	return mask, nil
}

// CreateRole creates a role. A duplicate name is a conflict.
func (s *Service) CreateRole(ctx context.Context, actor Actor, req RoleRequest) (*RoleView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	mask, err := parseCapabilities(req.Permissions)
	if err != nil {
		return nil, err
	}

	role := models.Role{Name: req.Name, Description: req.Description, Permissions: mask}
	err = db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		return audit.LogAction(tx, actor.ID, audit.ActionCreateRole, audit.RoleResource(role.Name), roleView(role))
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.Name)
}

// UpdateRole changes a role's description and capabilities. Renaming is not
// supported. The Admin role always keeps every capability.
func (s *Service) UpdateRole(ctx context.Context, actor Actor, name string, req RoleRequest) (*RoleView, error) {
	req.Name = name
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	mask, err := parseCapabilities(req.Permissions)
	if err != nil {
		return nil, err
	}
	if name == permission.RoleAdmin && mask != permission.All {
		return nil, apierr.InvalidInput("the Admin role must keep every capability")
	}

	var role models.Role
	err = db.MutateExisting(ctx, s.db, &role, "role", []any{"name = ?", name}, func(tx *gorm.DB) error {
		s.checked(tx)
		before := role.Permissions
		err := tx.Model(&models.Role{}).Where("name = ?", name).Updates(map[string]interface{}{
			"description": req.Description,
			"permissions": mask,
		}).Error
		if err != nil {
			return err
		}
		return audit.LogAction(tx, actor.ID, audit.ActionUpdateRole, audit.RoleResource(name), map[string]interface{}{
			"from": before.Names(),
			"to":   mask.Names(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, name)
}

// DeleteRole deletes a role that no user references. Built-in roles cannot
// be deleted.
func (s *Service) DeleteRole(ctx context.Context, actor Actor, name string) error {
	if _, builtin := permission.DefaultRoles[name]; builtin {
		return apierr.InvalidInput("built-in roles cannot be deleted")
	}

	var role models.Role
	return db.MutateExisting(ctx, s.db, &role, "role", []any{"name = ?", name}, func(tx *gorm.DB) error {
		s.checked(tx)
		var holders int64
		if err := tx.Unscoped().Model(&models.User{}).Where("role_name = ?", name).Count(&holders).Error; err != nil {
			return err
		}
		if holders > 0 {
			return apierr.InvalidReference("role is still assigned to users")
		}

		if err := tx.Delete(&models.Role{}, "name = ?", name).Error; err != nil {
			return err
		}
		return audit.LogAction(tx, actor.ID, audit.ActionDeleteRole, audit.RoleResource(name), nil)
	})
}
