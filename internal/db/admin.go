package db

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminParams describes the administrator account to bootstrap.
type AdminParams struct {
	Username string
	Email    string
	Password string
}

// AdminFromEnv reads ADMIN_USERNAME, ADMIN_PASSWORD and ADMIN_EMAIL.
func AdminFromEnv() AdminParams {
	return AdminParams{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Email:    os.Getenv("ADMIN_EMAIL"),
	}
}

// CreateDefaultAdmin creates an Admin user when credentials are provided and
// no users exist in the database. It reports whether a user was created.
func CreateDefaultAdmin(db *gorm.DB, p AdminParams) (bool, error) {
	if p.Username == "" || p.Password == "" {
		slog.Info("No admin username or password set, skipping default admin creation")
		return false, nil
	}

	if p.Email == "" {
		p.Email = fmt.Sprintf("%s@fundloop.local", p.Username)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.Info("Users already exist, skipping default admin creation")
		return false, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     p.Username,
		Email:        p.Email,
		DisplayName:  p.Username,
		PasswordHash: string(hashedPassword),
		RoleName:     permission.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("Default admin user created", "username", p.Username, "email", p.Email)
	return true, nil
}
