package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundloop/fundloop/internal/audit"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks if a password matches the hash
func VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticator implements username/password login. A successful login
// yields both a bearer token and a cookie session.
type Authenticator struct {
	db         *gorm.DB
	tokens     *TokenIssuer
	sessions   session.Store
	sessionTTL time.Duration
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(db *gorm.DB, tokens *TokenIssuer, sessions session.Store, sessionTTL time.Duration) *Authenticator {
	return &Authenticator{db: db, tokens: tokens, sessions: sessions, sessionTTL: sessionTTL}
}

// Login authenticates a user and returns a JWT token and session id
func (a *Authenticator) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var user models.User
	result := a.db.WithContext(ctx).Where("username = ?", username).Take(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Warn("Login attempt with non-existent username", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		slog.Warn("Login attempt with incorrect password", "username", username)
		return nil, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sessionID, err := a.sessions.Create(ctx, user.ID, a.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := audit.LogAction(a.db.WithContext(ctx), user.ID, audit.ActionLogin, audit.UserResource(user.ID), nil); err != nil {
		slog.Warn("Failed to write audit log", "action", audit.ActionLogin, "error", err)
	}

	slog.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return &LoginResponse{
		Token:     token,
		User:      &user,
		SessionID: sessionID,
	}, nil
}

// Logout ends a cookie session. Bearer tokens expire on their own.
func (a *Authenticator) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return a.sessions.Delete(ctx, sessionID)
}
