package auth

import (
	"errors"

	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	// PrincipalContextKey is the key used to store the principal in Gin context
	PrincipalContextKey = "principal"
	// SessionContextKey holds the session id when the request used a cookie
	SessionContextKey = "session_id"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	SessionID string       `json:"-"`
}

// Principal is the caller of an authenticated request together with the
// capabilities it held when the request was authorized.
type Principal struct {
	User *models.User
	Mask permission.Mask
}

// Can reports whether the principal holds every capability in required.
func (p *Principal) Can(required permission.Mask) bool {
	return p != nil && permission.Has(p.Mask, required)
}

// CurrentPrincipal extracts the authenticated principal from the Gin context
func CurrentPrincipal(c *gin.Context) (*Principal, error) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return nil, ErrUnauthorized
	}

	p, ok := value.(*Principal)
	if !ok || p == nil || p.User == nil {
		return nil, errors.New("invalid principal in context")
	}

	return p, nil
}
