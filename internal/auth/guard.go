package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/fundloop/fundloop/internal/rbac"
	"github.com/fundloop/fundloop/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guard gates routes behind authentication and an optional capability mask.
//
// A request moves through three states. It starts unauthenticated; a valid
// bearer token or session cookie that resolves to an existing user makes it
// authenticated; holding every required capability makes it authorized.
// Missing or bad credentials fail with 401, missing capabilities with 403.
// Anything else that goes wrong while deciding, panics included, fails with
// 403.
type Guard struct {
	db         *gorm.DB
	tokens     *TokenIssuer
	sessions   session.Store
	cookieName string
}

// NewGuard creates a guard
func NewGuard(db *gorm.DB, tokens *TokenIssuer, sessions session.Store, cookieName string) *Guard {
	return &Guard{db: db, tokens: tokens, sessions: sessions, cookieName: cookieName}
}

// Authenticated admits any authenticated caller.
func (g *Guard) Authenticated() gin.HandlerFunc {
	return g.Require(permission.None)
}

// Require admits callers holding every capability in required. A zero mask
// requires no capability, but the caller must still authenticate.
func (g *Guard) Require(required permission.Mask) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := g.evaluate(c, required)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(PrincipalContextKey, p)
		c.Next()
	}
}

func (g *Guard) evaluate(c *gin.Context, required permission.Mask) (p *Principal, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic during authorization", "panic", r, "path", c.Request.URL.Path)
			p, err = nil, apierr.Forbidden().Wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	userID, err := g.identify(c)
	if err != nil {
		return nil, err
	}

	user, mask, err := rbac.Resolve(c.Request.Context(), g.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthenticated("account no longer exists").Wrap(err)
		}
		return nil, apierr.Forbidden().Wrap(err)
	}

	p = &Principal{User: user, Mask: mask}
	if required == permission.None {
		return p, nil
	}
	if !permission.Has(mask, required) {
		slog.Debug("Capability check failed", "user_id", user.ID, "path", c.Request.URL.Path)
		return nil, apierr.Forbidden()
	}
	return p, nil
}

// identify extracts and validates the credential. The Authorization header
// takes precedence over the session cookie.
func (g *Guard) identify(c *gin.Context) (uuid.UUID, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return uuid.Nil, apierr.Unauthenticated("invalid authorization header format")
		}
		userID, err := g.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			return uuid.Nil, apierr.Unauthenticated("invalid or expired token").Wrap(err)
		}
		return userID, nil
	}

	sessionID, err := c.Cookie(g.cookieName)
	if err != nil || sessionID == "" {
		return uuid.Nil, apierr.Unauthenticated("missing authorization")
	}

	userID, err := g.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return uuid.Nil, apierr.Unauthenticated("session expired")
		}
		return uuid.Nil, apierr.Forbidden().Wrap(err)
	}
	c.Set(SessionContextKey, sessionID)
	return userID, nil
}
