package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/auth"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/fundloop/fundloop/internal/validate"
	"github.com/gin-gonic/gin"
)

// CookieOptions controls the session cookie set on login.
type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler serves registration, login and the current user.
type AuthHandler struct {
	svc           *service.Service
	authenticator *auth.Authenticator
	cookie        CookieOptions
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(svc *service.Service, authenticator *auth.Authenticator, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, authenticator: authenticator, cookie: cookie}
}

// MeResponse is the authenticated user with the capabilities of their role.
type MeResponse struct {
	User         *models.User `json:"user"`
	Role         string       `json:"role"`
	Capabilities []string     `json:"capabilities"`
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} middleware.Envelope
// @Failure 409 {object} middleware.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary User login
// @Description Authenticate user, return a JWT token and set a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body auth.LoginRequest true "Login credentials"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} middleware.Envelope
// @Failure 401 {object} middleware.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(c, err)
		return
	}

	resp, err := h.authenticator.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			fail(c, apierr.Unauthenticated("invalid credentials"))
			return
		}
		fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, resp.SessionID, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, resp)
}

// Logout ends the caller's cookie session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authenticator.Logout(c.Request.Context(), c.GetString(auth.SessionContextKey)); err != nil {
		fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Get current user
// @Description Get the authenticated user with their role and capabilities
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} middleware.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, err := auth.CurrentPrincipal(c)
	if err != nil {
		fail(c, apierr.Unauthenticated("authentication required").Wrap(err))
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), p.User.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:         user,
		Role:         user.RoleName,
		Capabilities: p.Mask.Names(),
	})
}
