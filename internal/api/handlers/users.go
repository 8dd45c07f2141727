package handlers

import (
	"context"
	"net/http"

	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler serves profiles, role assignment, bans and follows.
type UserHandler struct {
	svc            *service.Service
	maxUploadBytes int64
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *service.Service, maxUploadBytes int64) *UserHandler {
	return &UserHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} service.List[models.User]
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	users, err := h.svc.ListUsers(c.Request.Context(), page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} middleware.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's display name and bio.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary Replace the caller's avatar
// @Tags users
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.User
// @Failure 400 {object} middleware.Envelope
// @Failure 409 {object} middleware.Envelope
// @Router /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	upload, closeFile, err := formFile(c, "avatar", h.maxUploadBytes, true)
	if err != nil {
		fail(c, err)
		return
	}
	defer closeFile()

	user, err := h.svc.SetAvatar(c.Request.Context(), actor, *upload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateRole godoc
// @Summary Assign a role to a user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body service.UpdateRoleRequest true "Role"
// @Success 200 {object} models.User
// @Failure 403 {object} middleware.Envelope
// @Failure 404 {object} middleware.Envelope
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.svc.UpdateUserRole(c.Request.Context(), actor, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Ban bans a user.
func (h *UserHandler) Ban(c *gin.Context) { h.setBanned(c, true) }

// Unban lifts a ban.
func (h *UserHandler) Unban(c *gin.Context) { h.setBanned(c, false) }

func (h *UserHandler) setBanned(c *gin.Context, banned bool) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.svc.SetBanned(c.Request.Context(), actor, id, banned)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Follow makes the caller follow a user.
func (h *UserHandler) Follow(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.Follow(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.Unfollow(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Followers(c *gin.Context) {
	h.listFollows(c, h.svc.Followers)
}

func (h *UserHandler) Following(c *gin.Context) {
	h.listFollows(c, h.svc.Following)
}

func (h *UserHandler) listFollows(c *gin.Context, list func(ctx context.Context, id uuid.UUID, page service.Page) (*service.List[models.User], error)) {
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	users, err := list(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
