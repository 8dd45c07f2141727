package handlers

import (
	"net/http"

	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
)

// RoleHandler serves role management.
type RoleHandler struct {
	svc *service.Service
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(svc *service.Service) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// ListRoles godoc
// @Summary List roles with their capabilities
// @Tags roles
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.RoleView
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.svc.ListRoles(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.RoleRequest true "Role"
// @Success 201 {object} service.RoleView
// @Failure 400 {object} middleware.Envelope
// @Failure 409 {object} middleware.Envelope
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.RoleRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	role, err := h.svc.CreateRole(c.Request.Context(), actor, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// UpdateRole replaces a role's description and capabilities.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.RoleRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	role, err := h.svc.UpdateRole(c.Request.Context(), actor, c.Param("name"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// DeleteRole removes a role that no user holds.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.DeleteRole(c.Request.Context(), actor, c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
