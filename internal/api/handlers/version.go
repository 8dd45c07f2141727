package handlers

import (
	"net/http"
	"runtime"
	"strconv"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version is set via ldflags at build time
var Version = "dev"

// GetVersion godoc
// @Summary Get version information
// @Description Returns version information about the Fundloop server
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    Version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	})
}

// Health reports whether the database is reachable.
func Health(database *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := database.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			fail(c, apierr.Internal(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ListAuditLogs godoc
// @Summary List recent audit log entries
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {array} models.AuditLog
// @Failure 403 {object} middleware.Envelope
// @Router /audit [get]
func ListAuditLogs(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				fail(c, apierr.Invalid("invalid limit", apierr.Violation{
					Field: "limit", Rule: "numeric", Message: "limit must be a number",
				}))
				return
			}
			limit = n
		}

		logs, err := svc.AuditLog(c.Request.Context(), limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
