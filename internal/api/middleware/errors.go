// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every error response.
type Envelope struct {
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	StatusCode int                `json:"statusCode"`
	Timestamp  string             `json:"timestamp"`
	Path       string             `json:"path"`
	Violations []apierr.Violation `json:"violations,omitempty"`
}

// Errors renders the last error attached to the context as an Envelope.
// Errors are normalized first, so clients only ever see the closed set of
// kinds; the underlying cause is logged and never sent.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		e := apierr.Normalize(c.Errors.Last().Err)
		path := c.Request.URL.Path

		switch {
		case e.Kind == apierr.KindInternal:
			slog.Error("Request failed", "path", path, "method", c.Request.Method, "error", e.Cause())
		case e.Cause() != nil:
			slog.Warn("Request rejected", "path", path, "kind", e.Kind, "error", e.Cause())
		}

		if c.Writer.Written() {
			return
		}

		status := e.Status()
		c.AbortWithStatusJSON(status, Envelope{
			Message:    e.Message,
			Error:      http.StatusText(status),
			StatusCode: status,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Path:       path,
			Violations: e.Violations,
		})
	}
}

// Recovery turns a handler panic into an internal error rendered by Errors.
// It must be installed after Errors.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		_ = c.Error(apierr.Internal(fmt.Errorf("panic: %v", recovered)))
		c.Abort()
	})
}

// NotFound reports unknown routes through the error envelope.
func NotFound(c *gin.Context) {
	_ = c.Error(apierr.NotFound("route"))
}
