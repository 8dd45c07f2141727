package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/auth"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fail attaches err to the request for the error middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// currentActor returns the authenticated caller as a service actor.
func currentActor(c *gin.Context) (service.Actor, error) {
	p, err := auth.CurrentPrincipal(c)
	if err != nil {
		return service.Actor{}, apierr.Unauthenticated("authentication required").Wrap(err)
	}
	return service.Actor{ID: p.User.ID, Mask: p.Mask}, nil
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.Invalid("invalid "+name, apierr.Violation{
			Field:   name,
			Rule:    "uuid",
			Message: name + " must be a UUID",
		})
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.Invalid("invalid request body").Wrap(err)
	}
	return nil
}

func bindPage(c *gin.Context) (service.Page, error) {
	var page service.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, apierr.Invalid("invalid pagination parameters").Wrap(err)
	}
	return page, nil
}

// formFile opens a multipart file field. The whole request body is capped at
// maxBytes; larger uploads are rejected as invalid.
func formFile(c *gin.Context, field string, maxBytes int64, required bool) (*service.Upload, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, nil, apierr.Invalid("upload too large", apierr.Violation{
				Field:   field,
				Rule:    "max",
				Message: fmt.Sprintf("%s must be at most %d bytes", field, maxBytes),
			})
		case errors.Is(err, http.ErrMissingFile) && !required:
			return nil, func() {}, nil
		case errors.Is(err, http.ErrMissingFile):
			return nil, nil, apierr.Invalid(field+" is required", apierr.Violation{
				Field:   field,
				Rule:    "required",
				Message: field + " is required",
			})
		}
		return nil, nil, apierr.Invalid("invalid multipart form").Wrap(err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, apierr.Internal(err)
	}

	return &service.Upload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: contentType(header),
	}, func() { _ = file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
