// Package media uploads user attachments (avatars, post images) to an
// external media host.
package media

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrDisabled is returned by hosts that do not accept uploads.
var ErrDisabled = errors.New("media uploads are disabled")

// ResourceType classifies a stored resource.
type ResourceType string

const (
	TypeImage ResourceType = "image"
	TypeVideo ResourceType = "video"
	TypeRaw   ResourceType = "raw"
)

// UploadOptions describe an upload.
type UploadOptions struct {
	Folder      string // e.g., "avatars"
	Filename    string // Original filename, used for its extension
	ContentType string
}

// Resource identifies a stored upload.
type Resource struct {
	ID   string       `json:"id"`
	Type ResourceType `json:"type"`
}

// Host stores and deletes media.
type Host interface {
	Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Resource, error)
	Delete(ctx context.Context, id string) error
}

// Classify derives the resource type from a MIME content type.
func Classify(contentType string) ResourceType {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return TypeImage
	case strings.HasPrefix(mediaType, "video/"):
		return TypeVideo
	default:
		return TypeRaw
	}
}

// NoneHost rejects every upload. Deletes succeed so records referencing
// previously hosted media can still be removed.
type NoneHost struct{}

// Upload always fails with ErrDisabled
func (NoneHost) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Resource, error) {
	return Resource{}, ErrDisabled
}

// Delete is a no-op
func (NoneHost) Delete(ctx context.Context, id string) error {
	return nil
}
