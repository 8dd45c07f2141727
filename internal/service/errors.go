package service

import (
	"errors"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/payment"
	"gorm.io/gorm"
)

// notFound reports a missing row as NotFound for resource and passes every
// other error through.
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(resource).Wrap(err)
	}
	return err
}

// collaboratorError maps errors from the media host and payment processor.
func collaboratorError(err error) error {
	switch {
	case errors.Is(err, media.ErrDisabled):
		return apierr.InvalidInput("media uploads are disabled").Wrap(err)
	case errors.Is(err, payment.ErrDisabled):
		return apierr.InvalidInput("payments are disabled").Wrap(err)
	}
	return err
}
