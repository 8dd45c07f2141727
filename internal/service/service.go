// Package service contains the business logic behind the HTTP API. Every
// operation validates its input, enforces ownership rules the route guard
// cannot express, and returns either an *apierr.Error or a raw data-layer
// error for the API layer to normalize.
package service

import (
	"fmt"

	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/payment"
	"github.com/fundloop/fundloop/internal/projection"
	"gorm.io/gorm"
)

// Service implements the platform's operations.
type Service struct {
	db       *gorm.DB
	media    media.Host
	payments payment.Processor
	currency string

	// safeUser selects every user column except secrets. It is the only
	// way users are loaded for responses.
	safeUser projection.Projection

	// afterCheck runs between an existence check and the mutation it
	// guards. Tests use it to interleave concurrent writes.
	afterCheck func(tx *gorm.DB)
}

// New creates a Service. currency is used for posts that do not name one.
func New(db *gorm.DB, host media.Host, payments payment.Processor, currency string) (*Service, error) {
	safe, err := projection.Of(db, &models.User{}, models.SecretColumns...)
	if err != nil {
		return nil, fmt.Errorf("build user projection: %w", err)
	}
	if host == nil {
		host = media.NoneHost{}
	}
	if payments == nil {
		payments = payment.None{}
	}
	if currency == "" {
		currency = "usd"
	}
	return &Service{db: db, media: host, payments: payments, currency: currency, safeUser: safe}, nil
}

// users restricts a users query or preload to the safe columns.
func (s *Service) users(tx *gorm.DB) *gorm.DB {
	return s.safeUser.Scope("users")(tx)
}

func (s *Service) checked(tx *gorm.DB) {
	if s.afterCheck != nil {
		s.afterCheck(tx)
	}
}
