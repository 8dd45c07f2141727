// Package payment talks to the payment processor that settles donations.
package payment

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no payment processor is configured.
var ErrDisabled = errors.New("payments are disabled")

// Intent is a pending payment the client confirms with the processor.
type Intent struct {
	ID           string
	ClientSecret string
}

// Processor creates customers and payment intents.
type Processor interface {
	// CreateCustomer registers a customer and returns the processor's id for it.
	CreateCustomer(ctx context.Context, email, name string) (string, error)

	// CreatePaymentIntent starts a payment of amount minor units.
	CreatePaymentIntent(ctx context.Context, customerID string, amount int64, currency string) (Intent, error)

	// CancelPaymentIntent cancels an intent that will never be confirmed.
	CancelPaymentIntent(ctx context.Context, id string) error
}

// None rejects every call with ErrDisabled.
type None struct{}

// CreateCustomer always fails with ErrDisabled
func (None) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	return "", ErrDisabled
}

// CreatePaymentIntent always fails with ErrDisabled
func (None) CreatePaymentIntent(ctx context.Context, customerID string, amount int64, currency string) (Intent, error) {
	return Intent{}, ErrDisabled
}

// CancelPaymentIntent always fails with ErrDisabled
func (None) CancelPaymentIntent(ctx context.Context, id string) error {
	return ErrDisabled
}
