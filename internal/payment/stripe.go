package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type customerAPI interface {
	New(params *stripe.CustomerParams) (*stripe.Customer, error)
}

type paymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
}

// Stripe is a Processor backed by the Stripe API.
type Stripe struct {
	customers customerAPI
	intents   paymentIntentAPI
}

// NewStripe creates a Stripe processor using secretKey
func NewStripe(secretKey string) (*Stripe, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("payment.secret_key is required for the stripe processor")
	}

	sc := &client.API{}
	sc.Init(secretKey, nil)

	slog.Info("Initialized Stripe payment processor")
	return &Stripe{customers: sc.Customers, intents: sc.PaymentIntents}, nil
}

// CreateCustomer registers a Stripe customer
func (s *Stripe) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	c, err := s.customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return c.ID, nil
}

// CreatePaymentIntent creates a Stripe payment intent for the customer
func (s *Stripe) CreatePaymentIntent(ctx context.Context, customerID string, amount int64, currency string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.intents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// CancelPaymentIntent cancels a Stripe payment intent
func (s *Stripe) CancelPaymentIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx

	if _, err := s.intents.Cancel(id, params); err != nil {
		return fmt.Errorf("failed to cancel payment intent %s: %w", id, err)
	}
	return nil
}
