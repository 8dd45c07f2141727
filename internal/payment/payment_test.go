package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type fakeCustomers struct {
	got *stripe.CustomerParams
}

func (f *fakeCustomers) New(p *stripe.CustomerParams) (*stripe.Customer, error) {
	f.got = p
	return &stripe.Customer{ID: "cus_123"}, nil
}

type fakeIntents struct {
	got       *stripe.PaymentIntentParams
	err       error
	cancelled []string
}

func (f *fakeIntents) New(p *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = p
	return &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

func (f *fakeIntents) Cancel(id string, p *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cancelled = append(f.cancelled, id)
	return &stripe.PaymentIntent{ID: id, Status: stripe.PaymentIntentStatusCanceled}, nil
}

func TestStripe_CreateCustomer(t *testing.T) {
	customers := &fakeCustomers{}
	s := &Stripe{customers: customers, intents: &fakeIntents{}}

	id, err := s.CreateCustomer(context.Background(), "a@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)
	assert.Equal(t, "a@example.com", stripe.StringValue(customers.got.Email))
	assert.Equal(t, "Alice", stripe.StringValue(customers.got.Name))
}

func TestStripe_CreatePaymentIntent(t *testing.T) {
	intents := &fakeIntents{}
	s := &Stripe{customers: &fakeCustomers{}, intents: intents}

	intent, err := s.CreatePaymentIntent(context.Background(), "cus_123", 2500, "USD")
	require.NoError(t, err)
	assert.Equal(t, Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, intent)
	assert.Equal(t, int64(2500), stripe.Int64Value(intents.got.Amount))
	assert.Equal(t, "usd", stripe.StringValue(intents.got.Currency))
	assert.Equal(t, "cus_123", stripe.StringValue(intents.got.Customer))

	s.intents = &fakeIntents{err: errors.New("card_declined")}
	_, err = s.CreatePaymentIntent(context.Background(), "cus_123", 100, "usd")
	assert.ErrorContains(t, err, "card_declined")
}

func TestStripe_CancelPaymentIntent(t *testing.T) {
	intents := &fakeIntents{}
	s := &Stripe{customers: &fakeCustomers{}, intents: intents}

	require.NoError(t, s.CancelPaymentIntent(context.Background(), "pi_1"))
	assert.Equal(t, []string{"pi_1"}, intents.cancelled)

	s.intents = &fakeIntents{err: errors.New("payment_intent_unexpected_state")}
	err := s.CancelPaymentIntent(context.Background(), "pi_2")
	assert.ErrorContains(t, err, "pi_2")
}

func TestNone(t *testing.T) {
	_, err := None{}.CreateCustomer(context.Background(), "a@example.com", "Alice")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = None{}.CreatePaymentIntent(context.Background(), "cus", 1, "usd")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, None{}.CancelPaymentIntent(context.Background(), "pi"), ErrDisabled)
}
