package payments

import (
	stripe "github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/refund"
)

// StripeClient is the real Stripe API client
type StripeClient struct{}

// NewStripeClient configures the global Stripe key and returns a client
func NewStripeClient(apiKey string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{}
}

// CreatePaymentIntent creates a payment intent with automatic confirmation
func (c *StripeClient) CreatePaymentIntent(amountCents int64, currency, customerID, description string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return paymentintent.New(params)
}

// CreateRefund refunds a payment intent, fully when amountCents is nil
func (c *StripeClient) CreateRefund(paymentIntentID string, amountCents *int64, reason string) (*stripe.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	if amountCents != nil {
		params.Amount = stripe.Int64(*amountCents)
	}
	if reason != "" {
		params.Reason = stripe.String(reason)
	}
	return refund.New(params)
}
