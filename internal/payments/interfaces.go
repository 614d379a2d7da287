package payments

import (
	stripe "github.com/stripe/stripe-go/v83"
)

// StripeClientInterface abstracts the Stripe API for testing
type StripeClientInterface interface {
	CreatePaymentIntent(amountCents int64, currency, customerID, description string, metadata map[string]string) (*stripe.PaymentIntent, error)
	CreateRefund(paymentIntentID string, amountCents *int64, reason string) (*stripe.Refund, error)
}
