package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v83"

	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/resilience"
)

// Service charges and refunds gift card purchases through Stripe.
// All Stripe calls run through a circuit breaker so a degraded
// payment provider fails fast instead of tying up request workers.
type Service struct {
	stripeClient StripeClientInterface
	breaker      *resilience.CircuitBreaker
}

func NewService(stripeClient StripeClientInterface) *Service {
	breaker := resilience.NewCircuitBreaker(resilience.Settings{
		Name:             "stripe",
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}, resilience.GracefulDegradation("stripe"))

	return &Service{
		stripeClient: stripeClient,
		breaker:      breaker,
	}
}

// ChargeResult is the outcome of a successful gift card charge
type ChargeResult struct {
	PaymentIntentID string  `json:"payment_intent_id"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// ChargeGiftCardPurchase creates a payment intent for a gift card purchase
func (s *Service) ChargeGiftCardPurchase(ctx context.Context, purchaserID uuid.UUID, amount float64, currency string) (*ChargeResult, error) {
	amountCents := int64(amount * 100)
	metadata := map[string]string{
		"purchaser_id": purchaserID.String(),
		"type":         "gift_card_purchase",
	}

	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.stripeClient.CreatePaymentIntent(
			amountCents,
			currency,
			"", // customer lookup is the storefront's concern
			fmt.Sprintf("Gift card purchase (%.2f %s)", amount, currency),
			metadata,
		)
	})
	if err != nil {
		logger.Error("Failed to create gift card payment intent",
			zap.String("purchaser_id", purchaserID.String()),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
		return nil, wrapStripeError(err, "failed to process payment")
	}

	pi := result.(*stripe.PaymentIntent)
	logger.Info("Gift card payment intent created",
		zap.String("purchaser_id", purchaserID.String()),
		zap.String("stripe_pi", pi.ID),
		zap.Float64("amount", amount),
	)

	return &ChargeResult{
		PaymentIntentID: pi.ID,
		Status:          string(pi.Status),
		Amount:          amount,
		Currency:        currency,
	}, nil
}

// RefundGiftCardPayment refunds a gift card purchase on Stripe.
// amount of zero refunds the full payment. Stripe keys refunds to the
// payment intent, so retrying a transient failure cannot double-refund.
func (s *Service) RefundGiftCardPayment(ctx context.Context, paymentIntentID string, amount float64) error {
	var amountCents *int64
	if amount > 0 {
		cents := int64(amount * 100)
		amountCents = &cents
	}

	_, err := resilience.RetryWithBreaker(ctx, refundRetryConfig(), s.breaker, func(ctx context.Context) (interface{}, error) {
		return s.stripeClient.CreateRefund(paymentIntentID, amountCents, "requested_by_customer")
	})
	if err != nil {
		logger.Error("Failed to refund gift card payment",
			zap.String("stripe_pi", paymentIntentID),
			zap.Error(err),
		)
		return wrapStripeError(err, "failed to process refund")
	}

	logger.Info("Gift card payment refunded",
		zap.String("stripe_pi", paymentIntentID),
		zap.Float64("amount", amount),
	)
	return nil
}

// refundRetryConfig retries only transient Stripe failures. Declines and
// other permanent errors surface immediately.
func refundRetryConfig() resilience.RetryConfig {
	cfg := resilience.ConservativeRetryConfig()
	cfg.RetryableChecker = func(err error) bool {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return resilience.IsRetryableHTTPStatus(stripeErr.HTTPStatusCode)
		}
		return false
	}
	return cfg
}

func wrapStripeError(err error, fallbackMessage string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*common.AppError); ok {
		return appErr
	}
	return common.NewBadGatewayError(fallbackMessage, err)
}
