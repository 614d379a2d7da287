package giftcards

import (
	"context"

	"github.com/google/uuid"

	"github.com/richxcame/giftcard-service/internal/payments"
)

// RepositoryInterface defines the contract for gift card persistence.
// Redeem and Refund are the only paths allowed to mutate a card's
// balance; both run their read-validate-write cycle inside a single
// database transaction.
type RepositoryInterface interface {
	// Card operations
	CreateCard(ctx context.Context, card *GiftCard) error
	CreateCards(ctx context.Context, cards []*GiftCard) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetCardByCode(ctx context.Context, code string) (*GiftCard, error)
	GetCardByID(ctx context.Context, id uuid.UUID) (*GiftCard, error)
	ListPurchasedBy(ctx context.Context, userID uuid.UUID, limit, offset int) ([]GiftCard, int64, error)
	DisableCard(ctx context.Context, cardID uuid.UUID) (*GiftCard, error)

	// Ledger operations
	Redeem(ctx context.Context, code string, amount float64, orderID *uuid.UUID) (*RedeemResult, error)
	Refund(ctx context.Context, cardID uuid.UUID, amount float64, orderID *uuid.UUID) (*RefundResult, error)
	GetCardTransactions(ctx context.Context, cardID uuid.UUID) ([]GiftCardTransaction, error)
	GetTransactionsByOrder(ctx context.Context, orderID uuid.UUID) ([]GiftCardTransaction, error)

	// Maintenance
	ExpireCards(ctx context.Context) (int64, error)
}

// EventPublisher pushes lifecycle events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

// PaymentProcessor charges gift card purchases
type PaymentProcessor interface {
	ChargeGiftCardPurchase(ctx context.Context, purchaserID uuid.UUID, amount float64, currency string) (*payments.ChargeResult, error)
}
