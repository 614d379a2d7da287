package eventbus

import "github.com/google/uuid"

// Subjects published by the gift card service
const (
	SubjectGiftCardIssued   = "giftcards.issued"
	SubjectGiftCardRedeemed = "giftcards.redeemed"
	SubjectGiftCardRefunded = "giftcards.refunded"
	SubjectGiftCardExpired  = "giftcards.expired"
)

// Subjects consumed from the order service
const (
	SubjectOrderCompleted = "orders.completed"
)

// OrderCompletedData is published by the order service when an order settles
type OrderCompletedData struct {
	OrderID  uuid.UUID `json:"order_id"`
	UserID   uuid.UUID `json:"user_id"`
	Total    float64   `json:"total"`
	Currency string    `json:"currency"`
}

// GiftCardIssuedData is published when a card is purchased or created
type GiftCardIssuedData struct {
	CardID      uuid.UUID  `json:"card_id"`
	PurchaserID *uuid.UUID `json:"purchaser_id,omitempty"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	CardType    string     `json:"card_type"`
}

// GiftCardRedeemedData is published after a successful redemption
type GiftCardRedeemedData struct {
	CardID           uuid.UUID  `json:"card_id"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	OrderID          *uuid.UUID `json:"order_id,omitempty"`
	AmountApplied    float64    `json:"amount_applied"`
	RemainingBalance float64    `json:"remaining_balance"`
}

// GiftCardRefundedData is published after a refund credits a card
type GiftCardRefundedData struct {
	CardID          uuid.UUID  `json:"card_id"`
	OrderID         *uuid.UUID `json:"order_id,omitempty"`
	AmountRequested float64    `json:"amount_requested"`
	AmountCredited  float64    `json:"amount_credited"`
	NewBalance      float64    `json:"new_balance"`
}

// GiftCardExpiredData is published per sweep run, not per card
type GiftCardExpiredData struct {
	ExpiredCount int `json:"expired_count"`
}
