package giftcards

import (
	"time"

	"github.com/google/uuid"
)

// CardStatus represents gift card lifecycle
type CardStatus string

const (
	CardStatusActive    CardStatus = "active"
	CardStatusRedeemed  CardStatus = "redeemed" // Balance fully used
	CardStatusExpired   CardStatus = "expired"  // Set by the expiry sweep
	CardStatusCancelled CardStatus = "cancelled" // Terminal, set by support/admin
)

// CardType classifies how the card was created
type CardType string

const (
	CardTypePurchased   CardType = "purchased"   // User bought it at checkout
	CardTypePromotional CardType = "promotional" // Marketing giveaway
	CardTypeCorporate   CardType = "corporate"   // Corporate bulk purchase
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeRedemption TransactionType = "redemption"
	TransactionTypeRefund     TransactionType = "refund"
)

// GiftCard represents a prepaid balance instrument.
// CurrentBalance is mutated only through the ledger paths so that
// initial_balance + sum(transaction amounts) == current_balance holds.
type GiftCard struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Code           string     `json:"code" db:"code"` // Canonical 16-char undashed form
	CardType       CardType   `json:"card_type" db:"card_type"`
	Status         CardStatus `json:"status" db:"status"`
	InitialBalance float64    `json:"initial_balance" db:"initial_balance"`
	CurrentBalance float64    `json:"current_balance" db:"current_balance"`
	Currency       string     `json:"currency" db:"currency"`
	PurchaserID    *uuid.UUID `json:"purchaser_id,omitempty" db:"purchaser_id"`
	RecipientEmail *string    `json:"recipient_email,omitempty" db:"recipient_email"`
	RecipientName  *string    `json:"recipient_name,omitempty" db:"recipient_name"`
	Message        *string    `json:"message,omitempty" db:"message"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" db:"expires_at"` // nil means never expires
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	Transactions []GiftCardTransaction `json:"transactions,omitempty" db:"-"`
}

// GiftCardTransaction is one ledger entry for a card.
// Amount is signed: negative for redemptions, positive for refunds.
type GiftCardTransaction struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	GiftCardID uuid.UUID       `json:"gift_card_id" db:"gift_card_id"`
	Amount     float64         `json:"amount" db:"amount"`
	Type       TransactionType `json:"type" db:"type"`
	OrderID    *uuid.UUID      `json:"order_id,omitempty" db:"order_id"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// ValidationResult is the outcome of the usability check
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// RedeemResult reports what a redemption actually applied
type RedeemResult struct {
	CardID           uuid.UUID `json:"card_id"`
	AmountApplied    float64   `json:"amount_applied"`
	RemainingBalance float64   `json:"remaining_balance"`
}

// RefundResult reports both the requested refund and its capped effect.
// The ledger row records AmountRequested while the balance moves by
// AmountCredited, so reconciliation can see intent and effect separately.
type RefundResult struct {
	AmountRequested float64 `json:"amount_requested"`
	AmountCredited  float64 `json:"amount_credited"`
	NewBalance      float64 `json:"new_balance"`
}

// ========================================
// REQUEST/RESPONSE TYPES
// ========================================

// PurchaseGiftCardRequest creates and pays for a gift card
type PurchaseGiftCardRequest struct {
	Amount         float64 `json:"amount" binding:"required,min=5,max=500"`
	Currency       string  `json:"currency"`
	RecipientEmail *string `json:"recipient_email,omitempty" binding:"omitempty,email"`
	RecipientName  *string `json:"recipient_name,omitempty"`
	Message        *string `json:"message,omitempty"`
	ExpiresInDays  *int    `json:"expires_in_days,omitempty" binding:"omitempty,min=0"` // 0 = never expires
}

// CreateCardRequest issues a single card directly (admin)
type CreateCardRequest struct {
	Amount         float64  `json:"amount" binding:"required,gt=0"`
	Currency       string   `json:"currency"`
	CardType       CardType `json:"card_type" binding:"omitempty,oneof=promotional corporate"`
	RecipientEmail *string  `json:"recipient_email,omitempty" binding:"omitempty,email"`
	RecipientName  *string  `json:"recipient_name,omitempty"`
	Message        *string  `json:"message,omitempty"`
	ExpiresInDays  *int     `json:"expires_in_days,omitempty" binding:"omitempty,min=0"` // 0 = never expires
}

// CreateBulkRequest creates multiple gift cards (admin/corporate)
type CreateBulkRequest struct {
	Count         int      `json:"count" binding:"required,min=1,max=1000"`
	Amount        float64  `json:"amount" binding:"required,min=5"`
	Currency      string   `json:"currency"`
	CardType      CardType `json:"card_type" binding:"required,oneof=promotional corporate"`
	ExpiresInDays *int     `json:"expires_in_days,omitempty" binding:"omitempty,min=0"` // 0 = never expires
}

// BulkCreateResponse returns created cards
type BulkCreateResponse struct {
	Cards []GiftCard `json:"cards"`
	Count int        `json:"count"`
	Total float64    `json:"total_value"`
}

// RedeemGiftCardRequest applies a card's balance against an order
type RedeemGiftCardRequest struct {
	Code    string     `json:"code" binding:"required"`
	Amount  float64    `json:"amount" binding:"min=0"`
	OrderID *uuid.UUID `json:"order_id,omitempty"`
}

// RefundGiftCardRequest restores balance after an order cancellation
type RefundGiftCardRequest struct {
	GiftCardID uuid.UUID  `json:"gift_card_id" binding:"required"`
	Amount     float64    `json:"amount" binding:"required,gt=0"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
}

// CheckBalanceResponse shows a card's balance and usability
type CheckBalanceResponse struct {
	Code           string     `json:"code"` // Dashed display form
	Status         CardStatus `json:"status"`
	InitialBalance float64    `json:"initial_balance"`
	CurrentBalance float64    `json:"current_balance"`
	Currency       string     `json:"currency"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IsValid        bool       `json:"is_valid"`
	InvalidReason  string     `json:"invalid_reason,omitempty"`
}
