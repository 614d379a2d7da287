package giftcards

import "time"

// Validation failure reasons, surfaced verbatim to callers
const (
	ReasonCancelled     = "gift card has been cancelled"
	ReasonRedeemed      = "gift card has already been redeemed"
	ReasonExpiredStatus = "gift card is expired"
	ReasonExpiredDate   = "gift card has expired"
	ReasonNoBalance     = "gift card has no remaining balance"
)

// ValidateForUse checks whether a card can pay for anything right now.
// The checks run in a fixed order and the first failure wins, so an
// expired card with leftover balance is rejected as expired, not as
// lacking balance:
//  1. cancelled status
//  2. redeemed status
//  3. expired status (as stored, even if expires_at is in the future)
//  4. expires_at in the past (catches cards the sweep has not reached)
//  5. zero or negative balance
func ValidateForUse(card *GiftCard) ValidationResult {
	return validateForUseAt(card, time.Now())
}

func validateForUseAt(card *GiftCard, now time.Time) ValidationResult {
	switch {
	case card.Status == CardStatusCancelled:
		return ValidationResult{Valid: false, Reason: ReasonCancelled}
	case card.Status == CardStatusRedeemed:
		return ValidationResult{Valid: false, Reason: ReasonRedeemed}
	case card.Status == CardStatusExpired:
		return ValidationResult{Valid: false, Reason: ReasonExpiredStatus}
	case IsCardExpired(card.ExpiresAt, now):
		return ValidationResult{Valid: false, Reason: ReasonExpiredDate}
	case card.CurrentBalance <= 0:
		return ValidationResult{Valid: false, Reason: ReasonNoBalance}
	default:
		return ValidationResult{Valid: true}
	}
}
