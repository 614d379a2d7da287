package giftcards

import "time"

// DefaultExpiryDays is used when a purchase does not override expiry
const DefaultExpiryDays = 365

// CalculateExpiration returns the expiry timestamp for a card issued at
// purchaseDate, or nil when days is nil (the card never expires).
// Calendar-day arithmetic, so the anniversary lands on the same date
// across leap years rather than drifting by elapsed seconds.
func CalculateExpiration(purchaseDate time.Time, days *int) *time.Time {
	if days == nil {
		return nil
	}
	expiresAt := purchaseDate.AddDate(0, 0, *days)
	return &expiresAt
}

// IsCardExpired reports whether expiresAt is strictly in the past.
// A nil expiresAt never expires.
func IsCardExpired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return expiresAt.Before(now)
}
