package giftcards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateForUse_Precedence(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name       string
		card       GiftCard
		wantValid  bool
		wantReason string
	}{
		{
			name:      "active card with balance",
			card:      GiftCard{Status: CardStatusActive, CurrentBalance: 50, ExpiresAt: &future},
			wantValid: true,
		},
		{
			name:      "no expiry is never rejected for expiry",
			card:      GiftCard{Status: CardStatusActive, CurrentBalance: 50, ExpiresAt: nil},
			wantValid: true,
		},
		{
			name:       "cancelled wins over everything",
			card:       GiftCard{Status: CardStatusCancelled, CurrentBalance: 0, ExpiresAt: &past},
			wantValid:  false,
			wantReason: ReasonCancelled,
		},
		{
			name:       "redeemed wins over date expiry",
			card:       GiftCard{Status: CardStatusRedeemed, CurrentBalance: 0, ExpiresAt: &past},
			wantValid:  false,
			wantReason: ReasonRedeemed,
		},
		{
			name: "expired status wins even with future expires_at and balance",
			card: GiftCard{Status: CardStatusExpired, CurrentBalance: 25, ExpiresAt: &future},

			wantValid:  false,
			wantReason: ReasonExpiredStatus,
		},
		{
			name:       "date expiry before sweep still rejects",
			card:       GiftCard{Status: CardStatusActive, CurrentBalance: 25, ExpiresAt: &past},
			wantValid:  false,
			wantReason: ReasonExpiredDate,
		},
		{
			name:       "expired with nonzero balance rejected as expired, not as no balance",
			card:       GiftCard{Status: CardStatusActive, CurrentBalance: 100, ExpiresAt: &past},
			wantValid:  false,
			wantReason: ReasonExpiredDate,
		},
		{
			name:       "zero balance on active card",
			card:       GiftCard{Status: CardStatusActive, CurrentBalance: 0, ExpiresAt: &future},
			wantValid:  false,
			wantReason: ReasonNoBalance,
		},
		{
			name:       "negative balance on active card",
			card:       GiftCard{Status: CardStatusActive, CurrentBalance: -1, ExpiresAt: nil},
			wantValid:  false,
			wantReason: ReasonNoBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateForUseAt(&tt.card, now)
			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantReason, result.Reason)
		})
	}
}
