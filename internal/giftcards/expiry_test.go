package giftcards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCalculateExpiration_NilDaysNeverExpires(t *testing.T) {
	assert.Nil(t, CalculateExpiration(time.Now(), nil))
}

func TestCalculateExpiration_CalendarArithmetic(t *testing.T) {
	purchase := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	got := CalculateExpiration(purchase, intPtr(365))
	require.NotNil(t, got)
	// 2024 is a leap year, 365 days from Jan 15 lands on Jan 14
	assert.Equal(t, time.Date(2025, 1, 14, 10, 30, 0, 0, time.UTC), *got)
}

func TestCalculateExpiration_DefaultYear(t *testing.T) {
	purchase := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

	got := CalculateExpiration(purchase, intPtr(DefaultExpiryDays))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *got)
}

func TestCalculateExpiration_ShortWindow(t *testing.T) {
	purchase := time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)

	got := CalculateExpiration(purchase, intPtr(2))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), *got)
}

func TestIsCardExpired(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, IsCardExpired(nil, now), "nil expiry never expires")
	assert.True(t, IsCardExpired(&past, now))
	assert.False(t, IsCardExpired(&future, now))
	assert.False(t, IsCardExpired(&now, now), "exactly now is not strictly before")
}
