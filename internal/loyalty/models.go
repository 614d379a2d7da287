package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// TierName identifies a loyalty tier
type TierName string

const (
	TierBronze   TierName = "bronze"
	TierSilver   TierName = "silver"
	TierGold     TierName = "gold"
	TierPlatinum TierName = "platinum"
)

// Tier describes a loyalty level and its earning multiplier
type Tier struct {
	Name       TierName `json:"name"`
	MinPoints  int      `json:"min_points"`
	Multiplier float64  `json:"multiplier"`
}

// Tiers in ascending order. TierFor walks this from the top.
var Tiers = []Tier{
	{Name: TierBronze, MinPoints: 0, Multiplier: 1.0},
	{Name: TierSilver, MinPoints: 500, Multiplier: 1.25},
	{Name: TierGold, MinPoints: 2000, Multiplier: 1.5},
	{Name: TierPlatinum, MinPoints: 5000, Multiplier: 2.0},
}

// Account tracks a customer's loyalty standing.
// LifetimePoints only grows and determines the tier; Points is the
// spendable balance.
type Account struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Points         int       `json:"points" db:"points"`
	LifetimePoints int       `json:"lifetime_points" db:"lifetime_points"`
	Tier           TierName  `json:"tier" db:"tier"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PointsTransactionType classifies a points ledger entry
type PointsTransactionType string

const (
	PointsEarned   PointsTransactionType = "earned"
	PointsRedeemed PointsTransactionType = "redeemed"
	PointsAdjusted PointsTransactionType = "adjusted"
)

// PointsTransaction records a points balance change
type PointsTransaction struct {
	ID          uuid.UUID             `json:"id" db:"id"`
	AccountID   uuid.UUID             `json:"account_id" db:"account_id"`
	Points      int                   `json:"points" db:"points"` // Signed
	Type        PointsTransactionType `json:"type" db:"type"`
	Description string                `json:"description" db:"description"`
	ReferenceID *uuid.UUID            `json:"reference_id,omitempty" db:"reference_id"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
}

// StatusResponse summarizes an account for the API
type StatusResponse struct {
	Points          int      `json:"points"`
	LifetimePoints  int      `json:"lifetime_points"`
	Tier            TierName `json:"tier"`
	Multiplier      float64  `json:"multiplier"`
	NextTier        TierName `json:"next_tier,omitempty"`
	PointsToNextTier int     `json:"points_to_next_tier,omitempty"`
}

// RedeemPointsRequest spends points from the caller's balance
type RedeemPointsRequest struct {
	Points      int    `json:"points" binding:"required,gt=0"`
	Description string `json:"description"`
}
