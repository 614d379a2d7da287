package loyalty

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the contract for loyalty persistence.
// EarnPoints and SpendPoints mutate balances inside a single database
// transaction with the account row locked.
type RepositoryInterface interface {
	GetAccountByUser(ctx context.Context, userID uuid.UUID) (*Account, error)
	EarnPoints(ctx context.Context, userID uuid.UUID, points int, description string, referenceID *uuid.UUID) (*Account, error)
	SpendPoints(ctx context.Context, userID uuid.UUID, points int, description string) (*Account, error)
	GetPointsHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]PointsTransaction, int64, error)
}
