package loyalty

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/logger"
)

// Service handles loyalty business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new loyalty service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// GetStatus returns a user's loyalty standing. Users who never earned
// a point get a zeroed bronze status rather than a 404.
func (s *Service) GetStatus(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	account, err := s.repo.GetAccountByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get loyalty account", zap.Error(err))
		return nil, common.NewInternalServerError("failed to get loyalty status")
	}
	if account == nil {
		account = &Account{Tier: TierBronze}
	}

	return buildStatus(account), nil
}

func buildStatus(account *Account) *StatusResponse {
	tier := TierFor(account.LifetimePoints)
	status := &StatusResponse{
		Points:         account.Points,
		LifetimePoints: account.LifetimePoints,
		Tier:           tier.Name,
		Multiplier:     tier.Multiplier,
	}
	if next := NextTier(account.LifetimePoints); next != nil {
		status.NextTier = next.Name
		status.PointsToNextTier = next.MinPoints - account.LifetimePoints
	}
	return status
}

// EarnFromSpend credits points for money spent, scaled by the user's
// current tier multiplier
func (s *Service) EarnFromSpend(ctx context.Context, userID uuid.UUID, amount float64, description string, referenceID *uuid.UUID) (*Account, error) {
	account, err := s.repo.GetAccountByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get loyalty account", zap.Error(err))
		return nil, common.NewInternalServerError("failed to earn points")
	}

	lifetimePoints := 0
	if account != nil {
		lifetimePoints = account.LifetimePoints
	}
	points := EarnedPoints(amount, TierFor(lifetimePoints).Multiplier)
	if points == 0 {
		return account, nil
	}

	updated, err := s.repo.EarnPoints(ctx, userID, points, description, referenceID)
	if err != nil {
		logger.Error("Failed to earn loyalty points", zap.Error(err))
		return nil, common.NewInternalServerError("failed to earn points")
	}

	logger.Info("Loyalty points earned",
		zap.String("user_id", userID.String()),
		zap.Int("points", points),
		zap.String("tier", string(updated.Tier)),
	)

	return updated, nil
}

// RedeemPoints spends points from the user's balance
func (s *Service) RedeemPoints(ctx context.Context, userID uuid.UUID, req *RedeemPointsRequest) (*Account, error) {
	if req.Points <= 0 {
		return nil, common.NewBadRequestError("points must be positive", nil)
	}

	description := req.Description
	if description == "" {
		description = "Points redemption"
	}

	account, err := s.repo.SpendPoints(ctx, userID, req.Points, description)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logger.Error("Failed to redeem loyalty points", zap.Error(err))
		return nil, common.NewInternalServerError("failed to redeem points")
	}

	logger.Info("Loyalty points redeemed",
		zap.String("user_id", userID.String()),
		zap.Int("points", req.Points),
	)

	return account, nil
}

// GetPointsHistory pages through a user's points ledger
func (s *Service) GetPointsHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]PointsTransaction, int64, error) {
	account, err := s.repo.GetAccountByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get loyalty account", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to get points history")
	}
	if account == nil {
		return nil, 0, nil
	}

	history, total, err := s.repo.GetPointsHistory(ctx, account.ID, limit, offset)
	if err != nil {
		logger.Error("Failed to get points history", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to get points history")
	}

	return history, total, nil
}
