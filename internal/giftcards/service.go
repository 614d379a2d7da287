package giftcards

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/eventbus"
	"github.com/richxcame/giftcard-service/pkg/logger"
)

// ErrCodeGenerationExhausted signals that generating a unique code
// failed repeatedly. With a 32^16 keyspace this means something is
// systemically wrong (bad random source, runaway table), not bad luck.
var ErrCodeGenerationExhausted = errors.New("exhausted attempts to generate a unique gift card code")

// Service handles gift card business logic
type Service struct {
	repo     RepositoryInterface
	payments PaymentProcessor
	bus      EventPublisher
	cfg      config.GiftCardConfig
}

// NewService creates a new gift card service. payments and bus may be
// nil when Stripe or NATS are disabled.
func NewService(repo RepositoryInterface, payments PaymentProcessor, bus EventPublisher, cfg config.GiftCardConfig) *Service {
	if cfg.MaxCodeGenAttempts <= 0 {
		cfg.MaxCodeGenAttempts = 10
	}
	if cfg.DefaultExpiryDays <= 0 {
		cfg.DefaultExpiryDays = DefaultExpiryDays
	}
	return &Service{
		repo:     repo,
		payments: payments,
		bus:      bus,
		cfg:      cfg,
	}
}

// ========================================
// ISSUING
// ========================================

// PurchaseCard charges the purchaser and issues a card
func (s *Service) PurchaseCard(ctx context.Context, purchaserID uuid.UUID, req *PurchaseGiftCardRequest) (*GiftCard, error) {
	if req.Amount < s.cfg.MinAmount || req.Amount > s.cfg.MaxAmount {
		return nil, common.NewBadRequestError("gift card amount out of range", nil)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	if s.payments != nil {
		if _, err := s.payments.ChargeGiftCardPurchase(ctx, purchaserID, req.Amount, currency); err != nil {
			return nil, err
		}
	}

	card, err := s.issueCard(ctx, issueParams{
		amount:         req.Amount,
		currency:       currency,
		cardType:       CardTypePurchased,
		purchaserID:    &purchaserID,
		recipientEmail: req.RecipientEmail,
		recipientName:  req.RecipientName,
		message:        req.Message,
		expiresInDays:  req.ExpiresInDays,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Gift card purchased",
		zap.String("card_id", card.ID.String()),
		zap.String("purchaser_id", purchaserID.String()),
		zap.Float64("amount", req.Amount),
	)

	return card, nil
}

// CreateCard issues a single card directly, without charging anyone.
// Used for admin-issued promotional and goodwill cards.
func (s *Service) CreateCard(ctx context.Context, req *CreateCardRequest) (*GiftCard, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	cardType := req.CardType
	if cardType == "" {
		cardType = CardTypePromotional
	}

	card, err := s.issueCard(ctx, issueParams{
		amount:         req.Amount,
		currency:       currency,
		cardType:       cardType,
		recipientEmail: req.RecipientEmail,
		recipientName:  req.RecipientName,
		message:        req.Message,
		expiresInDays:  req.ExpiresInDays,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Gift card created",
		zap.String("card_id", card.ID.String()),
		zap.String("card_type", string(card.CardType)),
		zap.Float64("amount", req.Amount),
	)

	return card, nil
}

// CreateBulk issues a batch of promotional or corporate cards
func (s *Service) CreateBulk(ctx context.Context, req *CreateBulkRequest) (*BulkCreateResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	now := time.Now()
	expiresAt := s.expiryFor(now, req.ExpiresInDays)

	cards := make([]*GiftCard, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		code, err := s.generateUniqueCode(ctx)
		if err != nil {
			return nil, err
		}
		cards = append(cards, &GiftCard{
			ID:             uuid.New(),
			Code:           code,
			CardType:       req.CardType,
			Status:         CardStatusActive,
			InitialBalance: req.Amount,
			CurrentBalance: req.Amount,
			Currency:       currency,
			ExpiresAt:      expiresAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := s.repo.CreateCards(ctx, cards); err != nil {
		logger.Error("Failed to create bulk gift cards", zap.Error(err), zap.Int("count", req.Count))
		return nil, common.NewInternalServerError("failed to create gift cards")
	}

	response := &BulkCreateResponse{
		Count: len(cards),
		Total: float64(len(cards)) * req.Amount,
	}
	for _, card := range cards {
		cardsIssuedTotal.WithLabelValues(string(card.CardType)).Inc()
		s.publishIssued(ctx, card)
		response.Cards = append(response.Cards, *card)
	}

	logger.Info("Bulk gift cards created",
		zap.Int("count", req.Count),
		zap.Float64("total_value", response.Total),
		zap.String("card_type", string(req.CardType)),
	)

	return response, nil
}

type issueParams struct {
	amount         float64
	currency       string
	cardType       CardType
	purchaserID    *uuid.UUID
	recipientEmail *string
	recipientName  *string
	message        *string
	expiresInDays  *int
}

func (s *Service) issueCard(ctx context.Context, p issueParams) (*GiftCard, error) {
	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	card := &GiftCard{
		ID:             uuid.New(),
		Code:           code,
		CardType:       p.cardType,
		Status:         CardStatusActive,
		InitialBalance: p.amount,
		CurrentBalance: p.amount,
		Currency:       p.currency,
		PurchaserID:    p.purchaserID,
		RecipientEmail: p.recipientEmail,
		RecipientName:  p.recipientName,
		Message:        p.message,
		ExpiresAt:      s.expiryFor(now, p.expiresInDays),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateCard(ctx, card); err != nil {
		logger.Error("Failed to create gift card", zap.Error(err))
		return nil, common.NewInternalServerError("failed to create gift card")
	}

	cardsIssuedTotal.WithLabelValues(string(card.CardType)).Inc()
	s.publishIssued(ctx, card)

	return card, nil
}

// expiryFor resolves a card's expiry date. An omitted override uses the
// configured default; an explicit zero issues a card that never expires.
func (s *Service) expiryFor(now time.Time, override *int) *time.Time {
	days := s.cfg.DefaultExpiryDays
	if override != nil {
		if *override <= 0 {
			return nil
		}
		days = *override
	}
	return CalculateExpiration(now, &days)
}

// generateUniqueCode retries generation on collision. The bound exists
// to fail loudly instead of spinning if codes stop being unique.
func (s *Service) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.cfg.MaxCodeGenAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		codeCollisionsTotal.Inc()
		logger.Warn("Gift card code collision", zap.Int("attempt", attempt+1))
	}
	return "", ErrCodeGenerationExhausted
}

// ========================================
// LOOKUP
// ========================================

// GetByCode fetches a card by its user-presented code. An invalid
// format short-circuits without a database round-trip.
func (s *Service) GetByCode(ctx context.Context, code string) (*GiftCard, error) {
	normalized := NormalizeCode(code)
	if !IsValidCodeFormat(normalized) {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}

	card, err := s.repo.GetCardByCode(ctx, normalized)
	if err != nil {
		logger.Error("Failed to get gift card", zap.Error(err))
		return nil, common.NewInternalServerError("failed to get gift card")
	}
	if card == nil {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}

	return card, nil
}

// GetByID fetches a card by its internal ID, for admin lookups
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*GiftCard, error) {
	card, err := s.repo.GetCardByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get gift card", zap.Error(err))
		return nil, common.NewInternalServerError("failed to get gift card")
	}
	if card == nil {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}

	return card, nil
}

// CheckBalance reports a card's balance and whether it can be used now
func (s *Service) CheckBalance(ctx context.Context, code string) (*CheckBalanceResponse, error) {
	card, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	validation := ValidateForUse(card)
	return &CheckBalanceResponse{
		Code:           FormatCodeForDisplay(card.Code),
		Status:         card.Status,
		InitialBalance: card.InitialBalance,
		CurrentBalance: card.CurrentBalance,
		Currency:       card.Currency,
		ExpiresAt:      card.ExpiresAt,
		IsValid:        validation.Valid,
		InvalidReason:  validation.Reason,
	}, nil
}

// ListPurchased returns cards a user purchased, most recent first
func (s *Service) ListPurchased(ctx context.Context, userID uuid.UUID, limit, offset int) ([]GiftCard, int64, error) {
	cards, total, err := s.repo.ListPurchasedBy(ctx, userID, limit, offset)
	if err != nil {
		logger.Error("Failed to list purchased gift cards", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to list gift cards")
	}
	return cards, total, nil
}

// GetTransactionsByOrder returns ledger entries tied to an order so
// callers can dedupe redeliveries before redeeming again
func (s *Service) GetTransactionsByOrder(ctx context.Context, orderID uuid.UUID) ([]GiftCardTransaction, error) {
	transactions, err := s.repo.GetTransactionsByOrder(ctx, orderID)
	if err != nil {
		logger.Error("Failed to get order transactions", zap.Error(err))
		return nil, common.NewInternalServerError("failed to get transactions")
	}
	return transactions, nil
}

// ========================================
// LEDGER
// ========================================

// Redeem applies up to amount of a card's balance against an order.
// Requesting more than the balance caps at the balance; the checkout
// caller covers the remainder by other means. A zero amount succeeds
// without writing a ledger row.
func (s *Service) Redeem(ctx context.Context, code string, amount float64, orderID *uuid.UUID) (*RedeemResult, error) {
	if amount < 0 {
		return nil, common.NewBadRequestError("redemption amount cannot be negative", nil)
	}

	normalized := NormalizeCode(code)
	if !IsValidCodeFormat(normalized) {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}

	result, err := s.repo.Redeem(ctx, normalized, amount, orderID)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == http.StatusUnprocessableEntity {
				rejectionsTotal.WithLabelValues(appErr.Message).Inc()
			}
			return nil, appErr
		}
		logger.Error("Failed to redeem gift card", zap.Error(err))
		return nil, common.NewInternalServerError("failed to redeem gift card")
	}

	redemptionsTotal.Inc()
	redeemedAmountTotal.Add(result.AmountApplied)

	logger.Info("Gift card redeemed",
		zap.String("code", FormatCodeForDisplay(normalized)),
		zap.Float64("amount_applied", result.AmountApplied),
		zap.Float64("remaining_balance", result.RemainingBalance),
	)

	if s.bus != nil && result.AmountApplied > 0 {
		event := eventbus.GiftCardRedeemedData{
			CardID:           result.CardID,
			OrderID:          orderID,
			AmountApplied:    result.AmountApplied,
			RemainingBalance: result.RemainingBalance,
		}
		if err := s.bus.Publish(ctx, eventbus.SubjectGiftCardRedeemed, event); err != nil {
			logger.Warn("Failed to publish redemption event", zap.Error(err))
		}
	}

	return result, nil
}

// Refund credits amount back to a card after an order cancellation.
// The balance never exceeds the initially issued amount; a redeemed
// card reactivates when its balance comes back above zero.
func (s *Service) Refund(ctx context.Context, cardID uuid.UUID, amount float64, orderID *uuid.UUID) (*RefundResult, error) {
	if amount <= 0 {
		return nil, common.NewBadRequestError("refund amount must be positive", nil)
	}

	result, err := s.repo.Refund(ctx, cardID, amount, orderID)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logger.Error("Failed to refund gift card", zap.Error(err))
		return nil, common.NewInternalServerError("failed to refund gift card")
	}

	refundsTotal.Inc()

	logger.Info("Gift card refunded",
		zap.String("card_id", cardID.String()),
		zap.Float64("amount_requested", result.AmountRequested),
		zap.Float64("amount_credited", result.AmountCredited),
		zap.Float64("new_balance", result.NewBalance),
	)

	if s.bus != nil {
		event := eventbus.GiftCardRefundedData{
			CardID:          cardID,
			OrderID:         orderID,
			AmountRequested: result.AmountRequested,
			AmountCredited:  result.AmountCredited,
			NewBalance:      result.NewBalance,
		}
		if err := s.bus.Publish(ctx, eventbus.SubjectGiftCardRefunded, event); err != nil {
			logger.Warn("Failed to publish refund event", zap.Error(err))
		}
	}

	return result, nil
}

// DisableCard cancels a card permanently. Cancellation is an admin
// action outside the ledger; it writes no transaction row and is not
// reversible through redemption or refund.
func (s *Service) DisableCard(ctx context.Context, cardID uuid.UUID) (*GiftCard, error) {
	card, err := s.repo.DisableCard(ctx, cardID)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logger.Error("Failed to disable gift card", zap.Error(err))
		return nil, common.NewInternalServerError("failed to disable gift card")
	}

	cardsDisabledTotal.Inc()
	logger.Info("Gift card disabled", zap.String("card_id", cardID.String()))

	return card, nil
}

// ========================================
// MAINTENANCE
// ========================================

// SweepExpired transitions active cards past their expiry to expired
// and returns how many were affected. Runs on a periodic trigger.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpireCards(ctx)
	if err != nil {
		logger.Error("Failed to sweep expired gift cards", zap.Error(err))
		return 0, err
	}

	if count > 0 {
		expiredSweptTotal.Add(float64(count))
		logger.Info("Expired gift cards swept", zap.Int64("count", count))

		if s.bus != nil {
			event := eventbus.GiftCardExpiredData{ExpiredCount: int(count)}
			if err := s.bus.Publish(ctx, eventbus.SubjectGiftCardExpired, event); err != nil {
				logger.Warn("Failed to publish expiry event", zap.Error(err))
			}
		}
	}

	return count, nil
}

func (s *Service) publishIssued(ctx context.Context, card *GiftCard) {
	if s.bus == nil {
		return
	}
	event := eventbus.GiftCardIssuedData{
		CardID:      card.ID,
		PurchaserID: card.PurchaserID,
		Amount:      card.InitialBalance,
		Currency:    card.Currency,
		CardType:    string(card.CardType),
	}
	if err := s.bus.Publish(ctx, eventbus.SubjectGiftCardIssued, event); err != nil {
		logger.Warn("Failed to publish issued event", zap.Error(err))
	}
}
