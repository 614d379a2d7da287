package loyalty

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/pkg/eventbus"
	"github.com/richxcame/giftcard-service/pkg/logger"
)

// EventHandler accrues loyalty points from gift card lifecycle events
type EventHandler struct {
	service *Service
	bus     *eventbus.Bus
}

// NewEventHandler creates a new loyalty event handler
func NewEventHandler(service *Service, bus *eventbus.Bus) *EventHandler {
	return &EventHandler{service: service, bus: bus}
}

// Start subscribes to the events that accrue points. Purchased gift
// cards earn the purchaser points; promotional and corporate cards do
// not. Completed orders earn the buyer points on the order total.
func (h *EventHandler) Start(ctx context.Context) error {
	if err := h.bus.Subscribe(ctx, eventbus.SubjectGiftCardIssued, "loyalty-giftcard-issued", h.handleGiftCardIssued); err != nil {
		return err
	}
	return h.bus.Subscribe(ctx, eventbus.SubjectOrderCompleted, "loyalty-order-completed", h.handleOrderCompleted)
}

func (h *EventHandler) handleGiftCardIssued(ctx context.Context, event *eventbus.Event) error {
	var data eventbus.GiftCardIssuedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return err
	}

	if data.PurchaserID == nil || data.CardType != "purchased" {
		return nil
	}

	_, err := h.service.EarnFromSpend(ctx, *data.PurchaserID, data.Amount, "Gift card purchase", &data.CardID)
	if err != nil {
		logger.Error("Failed to accrue points for gift card purchase",
			zap.String("purchaser_id", data.PurchaserID.String()),
			zap.String("card_id", data.CardID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (h *EventHandler) handleOrderCompleted(ctx context.Context, event *eventbus.Event) error {
	var data eventbus.OrderCompletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return err
	}

	_, err := h.service.EarnFromSpend(ctx, data.UserID, data.Total, "Order completed", &data.OrderID)
	if err != nil {
		logger.Error("Failed to accrue points for completed order",
			zap.String("user_id", data.UserID.String()),
			zap.String("order_id", data.OrderID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
