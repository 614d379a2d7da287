package giftcards

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/middleware"
	"github.com/richxcame/giftcard-service/pkg/pagination"
)

// Handler handles HTTP requests for gift cards
type Handler struct {
	service *Service
}

// NewHandler creates a new gift card handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ========================================
// CARD ENDPOINTS
// ========================================

// PurchaseCard purchases a new gift card
// POST /api/v1/gift-cards
func (h *Handler) PurchaseCard(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PurchaseGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.service.PurchaseCard(c.Request.Context(), userID, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to purchase gift card")
		return
	}

	common.CreatedResponse(c, card)
}

// CreateCard issues a single card without charging anyone
// POST /api/v1/admin/gift-cards
func (h *Handler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.service.CreateCard(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create gift card")
		return
	}

	common.CreatedResponse(c, card)
}

// CreateBulk creates a batch of promotional or corporate cards
// POST /api/v1/admin/gift-cards/bulk
func (h *Handler) CreateBulk(c *gin.Context) {
	var req CreateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.service.CreateBulk(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create gift cards")
		return
	}

	common.CreatedResponse(c, response)
}

// GetCard looks up a card by its internal ID
// GET /api/v1/admin/gift-cards/:id
func (h *Handler) GetCard(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid gift card ID")
		return
	}

	card, err := h.service.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get gift card")
		return
	}

	common.SuccessResponse(c, card)
}

// CheckBalance looks up a card's balance and usability by code
// GET /api/v1/gift-cards/:code/balance
func (h *Handler) CheckBalance(c *gin.Context) {
	response, err := h.service.CheckBalance(c.Request.Context(), c.Param("code"))
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to check balance")
		return
	}

	common.SuccessResponse(c, response)
}

// ListPurchased lists the caller's purchased cards
// GET /api/v1/gift-cards
func (h *Handler) ListPurchased(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	cards, total, err := h.service.ListPurchased(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list gift cards")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, cards, meta)
}

// ========================================
// LEDGER ENDPOINTS
// ========================================

// Redeem applies a card's balance against an order
// POST /api/v1/gift-cards/redeem
func (h *Handler) Redeem(c *gin.Context) {
	var req RedeemGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Redeem(c.Request.Context(), req.Code, req.Amount, req.OrderID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to redeem gift card")
		return
	}

	common.SuccessResponse(c, result)
}

// Refund restores balance to a card after an order cancellation
// POST /api/v1/admin/gift-cards/refund
func (h *Handler) Refund(c *gin.Context) {
	var req RefundGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Refund(c.Request.Context(), req.GiftCardID, req.Amount, req.OrderID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to refund gift card")
		return
	}

	common.SuccessResponse(c, result)
}

// GetOrderTransactions lists ledger entries correlated to an order
// GET /api/v1/admin/orders/:id/gift-card-transactions
func (h *Handler) GetOrderTransactions(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	transactions, err := h.service.GetTransactionsByOrder(c.Request.Context(), orderID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get transactions")
		return
	}

	common.SuccessResponse(c, transactions)
}

// DisableCard permanently cancels a card
// POST /api/v1/admin/gift-cards/:id/disable
func (h *Handler) DisableCard(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid gift card ID")
		return
	}

	card, err := h.service.DisableCard(c.Request.Context(), cardID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to disable gift card")
		return
	}

	common.SuccessResponse(c, card)
}

// SweepExpired triggers an expiry sweep on demand
// POST /api/v1/admin/gift-cards/sweep
func (h *Handler) SweepExpired(c *gin.Context) {
	count, err := h.service.SweepExpired(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to sweep expired gift cards")
		return
	}

	common.SuccessResponse(c, gin.H{"expired_count": count})
}
