package loyalty

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/middleware"
	"github.com/richxcame/giftcard-service/pkg/pagination"
)

// Handler handles HTTP requests for loyalty
type Handler struct {
	service *Service
}

// NewHandler creates a new loyalty handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStatus returns the caller's loyalty standing
// GET /api/v1/loyalty/status
func (h *Handler) GetStatus(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get loyalty status")
		return
	}

	common.SuccessResponse(c, status)
}

// RedeemPoints spends points from the caller's balance
// POST /api/v1/loyalty/redeem
func (h *Handler) RedeemPoints(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.RedeemPoints(c.Request.Context(), userID, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to redeem points")
		return
	}

	common.SuccessResponse(c, account)
}

// GetHistory pages through the caller's points ledger
// GET /api/v1/loyalty/history
func (h *Handler) GetHistory(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	history, total, err := h.service.GetPointsHistory(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get points history")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, history, meta)
}
