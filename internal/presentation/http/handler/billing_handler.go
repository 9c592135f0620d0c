package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tillpoint/billing-api/internal/application/service"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/response"
)

// BillingHandler handles settlement HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Settle finalizes a purchase
// @Summary Settle Purchase
// @Description Validate the cart, compute totals, take payment and make change atomically
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.SettleRequest true "Checkout submission"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /billing/settle [post]
func (h *BillingHandler) Settle(c *gin.Context) {
	var req request.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lines := make([]service.CartLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, service.CartLineInput{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
		})
	}

	purchase, err := h.billingService.Settle(c.Request.Context(), &service.SettleInput{
		CustomerEmail: req.CustomerEmail,
		PaidAmount:    req.PaidAmount,
		Lines:         lines,
		TillCounts:    req.TillCounts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase settled", purchase)
}
