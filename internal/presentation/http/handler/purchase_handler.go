package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tillpoint/billing-api/internal/application/service"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/billing-api/pkg/pagination"
	"github.com/tillpoint/billing-api/pkg/utils"
)

// PurchaseHandler handles purchase history HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// ListPurchases lists settled purchases newest first
// @Summary List Purchases
// @Description List purchases, optionally filtered by customer email
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param email query string false "Filter by customer email (case-insensitive exact match)"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	var req request.PurchaseFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PurchaseFilterParams{
		Pagination:    &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		CustomerEmail: req.Email,
	}
	params.Pagination.Validate()

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved", result)
}

// GetPurchase retrieves a purchase with items and change
// @Summary Get Purchase
// @Description Get a settled purchase with its items and change breakdown
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param id path string true "Purchase ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase ID")
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved", purchase)
}
