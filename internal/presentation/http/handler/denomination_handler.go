package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tillpoint/billing-api/internal/application/service"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/response"
)

// DenominationHandler handles till denomination HTTP requests
type DenominationHandler struct {
	tillService *service.TillService
}

// NewDenominationHandler creates a new denomination handler
func NewDenominationHandler(tillService *service.TillService) *DenominationHandler {
	return &DenominationHandler{tillService: tillService}
}

// UpsertDenomination creates or updates a denomination keyed by face value
// @Summary Upsert Denomination
// @Description Create or update a till denomination keyed by face value
// @Tags denominations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.UpsertDenominationRequest true "Denomination data"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /denominations [post]
func (h *DenominationHandler) UpsertDenomination(c *gin.Context) {
	var req request.UpsertDenominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	denom, err := h.tillService.UpsertDenomination(c.Request.Context(), &service.UpsertDenominationInput{
		Value: req.Value,
		Count: req.Count,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Denomination saved", denom)
}

// ListDenominations lists the till contents
// @Summary List Denominations
// @Description List till denominations ordered by face value descending
// @Tags denominations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /denominations [get]
func (h *DenominationHandler) ListDenominations(c *gin.Context) {
	denoms, err := h.tillService.ListTill(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Denominations retrieved", denoms)
}
