package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tillpoint/billing-api/internal/application/service"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/billing-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/billing-api/pkg/pagination"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// UpsertProduct creates or updates a product keyed by code
// @Summary Upsert Product
// @Description Create or update a product keyed by its code
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.UpsertProductRequest true "Product data"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) UpsertProduct(c *gin.Context) {
	var req request.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpsertProduct(c.Request.Context(), &service.UpsertProductInput{
		Code:  req.Code,
		Name:  req.Name,
		Price: req.Price,
		Tax:   req.Tax,
		Stock: req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product saved", product)
}

// ListProducts lists products with search and pagination
// @Summary List Products
// @Description List products with optional search
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or code"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req request.ProductFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
	}
	params.Pagination.Validate()

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved", result)
}

// GetProduct retrieves a product by code
// @Summary Get Product
// @Description Get a product by its code
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param code path string true "Product code"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /products/{code} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	code := c.Param("code")

	product, err := h.productService.GetProduct(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved", product)
}

// DeleteProduct removes a product from the catalog
// @Summary Delete Product
// @Description Delete a product without purchase history
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param code path string true "Product code"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /products/{code} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	code := c.Param("code")

	if err := h.productService.DeleteProduct(c.Request.Context(), code); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted", nil)
}
