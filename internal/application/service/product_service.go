package service

import (
	"context"
	"strconv"

	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"github.com/tillpoint/billing-api/pkg/money"
	"github.com/tillpoint/billing-api/pkg/pagination"
	"github.com/tillpoint/billing-api/pkg/utils"
)

// ProductService handles catalog management
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// UpsertProductInput carries the raw catalog form fields. Price, tax and
// stock arrive as strings; unparseable price/tax default to zero and stock
// clamps to non-negative, the permissive handling the till front end relies on.
type UpsertProductInput struct {
	Code  string
	Name  string
	Price string
	Tax   string
	Stock string
}

// UpsertProduct creates or updates a product keyed by its external code.
// A blank code gets a generated one (create only).
func (s *ProductService) UpsertProduct(ctx context.Context, input *UpsertProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}

	stock, err := strconv.Atoi(input.Stock)
	if err != nil || stock < 0 {
		stock = 0
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	product := &entity.Product{
		Code:           code,
		Name:           input.Name,
		Price:          money.Parse(input.Price),
		TaxPercentage:  money.Parse(input.Tax),
		AvailableStock: stock,
	}
	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByCode(ctx, code)
}

// GetProduct retrieves a product by code
func (s *ProductService) GetProduct(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with search and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// DeleteProduct removes a product from the catalog. Products referenced by
// settled purchase items are protected and cannot be deleted.
func (s *ProductService) DeleteProduct(ctx context.Context, code string) error {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	refs, err := s.productRepo.CountPurchaseItems(ctx, product.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperror.NewConflictError("Product has purchase history and cannot be deleted")
	}

	return s.productRepo.Delete(ctx, product.ID)
}
