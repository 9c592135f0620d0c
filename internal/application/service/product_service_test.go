package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainRepo "github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/internal/infrastructure/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"github.com/tillpoint/billing-api/pkg/money"
	"github.com/tillpoint/billing-api/pkg/pagination"
	"gorm.io/gorm"
)

func newProductService(db *gorm.DB) *ProductService {
	return NewProductService(repository.NewProductRepository(db))
}

func TestUpsertProduct_Create(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	product, err := svc.UpsertProduct(context.Background(), &UpsertProductInput{
		Code:  "SODA",
		Name:  "Soda Can",
		Price: "12.50",
		Tax:   "5",
		Stock: "10",
	})
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "SODA", product.Code)
	assert.True(t, product.Price.Equal(money.MustParse("12.50")))
	assert.True(t, product.TaxPercentage.Equal(money.MustParse("5")))
	assert.Equal(t, 10, product.AvailableStock)
}

func TestUpsertProduct_UpdateByCode(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	_, err := svc.UpsertProduct(context.Background(), &UpsertProductInput{
		Code: "SODA", Name: "Soda Can", Price: "12.50", Tax: "5", Stock: "10",
	})
	require.NoError(t, err)

	product, err := svc.UpsertProduct(context.Background(), &UpsertProductInput{
		Code: "SODA", Name: "Soda Can 330ml", Price: "13.00", Tax: "5", Stock: "25",
	})
	require.NoError(t, err)

	assert.Equal(t, "Soda Can 330ml", product.Name)
	assert.True(t, product.Price.Equal(money.MustParse("13.00")))
	assert.Equal(t, 25, product.AvailableStock)

	// Still one row
	result, err := svc.ListProducts(context.Background(), &domainRepo.ProductFilterParams{
		Pagination: pagination.DefaultPagination(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Pagination.Total)
}

func TestUpsertProduct_PermissiveParsing(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	// Garbage price/tax/stock fall back to zero instead of failing
	product, err := svc.UpsertProduct(context.Background(), &UpsertProductInput{
		Code:  "JUNK",
		Name:  "Junk Item",
		Price: "cheap",
		Tax:   "",
		Stock: "-3",
	})
	require.NoError(t, err)

	assert.True(t, product.Price.IsZero(), "price: %s", product.Price)
	assert.True(t, product.TaxPercentage.IsZero())
	assert.Zero(t, product.AvailableStock)
}

func TestUpsertProduct_BlankCodeGetsGenerated(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	product, err := svc.UpsertProduct(context.Background(), &UpsertProductInput{
		Name: "Mystery Item", Price: "1.00",
	})
	require.NoError(t, err)
	assert.Len(t, product.Code, 8)
}

func TestUpsertProduct_NameRequired(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	_, err := svc.UpsertProduct(context.Background(), &UpsertProductInput{
		Code: "SODA", Price: "1.00",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	_, err := svc.GetProduct(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestListProducts_Search(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "12.50", "5", 10)
	seedProduct(t, db, "CHIP", "Potato Chips", "30.00", "12", 4)
	svc := newProductService(db)

	result, err := svc.ListProducts(context.Background(), &domainRepo.ProductFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "soda",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "SODA", result.Items[0].Code)
	assert.Equal(t, int64(1), result.Pagination.Total)
}

func TestDeleteProduct(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "12.50", "5", 10)
	svc := newProductService(db)

	require.NoError(t, svc.DeleteProduct(context.Background(), "SODA"))

	_, err := svc.GetProduct(context.Background(), "SODA")
	require.Error(t, err)
}

func TestDeleteProduct_ProtectedByPurchaseHistory(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "0", 10)
	svc := newProductService(db)

	billing := newBillingService(db, nil)
	_, err := billing.Settle(context.Background(), &SettleInput{
		CustomerEmail: "kate@example.com",
		PaidAmount:    "100",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.DeleteProduct(context.Background(), "SODA")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	// The product is still there
	_, err = svc.GetProduct(context.Background(), "SODA")
	assert.NoError(t, err)
}
