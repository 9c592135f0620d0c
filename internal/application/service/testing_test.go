package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/pkg/money"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory SQLite database with the full schema.
// A single connection keeps the shared-cache memory database alive for the
// whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:billing_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.Denomination{},
		&entity.Purchase{},
		&entity.PurchaseItem{},
		&entity.ChangeDenomination{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedProduct inserts a product and returns it
func seedProduct(t *testing.T, db *gorm.DB, code, name, price, tax string, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Code:           code,
		Name:           name,
		Price:          money.MustParse(price),
		TaxPercentage:  money.MustParse(tax),
		AvailableStock: stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", code, err)
	}
	return product
}

// seedDenominations fills the till with the given face value counts
func seedDenominations(t *testing.T, db *gorm.DB, counts map[int64]int) {
	t.Helper()

	for value, count := range counts {
		denom := &entity.Denomination{Value: value, CountAvailable: count}
		if err := db.Create(denom).Error; err != nil {
			t.Fatalf("failed to seed denomination %d: %v", value, err)
		}
	}
}

// tillCount reads the current availability of one face value
func tillCount(t *testing.T, db *gorm.DB, value int64) int {
	t.Helper()

	var denom entity.Denomination
	if err := db.First(&denom, "value = ?", value).Error; err != nil {
		t.Fatalf("failed to read denomination %d: %v", value, err)
	}
	return denom.CountAvailable
}

// productStock reads the current stock of one product code
func productStock(t *testing.T, db *gorm.DB, code string) int {
	t.Helper()

	var product entity.Product
	if err := db.First(&product, "code = ?", code).Error; err != nil {
		t.Fatalf("failed to read product %s: %v", code, err)
	}
	return product.AvailableStock
}
