package search

import (
	"context"
	"os"
	"testing"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CITYCART_DB_DSN")
	if dsn == "" {
		t.Skip("CITYCART_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func seedOfferedProduct(t *testing.T, tx *gorm.DB, name string, price decimal.Decimal) models.MasterProduct {
	t.Helper()

	store := models.Store{Name: "Search Test Market", Slug: "search-test-market-" + uuid.NewString()}
	if err := tx.Create(&store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	product := models.MasterProduct{
		Name:     name,
		Category: "grocery",
		Slug:     "search-test-" + uuid.NewString(),
	}
	if err := tx.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	record := models.InventoryRecord{
		StoreID:     store.ID,
		ProductID:   product.ID,
		Price:       price,
		Quantity:    3,
		IsAvailable: true,
	}
	if err := tx.Create(&record).Error; err != nil {
		t.Fatalf("create inventory record: %v", err)
	}
	return product
}

func TestMatchProductsAgainstPostgres(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	product := seedOfferedProduct(t, tx, "Organic Oat Milk", decimal.NewFromFloat(4.49))
	seedOfferedProduct(t, tx, "Cast Iron Skillet", decimal.NewFromFloat(29.99))

	matches, err := repo.MatchProducts(ctx, FuzzyQuery{
		Query:     "oat milk",
		Limit:     100,
		Threshold: 0.15,
	})
	if err != nil {
		t.Fatalf("match products: %v", err)
	}

	var found *FuzzyMatch
	for i := range matches {
		if matches[i].ProductID == product.ID {
			found = &matches[i]
		}
	}
	if found == nil {
		t.Fatalf("expected oat milk product in matches: %+v", matches)
	}
	if found.RelevanceScore < 0.15 {
		t.Fatalf("relevance below threshold: %f", found.RelevanceScore)
	}
	if found.StoreCount != 1 {
		t.Fatalf("expected one offering store got %d", found.StoreCount)
	}
	if !found.MinPrice.Equal(decimal.NewFromFloat(4.49)) {
		t.Fatalf("unexpected min price %s", found.MinPrice)
	}
}

func TestSearchProductsBySubstringAgainstPostgres(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	product := seedOfferedProduct(t, tx, "Sparkling Water 12pk", decimal.NewFromFloat(6.99))

	rows, err := repo.SearchProductsBySubstring(ctx, []string{"sparkling"}, "", 50)
	if err != nil {
		t.Fatalf("substring search: %v", err)
	}

	for _, row := range rows {
		if row.ID == product.ID {
			return
		}
	}
	t.Fatalf("expected sparkling water in substring results: %d rows", len(rows))
}
