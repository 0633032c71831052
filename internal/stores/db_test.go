package stores

import (
	"context"
	"os"
	"testing"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/citycartapp/citycart-backend/pkg/types"
	"github.com/google/uuid"
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

func TestNearbyLocationsAgainstPostgres(t *testing.T) {
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

	store := models.Store{Name: "Geo Test Market", Slug: "geo-test-market-" + uuid.NewString()}
	if err := tx.Create(&store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}

	// roughly 0.7 miles from the query point
	near := models.StoreLocation{
		StoreID: store.ID, Name: "Near", AddressLine1: "1 Congress Ave",
		City: "Austin", State: "TX", PostalCode: "78701",
		Lat: 30.2672, Lng: -97.7431,
		Geog: types.GeographyPoint{Lat: 30.2672, Lng: -97.7431},
	}
	far := models.StoreLocation{
		StoreID: store.ID, Name: "Far", AddressLine1: "1 Main St",
		City: "Houston", State: "TX", PostalCode: "77002",
		Lat: 29.7604, Lng: -95.3698,
		Geog: types.GeographyPoint{Lat: 29.7604, Lng: -95.3698},
	}
	if err := tx.Create(&near).Error; err != nil {
		t.Fatalf("create near location: %v", err)
	}
	if err := tx.Create(&far).Error; err != nil {
		t.Fatalf("create far location: %v", err)
	}

	rows, err := repo.NearbyLocations(ctx, 30.2600, -97.7500, 5)
	if err != nil {
		t.Fatalf("nearby locations: %v", err)
	}

	var found *GeoRow
	for i := range rows {
		if rows[i].LocationID == near.ID {
			found = &rows[i]
		}
		if rows[i].LocationID == far.ID {
			t.Fatalf("far location should be outside the 5 mile radius")
		}
	}
	if found == nil {
		t.Fatalf("near location missing from result: %+v", rows)
	}
	if found.DistanceMiles <= 0 || found.DistanceMiles > 5 {
		t.Fatalf("unexpected distance %f", found.DistanceMiles)
	}
	if found.StoreName != store.Name {
		t.Fatalf("expected store name %q got %q", store.Name, found.StoreName)
	}
}
