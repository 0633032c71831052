package delivery

import (
	"context"
	"testing"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDeliveryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS delivery_settings (
  store_id TEXT PRIMARY KEY,
  delivery_enabled INTEGER,
  pickup_enabled INTEGER,
  delivery_fee TEXT,
  minimum_order TEXT,
  free_delivery_threshold TEXT,
  delivery_radius_miles REAL,
  estimated_delivery_time TEXT,
  estimated_pickup_time TEXT,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestListByStoreIDsReturnsOnlyExistingRows(t *testing.T) {
	db := setupDeliveryTestDB(t)
	repo := NewRepository(db)

	configured := uuid.New()
	fee := decimal.NewFromFloat(2.50)
	require.NoError(t, db.Create(&models.DeliverySettings{
		StoreID:     configured,
		DeliveryFee: &fee,
	}).Error)

	rows, err := repo.ListByStoreIDs(context.Background(), []uuid.UUID{configured, uuid.New()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, configured, rows[0].StoreID)
	require.NotNil(t, rows[0].DeliveryFee)
	assert.True(t, rows[0].DeliveryFee.Equal(fee))
	assert.Nil(t, rows[0].DeliveryEnabled)
}

func TestListByStoreIDsEmptyInput(t *testing.T) {
	db := setupDeliveryTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.ListByStoreIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
}
