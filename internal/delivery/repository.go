package delivery

import (
	"context"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository loads delivery settings rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByStoreIDs returns the settings rows for the given stores. Stores
// without a row are simply not present in the result.
func (r *Repository) ListByStoreIDs(ctx context.Context, storeIDs []uuid.UUID) ([]models.DeliverySettings, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var rows []models.DeliverySettings
	if err := r.db.WithContext(ctx).
		Where("store_id IN ?", storeIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
