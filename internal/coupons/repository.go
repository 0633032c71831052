package coupons

import (
	"context"
	"time"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository loads coupon rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListEligibleByStoreIDs returns coupons that are active and inside their
// date window at the supplied moment, for the given stores.
func (r *Repository) ListEligibleByStoreIDs(ctx context.Context, storeIDs []uuid.UUID, now time.Time) ([]models.Coupon, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var rows []models.Coupon
	if err := r.db.WithContext(ctx).
		Where("store_id IN ?", storeIDs).
		Where("is_active = TRUE").
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
