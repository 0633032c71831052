package stores

import (
	"context"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const metersPerMile = 1609.344

// GeoRow is one geospatial hit: an active location within radius, joined to
// its active store, with denormalized names so callers can render a result
// even if the metadata fetch later fails.
type GeoRow struct {
	StoreID       uuid.UUID `gorm:"column:store_id" json:"store_id"`
	StoreName     string    `gorm:"column:store_name" json:"store_name"`
	LocationID    uuid.UUID `gorm:"column:location_id" json:"location_id"`
	LocationName  string    `gorm:"column:location_name" json:"location_name"`
	DistanceMiles float64   `gorm:"column:distance_miles" json:"distance_miles"`
}

const nearbyLocationsQuery = `
SELECT s.id AS store_id,
       s.name AS store_name,
       l.id AS location_id,
       l.name AS location_name,
       ST_Distance(l.geog, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) / ? AS distance_miles
FROM store_locations l
JOIN stores s ON s.id = l.store_id AND s.is_active = TRUE
WHERE l.is_active = TRUE
  AND ST_DWithin(l.geog, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ? * ?)
ORDER BY distance_miles ASC
`

// Repository reads stores, locations, and the geospatial index.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NearbyLocations returns active locations of active stores within the
// radius, nearest first.
func (r *Repository) NearbyLocations(ctx context.Context, lat, lng, radiusMiles float64) ([]GeoRow, error) {
	var rows []GeoRow
	if err := r.db.WithContext(ctx).
		Raw(nearbyLocationsQuery, lng, lat, metersPerMile, lng, lat, radiusMiles, metersPerMile).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveStoresByIDs batch-loads active store metadata.
func (r *Repository) ListActiveStoresByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = TRUE", ids).
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ListActiveLocationsByIDs batch-loads active location metadata.
func (r *Repository) ListActiveLocationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StoreLocation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var locations []models.StoreLocation
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = TRUE", ids).
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindActiveStoreByID loads one active store with its active locations.
func (r *Repository) FindActiveStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Preload("Locations", "is_active = TRUE").
		Where("id = ? AND is_active = TRUE", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
