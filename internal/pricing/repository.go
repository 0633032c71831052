package pricing

import (
	"context"
	"database/sql"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer is one offerable inventory row joined to its active store and,
// when location-scoped, its active location.
type Offer struct {
	InventoryID      uuid.UUID
	ProductID        uuid.UUID
	StoreID          uuid.UUID
	StoreName        string
	StoreSlug        string
	StoreLogoURL     *string
	StoreRating      float64
	ReviewCount      int
	LocationID       *uuid.UUID
	LocationName     string
	LocationDelivery *bool
	LocationPickup   *bool
	Price            decimal.Decimal
	OriginalPrice    *decimal.Decimal
	Quantity         int
}

const offersByProductIDsQuery = `
SELECT i.id AS inventory_id,
       i.product_id,
       i.store_id,
       s.name AS store_name,
       s.slug AS store_slug,
       s.logo_url AS store_logo_url,
       s.rating AS store_rating,
       s.review_count,
       i.location_id,
       l.name AS location_name,
       l.delivery_available AS location_delivery,
       l.pickup_available AS location_pickup,
       i.price,
       i.original_price,
       i.quantity
FROM inventory_records i
JOIN stores s ON s.id = i.store_id AND s.is_active = TRUE
LEFT JOIN store_locations l ON l.id = i.location_id AND l.is_active = TRUE
WHERE i.product_id IN ?
  AND i.is_available = TRUE
  AND i.quantity > 0
`

const offersByStoreIDQuery = `
SELECT i.id AS inventory_id,
       i.product_id,
       i.store_id,
       s.name AS store_name,
       s.slug AS store_slug,
       s.logo_url AS store_logo_url,
       s.rating AS store_rating,
       s.review_count,
       i.location_id,
       l.name AS location_name,
       l.delivery_available AS location_delivery,
       l.pickup_available AS location_pickup,
       i.price,
       i.original_price,
       i.quantity
FROM inventory_records i
JOIN stores s ON s.id = i.store_id AND s.is_active = TRUE
LEFT JOIN store_locations l ON l.id = i.location_id AND l.is_active = TRUE
WHERE i.store_id = ?
  AND i.is_available = TRUE
  AND i.quantity > 0
ORDER BY i.product_id
`

type offerRecord struct {
	InventoryID      uuid.UUID           `gorm:"column:inventory_id"`
	ProductID        uuid.UUID           `gorm:"column:product_id"`
	StoreID          uuid.UUID           `gorm:"column:store_id"`
	StoreName        string              `gorm:"column:store_name"`
	StoreSlug        string              `gorm:"column:store_slug"`
	StoreLogoURL     sql.NullString      `gorm:"column:store_logo_url"`
	StoreRating      float64             `gorm:"column:store_rating"`
	ReviewCount      int                 `gorm:"column:review_count"`
	LocationID       uuid.NullUUID       `gorm:"column:location_id"`
	LocationName     sql.NullString      `gorm:"column:location_name"`
	LocationDelivery sql.NullBool        `gorm:"column:location_delivery"`
	LocationPickup   sql.NullBool        `gorm:"column:location_pickup"`
	Price            decimal.Decimal     `gorm:"column:price"`
	OriginalPrice    decimal.NullDecimal `gorm:"column:original_price"`
	Quantity         int                 `gorm:"column:quantity"`
}

func (rec offerRecord) toOffer() Offer {
	offer := Offer{
		InventoryID: rec.InventoryID,
		ProductID:   rec.ProductID,
		StoreID:     rec.StoreID,
		StoreName:   rec.StoreName,
		StoreSlug:   rec.StoreSlug,
		StoreRating: rec.StoreRating,
		ReviewCount: rec.ReviewCount,
		Price:       rec.Price,
		Quantity:    rec.Quantity,
	}
	if rec.StoreLogoURL.Valid {
		logo := rec.StoreLogoURL.String
		offer.StoreLogoURL = &logo
	}
	if rec.LocationID.Valid {
		id := rec.LocationID.UUID
		offer.LocationID = &id
	}
	if rec.LocationName.Valid {
		offer.LocationName = rec.LocationName.String
	}
	if rec.LocationDelivery.Valid {
		v := rec.LocationDelivery.Bool
		offer.LocationDelivery = &v
	}
	if rec.LocationPickup.Valid {
		v := rec.LocationPickup.Bool
		offer.LocationPickup = &v
	}
	if rec.OriginalPrice.Valid {
		price := rec.OriginalPrice.Decimal
		offer.OriginalPrice = &price
	}
	return offer
}

// Repository reads offerable inventory and catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListOffersByProductIDs returns the offerable inventory rows for the given
// products, joined to active stores only.
func (r *Repository) ListOffersByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]Offer, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var records []offerRecord
	if err := r.db.WithContext(ctx).Raw(offersByProductIDsQuery, productIDs).Scan(&records).Error; err != nil {
		return nil, err
	}
	offers := make([]Offer, 0, len(records))
	for _, rec := range records {
		offers = append(offers, rec.toOffer())
	}
	return offers, nil
}

// ListOffersByStoreID returns every offerable inventory row at one store.
func (r *Repository) ListOffersByStoreID(ctx context.Context, storeID uuid.UUID) ([]Offer, error) {
	var records []offerRecord
	if err := r.db.WithContext(ctx).Raw(offersByStoreIDQuery, storeID).Scan(&records).Error; err != nil {
		return nil, err
	}
	offers := make([]Offer, 0, len(records))
	for _, rec := range records {
		offers = append(offers, rec.toOffer())
	}
	return offers, nil
}

// FindProductByID loads an active catalog product.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.MasterProduct, error) {
	var product models.MasterProduct
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = TRUE", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductsByIDs loads the active catalog products for the given ids.
func (r *Repository) ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MasterProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.MasterProduct
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = TRUE", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
