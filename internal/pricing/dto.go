package pricing

import (
	"github.com/citycartapp/citycart-backend/internal/coupons"
	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// defaultLocationName labels offers that are not scoped to a specific
// storefront.
const defaultLocationName = "Main Location"

// StorePrice is one store's fully enriched offer on one product.
//
// Rating and Coupons are populated per call site: the single-product detail
// path carries both, while list and search paths report rating 0 and an
// empty coupon list to bound per-request fan-out. That variance is part of
// the response contract.
type StorePrice struct {
	InventoryID           uuid.UUID           `json:"inventory_id"`
	StoreID               uuid.UUID           `json:"store_id"`
	StoreName             string              `json:"store_name"`
	StoreSlug             string              `json:"store_slug"`
	StoreLogoURL          *string             `json:"store_logo_url,omitempty"`
	StoreRating           float64             `json:"store_rating"`
	ReviewCount           int                 `json:"review_count"`
	LocationID            *uuid.UUID          `json:"location_id,omitempty"`
	LocationName          string              `json:"location_name"`
	DistanceMiles         float64             `json:"distance_miles"`
	Price                 decimal.Decimal     `json:"price"`
	OriginalPrice         *decimal.Decimal    `json:"original_price,omitempty"`
	InStock               bool                `json:"in_stock"`
	Quantity              int                 `json:"quantity"`
	DeliveryAvailable     bool                `json:"delivery_available"`
	PickupAvailable       bool                `json:"pickup_available"`
	DeliveryFee           decimal.Decimal     `json:"delivery_fee"`
	MinimumOrder          decimal.Decimal     `json:"minimum_order"`
	FreeDeliveryThreshold *decimal.Decimal    `json:"free_delivery_threshold,omitempty"`
	EstimatedDeliveryTime string              `json:"estimated_delivery_time"`
	EstimatedPickupTime   string              `json:"estimated_pickup_time"`
	Coupons               []coupons.CouponDTO `json:"coupons"`
}

// ProductWithPrices is a catalog product plus its ordered offer list.
// Prices is never empty on a returned product; products with no offerable
// inventory are filtered out before this shape is built.
type ProductWithPrices struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Brand          *string         `json:"brand,omitempty"`
	Category       string          `json:"category"`
	Subcategory    *string         `json:"subcategory,omitempty"`
	Description    string          `json:"description"`
	ThumbnailURL   *string         `json:"thumbnail_url,omitempty"`
	Images         pq.StringArray  `json:"images"`
	AgeRestriction *int            `json:"age_restriction,omitempty"`
	Slug           string          `json:"slug"`
	Prices         []StorePrice    `json:"prices"`
	LowestPrice    decimal.Decimal `json:"lowest_price"`
	HighestPrice   decimal.Decimal `json:"highest_price"`
	PriceRangeText string          `json:"price_range_text"`
	StoreCount     int             `json:"store_count"`
	RelevanceScore *float64        `json:"relevance_score,omitempty"`
}

// StoreCatalogResult is one store's offerable product listing.
type StoreCatalogResult struct {
	StoreID  uuid.UUID           `json:"store_id"`
	Products []ProductWithPrices `json:"products"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	Limit    int                 `json:"limit"`
}

// priceRangeText renders "$X.XX" for a single price point and
// "$X.XX - $Y.YY" for a spread, always with two decimals.
func priceRangeText(lowest, highest decimal.Decimal) string {
	if lowest.Equal(highest) {
		return "$" + lowest.StringFixed(2)
	}
	return "$" + lowest.StringFixed(2) + " - $" + highest.StringFixed(2)
}

func newProductWithPrices(product models.MasterProduct, prices []StorePrice, relevance *float64) *ProductWithPrices {
	if len(prices) == 0 {
		return nil
	}
	lowest := prices[0].Price
	highest := prices[len(prices)-1].Price
	stores := make(map[uuid.UUID]struct{}, len(prices))
	for _, p := range prices {
		stores[p.StoreID] = struct{}{}
	}
	return &ProductWithPrices{
		ID:             product.ID,
		Name:           product.Name,
		Brand:          product.Brand,
		Category:       product.Category,
		Subcategory:    product.Subcategory,
		Description:    product.Description,
		ThumbnailURL:   product.ThumbnailURL,
		Images:         product.Images,
		AgeRestriction: product.AgeRestriction,
		Slug:           product.Slug,
		Prices:         prices,
		LowestPrice:    lowest,
		HighestPrice:   highest,
		PriceRangeText: priceRangeText(lowest, highest),
		StoreCount:     len(stores),
		RelevanceScore: relevance,
	}
}
