package stores

import (
	"github.com/citycartapp/citycart-backend/internal/coupons"
	"github.com/citycartapp/citycart-backend/internal/delivery"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
	"github.com/citycartapp/citycart-backend/pkg/types"
	"github.com/google/uuid"
)

// NearbyStoresInput carries a proximity search request.
type NearbyStoresInput struct {
	Lat         float64
	Lng         float64
	RadiusMiles float64
	Query       string
	Sort        enums.StoreSort
	Page        pagination.Params
}

// NearbyLocation is the nearest matching storefront for a store.
type NearbyLocation struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
}

// NearbyStore is one store in a proximity search result.
type NearbyStore struct {
	StoreID       uuid.UUID      `json:"store_id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	LogoURL       *string        `json:"logo_url,omitempty"`
	Rating        float64        `json:"rating"`
	ReviewCount   int            `json:"review_count"`
	IsFeatured    bool           `json:"is_featured"`
	Location      NearbyLocation `json:"location"`
	DistanceMiles float64        `json:"distance_miles"`
	IsOpen        bool           `json:"is_open"`
	DeliveryInfo  delivery.Info  `json:"delivery_info"`
}

// NearbyStoresResult is the paginated proximity search response.
type NearbyStoresResult struct {
	Stores []NearbyStore `json:"stores"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// StoreLocationDTO is a full storefront in a store detail response.
type StoreLocationDTO struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	AddressLine1      string            `json:"address_line1"`
	AddressLine2      *string           `json:"address_line2,omitempty"`
	City              string            `json:"city"`
	State             string            `json:"state"`
	PostalCode        string            `json:"postal_code"`
	Lat               float64           `json:"lat"`
	Lng               float64           `json:"lng"`
	Hours             types.WeeklyHours `json:"hours,omitempty"`
	IsOpen            bool              `json:"is_open"`
	IsPrimary         bool              `json:"is_primary"`
	DeliveryAvailable *bool             `json:"delivery_available,omitempty"`
	PickupAvailable   *bool             `json:"pickup_available,omitempty"`
}

// StoreDetailDTO is the full store profile.
type StoreDetailDTO struct {
	StoreID      uuid.UUID           `json:"store_id"`
	Name         string              `json:"name"`
	Slug         string              `json:"slug"`
	LogoURL      *string             `json:"logo_url,omitempty"`
	BannerURL    *string             `json:"banner_url,omitempty"`
	Rating       float64             `json:"rating"`
	ReviewCount  int                 `json:"review_count"`
	IsFeatured   bool                `json:"is_featured"`
	Locations    []StoreLocationDTO  `json:"locations"`
	DeliveryInfo delivery.Info       `json:"delivery_info"`
	Coupons      []coupons.CouponDTO `json:"coupons"`
}
