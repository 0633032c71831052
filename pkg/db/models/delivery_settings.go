package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliverySettings is the per-store delivery/pickup policy. Every policy
// field is nullable: readers coalesce field-by-field over the fixed platform
// defaults, so a store with only a custom fee still inherits the default
// radius and time estimates. A store may have no row at all.
type DeliverySettings struct {
	StoreID               uuid.UUID        `gorm:"column:store_id;type:uuid;primaryKey"`
	DeliveryEnabled       *bool            `gorm:"column:delivery_enabled"`
	PickupEnabled         *bool            `gorm:"column:pickup_enabled"`
	DeliveryFee           *decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2)"`
	MinimumOrder          *decimal.Decimal `gorm:"column:minimum_order;type:numeric(10,2)"`
	FreeDeliveryThreshold *decimal.Decimal `gorm:"column:free_delivery_threshold;type:numeric(10,2)"`
	DeliveryRadiusMiles   *float64         `gorm:"column:delivery_radius_miles;type:numeric(6,2)"`
	EstimatedDeliveryTime *string          `gorm:"column:estimated_delivery_time"`
	EstimatedPickupTime   *string          `gorm:"column:estimated_pickup_time"`
	UpdatedAt             time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (DeliverySettings) TableName() string {
	return "delivery_settings"
}
