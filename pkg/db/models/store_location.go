package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/citycartapp/citycart-backend/pkg/types"
)

// StoreLocation is a physical storefront. A store has one or more locations;
// only active locations participate in geo-proximity discovery. The nullable
// delivery/pickup flags override store-level delivery settings only when set.
type StoreLocation struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID           uuid.UUID            `gorm:"column:store_id;type:uuid;not null;index"`
	Name              string               `gorm:"column:name;not null"`
	AddressLine1      string               `gorm:"column:address_line1;not null"`
	AddressLine2      *string              `gorm:"column:address_line2"`
	City              string               `gorm:"column:city;not null"`
	State             string               `gorm:"column:state;not null"`
	PostalCode        string               `gorm:"column:postal_code;not null"`
	Lat               float64              `gorm:"column:lat;not null"`
	Lng               float64              `gorm:"column:lng;not null"`
	Geog              types.GeographyPoint `gorm:"column:geog;type:geography(Point,4326)"`
	Hours             types.WeeklyHours    `gorm:"column:hours;type:jsonb"`
	DeliveryAvailable *bool                `gorm:"column:delivery_available"`
	PickupAvailable   *bool                `gorm:"column:pickup_available"`
	IsPrimary         bool                 `gorm:"column:is_primary;not null;default:false"`
	IsActive          bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
