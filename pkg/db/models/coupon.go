package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/citycartapp/citycart-backend/pkg/enums"
)

// Coupon is a store-scoped, time-windowed discount. Eligibility requires
// is_active, start_date <= now, and end_date null or >= now.
type Coupon struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index"`
	Code          string             `gorm:"column:code;not null"`
	Description   *string            `gorm:"column:description"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`
	MinimumOrder  *decimal.Decimal   `gorm:"column:minimum_order;type:numeric(10,2)"`
	StartDate     time.Time          `gorm:"column:start_date;not null"`
	EndDate       *time.Time         `gorm:"column:end_date"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
