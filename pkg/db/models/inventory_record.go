package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRecord joins a store (optionally a specific location) to a master
// product. This is the only place price and stock live; a product has no
// price of its own. A record is offerable when is_available is true and
// quantity is positive.
type InventoryRecord struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	LocationID    *uuid.UUID       `gorm:"column:location_id;type:uuid"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(10,2)"`
	Quantity      int              `gorm:"column:quantity;not null;default:0"`
	IsAvailable   bool             `gorm:"column:is_available;not null;default:true"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
