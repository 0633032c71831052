package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MasterProduct is a catalog-wide product definition. Identity is immutable;
// descriptive fields are maintained by catalog administration. The discovery
// core only ever reads these rows.
type MasterProduct struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string         `gorm:"column:name;not null"`
	Brand          *string        `gorm:"column:brand"`
	Category       string         `gorm:"column:category;not null"`
	Subcategory    *string        `gorm:"column:subcategory"`
	Description    string         `gorm:"column:description;not null;default:''"`
	ThumbnailURL   *string        `gorm:"column:thumbnail_url"`
	Images         pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	AgeRestriction *int           `gorm:"column:age_restriction"`
	Slug           string         `gorm:"column:slug;not null;uniqueIndex"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (MasterProduct) TableName() string {
	return "master_products"
}
