package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents an independently operated vendor on the marketplace.
type Store struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	LogoURL     *string         `gorm:"column:logo_url"`
	BannerURL   *string         `gorm:"column:banner_url"`
	Rating      float64         `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount int             `gorm:"column:review_count;not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool            `gorm:"column:is_featured;not null;default:false"`
	Locations   []StoreLocation `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
