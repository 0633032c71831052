package search

import (
	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SearchInput carries a product search request.
type SearchInput struct {
	Query       string
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Lat         *float64
	Lng         *float64
	RadiusMiles float64
	Sort        enums.ProductSort
	Page        pagination.Params
}

// SearchResult is the paginated product search response.
type SearchResult struct {
	Products []pricing.ProductWithPrices `json:"products"`
	Total    int                         `json:"total"`
	Page     int                         `json:"page"`
	Limit    int                         `json:"limit"`
}

// FuzzyQuery is the request to the similarity-match collaborator.
type FuzzyQuery struct {
	Query     string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	StoreIDs  []uuid.UUID
	Limit     int
	Threshold float64
}

// FuzzyMatch is one similarity hit with denormalized product fields and an
// offer summary.
type FuzzyMatch struct {
	ProductID      uuid.UUID
	Name           string
	Brand          *string
	Category       string
	Subcategory    *string
	Description    string
	ThumbnailURL   *string
	Images         pq.StringArray
	AgeRestriction *int
	Slug           string
	MinPrice       decimal.Decimal
	MaxPrice       decimal.Decimal
	StoreCount     int
	RelevanceScore float64
}
