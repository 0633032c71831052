package search

import (
	"context"
	"database/sql"
	"strings"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const similarityExpr = "GREATEST(similarity(p.name, ?), similarity(COALESCE(p.brand, ''), ?))"

type fuzzyRecord struct {
	ProductID      uuid.UUID       `gorm:"column:product_id"`
	Name           string          `gorm:"column:name"`
	Brand          sql.NullString  `gorm:"column:brand"`
	Category       string          `gorm:"column:category"`
	Subcategory    sql.NullString  `gorm:"column:subcategory"`
	Description    string          `gorm:"column:description"`
	ThumbnailURL   sql.NullString  `gorm:"column:thumbnail_url"`
	Images         pq.StringArray  `gorm:"column:images;type:text[]"`
	AgeRestriction sql.NullInt64   `gorm:"column:age_restriction"`
	Slug           string          `gorm:"column:slug"`
	MinPrice       decimal.Decimal `gorm:"column:min_price"`
	MaxPrice       decimal.Decimal `gorm:"column:max_price"`
	StoreCount     int             `gorm:"column:store_count"`
	RelevanceScore float64         `gorm:"column:relevance_score"`
}

func (rec fuzzyRecord) toMatch() FuzzyMatch {
	match := FuzzyMatch{
		ProductID:      rec.ProductID,
		Name:           rec.Name,
		Category:       rec.Category,
		Description:    rec.Description,
		Images:         rec.Images,
		Slug:           rec.Slug,
		MinPrice:       rec.MinPrice,
		MaxPrice:       rec.MaxPrice,
		StoreCount:     rec.StoreCount,
		RelevanceScore: rec.RelevanceScore,
	}
	if rec.Brand.Valid {
		brand := rec.Brand.String
		match.Brand = &brand
	}
	if rec.Subcategory.Valid {
		sub := rec.Subcategory.String
		match.Subcategory = &sub
	}
	if rec.ThumbnailURL.Valid {
		thumb := rec.ThumbnailURL.String
		match.ThumbnailURL = &thumb
	}
	if rec.AgeRestriction.Valid {
		age := int(rec.AgeRestriction.Int64)
		match.AgeRestriction = &age
	}
	return match
}

// Repository runs similarity and substring product matching against the
// catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MatchProducts runs a trigram similarity match over active catalog
// products that have at least one offerable inventory row, returning
// candidates above the threshold ordered by descending relevance.
func (r *Repository) MatchProducts(ctx context.Context, q FuzzyQuery) ([]FuzzyMatch, error) {
	offers := r.db.
		Table("inventory_records i").
		Select("i.product_id, MIN(i.price) AS min_price, MAX(i.price) AS max_price, COUNT(DISTINCT i.store_id) AS store_count").
		Joins("JOIN stores s ON s.id = i.store_id AND s.is_active = TRUE").
		Where("i.is_available = TRUE AND i.quantity > 0").
		Group("i.product_id")
	if len(q.StoreIDs) > 0 {
		offers = offers.Where("i.store_id IN ?", q.StoreIDs)
	}

	query := r.db.WithContext(ctx).
		Table("master_products p").
		Select(
			"p.id AS product_id, p.name, p.brand, p.category, p.subcategory, p.description, "+
				"p.thumbnail_url, p.images, p.age_restriction, p.slug, "+
				"agg.min_price, agg.max_price, agg.store_count, "+
				similarityExpr+" AS relevance_score",
			q.Query, q.Query,
		).
		Joins("JOIN (?) agg ON agg.product_id = p.id", offers).
		Where("p.is_active = TRUE").
		Where(similarityExpr+" >= ?", q.Query, q.Query, q.Threshold)
	if q.Category != "" {
		query = query.Where("p.category = ?", q.Category)
	}
	if q.MinPrice != nil {
		query = query.Where("agg.max_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("agg.min_price <= ?", *q.MaxPrice)
	}

	var records []fuzzyRecord
	if err := query.
		Order("relevance_score DESC").
		Limit(q.Limit).
		Scan(&records).Error; err != nil {
		return nil, err
	}
	matches := make([]FuzzyMatch, 0, len(records))
	for _, rec := range records {
		matches = append(matches, rec.toMatch())
	}
	return matches, nil
}

// SearchProductsBySubstring OR-matches each token against product name and
// brand with case-insensitive substring matching. Used when the similarity
// collaborator is unavailable.
func (r *Repository) SearchProductsBySubstring(ctx context.Context, tokens []string, category string, limit int) ([]models.MasterProduct, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	conditions := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)*2+1)
	for _, token := range tokens {
		conditions = append(conditions, "name ILIKE ? OR brand ILIKE ?")
		pattern := "%" + token + "%"
		args = append(args, pattern, pattern)
	}

	query := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Where("("+strings.Join(conditions, " OR ")+")", args...)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.MasterProduct
	if err := query.Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Tokenize splits a free-text query on whitespace and drops tokens shorter
// than two characters.
func Tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
