// Package search implements fuzzy product search with a staged fallback to
// plain substring matching.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/pkg/config"
	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service exposes product search.
//
// Search never returns an error: every collaborator failure resolves to the
// next fallback stage or an empty result.
type Service interface {
	Search(ctx context.Context, input SearchInput) *SearchResult
}

type fuzzyMatcher interface {
	MatchProducts(ctx context.Context, q FuzzyQuery) ([]FuzzyMatch, error)
}

type catalogSearcher interface {
	SearchProductsBySubstring(ctx context.Context, tokens []string, category string, limit int) ([]models.MasterProduct, error)
}

type geoResolver interface {
	NearbyStoreDistances(ctx context.Context, lat, lng, radiusMiles float64) ([]uuid.UUID, map[uuid.UUID]float64)
}

type enricher interface {
	EnrichProducts(ctx context.Context, products []models.MasterProduct, opts pricing.EnrichOptions) []pricing.ProductWithPrices
}

type service struct {
	matcher fuzzyMatcher
	catalog catalogSearcher
	geo     geoResolver
	prices  enricher
	cfg     config.DiscoveryConfig
	log     *logger.Logger
}

// NewService constructs the product search service.
func NewService(matcher fuzzyMatcher, catalog catalogSearcher, geo geoResolver, prices enricher, cfg config.DiscoveryConfig, log *logger.Logger) (Service, error) {
	if matcher == nil {
		return nil, fmt.Errorf("fuzzy matcher required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog searcher required")
	}
	if geo == nil {
		return nil, fmt.Errorf("geo resolver required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price enricher required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		matcher: matcher,
		catalog: catalog,
		geo:     geo,
		prices:  prices,
		cfg:     cfg,
		log:     log,
	}, nil
}

// Search walks the candidate stages, enriches the survivors with live
// offers, sorts, and paginates. Products with no offerable inventory never
// reach the result.
func (s *service) Search(ctx context.Context, input SearchInput) *SearchResult {
	page := pagination.Normalize(input.Page)
	empty := &SearchResult{Products: []pricing.ProductWithPrices{}, Page: page.Page, Limit: page.Limit}

	var (
		candidateStores []uuid.UUID
		distances       map[uuid.UUID]float64
	)
	if input.Lat != nil && input.Lng != nil {
		candidateStores, distances = s.geo.NearbyStoreDistances(ctx, *input.Lat, *input.Lng, input.RadiusMiles)
		if len(candidateStores) == 0 {
			return empty
		}
	}

	candidates, relevance, usedFallback := s.resolveCandidates(ctx, input, candidateStores)
	if len(candidates) == 0 {
		return empty
	}

	enriched := s.prices.EnrichProducts(ctx, candidates, pricing.EnrichOptions{
		Distances: distances,
		Relevance: relevance,
	})
	if len(enriched) == 0 {
		return empty
	}

	sortProducts(enriched, input.Sort, usedFallback)

	total := len(enriched)
	return &SearchResult{
		Products: pagination.Slice(enriched, page),
		Total:    total,
		Page:     page.Page,
		Limit:    page.Limit,
	}
}

// resolveCandidates drives the fallback machine. The returned relevance map
// is nil on the substring path, where no score exists.
func (s *service) resolveCandidates(ctx context.Context, input SearchInput, storeIDs []uuid.UUID) ([]models.MasterProduct, map[uuid.UUID]float64, bool) {
	query := strings.TrimSpace(input.Query)

	stage := StagePrimary
	if query == "" {
		// Nothing for the similarity matcher to score.
		stage = StageSubstring
	}

	var matches []FuzzyMatch
	var fallbackProducts []models.MasterProduct
	usedFallback := false

	for stage != StageDone {
		switch stage {
		case StagePrimary, StageRelaxed:
			threshold := s.cfg.PrimaryThreshold
			if stage == StageRelaxed {
				threshold = s.cfg.RelaxedThreshold
			}
			result, err := s.matcher.MatchProducts(ctx, FuzzyQuery{
				Query:     query,
				Category:  input.Category,
				MinPrice:  input.MinPrice,
				MaxPrice:  input.MaxPrice,
				StoreIDs:  storeIDs,
				Limit:     s.cfg.CandidateLimit,
				Threshold: threshold,
			})
			if err != nil {
				logCtx := s.log.WithField(ctx, "stage", stage.String())
				s.log.Warn(s.log.WithField(logCtx, "error", err.Error()), "similarity match failed")
			} else {
				matches = result
			}
			stage = NextStage(stage, len(result), err != nil)
		case StageSubstring:
			usedFallback = true
			products, err := s.catalog.SearchProductsBySubstring(ctx, Tokenize(query), input.Category, s.cfg.CandidateLimit)
			if err != nil {
				s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "substring search failed")
				products = nil
			}
			fallbackProducts = products
			stage = NextStage(stage, len(products), err != nil)
		}
	}

	if usedFallback {
		return fallbackProducts, nil, true
	}

	products := make([]models.MasterProduct, 0, len(matches))
	relevance := make(map[uuid.UUID]float64, len(matches))
	for _, match := range matches {
		products = append(products, models.MasterProduct{
			ID:             match.ProductID,
			Name:           match.Name,
			Brand:          match.Brand,
			Category:       match.Category,
			Subcategory:    match.Subcategory,
			Description:    match.Description,
			ThumbnailURL:   match.ThumbnailURL,
			Images:         match.Images,
			AgeRestriction: match.AgeRestriction,
			Slug:           match.Slug,
			IsActive:       true,
		})
		relevance[match.ProductID] = match.RelevanceScore
	}
	return products, relevance, false
}

// sortProducts orders the result in place. The substring path has no
// relevance score, so a relevance sort degrades to ascending price there.
func sortProducts(products []pricing.ProductWithPrices, key enums.ProductSort, usedFallback bool) {
	effective := key
	if usedFallback && effective == enums.ProductSortRelevance {
		effective = enums.ProductSortPrice
	}
	switch effective {
	case enums.ProductSortPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].LowestPrice.LessThan(products[j].LowestPrice)
		})
	case enums.ProductSortDistance:
		sort.SliceStable(products, func(i, j int) bool {
			return minOfferDistance(products[i]) < minOfferDistance(products[j])
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return relevanceOf(products[i]) > relevanceOf(products[j])
		})
	}
}

func minOfferDistance(product pricing.ProductWithPrices) float64 {
	min := 0.0
	for i, price := range product.Prices {
		if i == 0 || price.DistanceMiles < min {
			min = price.DistanceMiles
		}
	}
	return min
}

func relevanceOf(product pricing.ProductWithPrices) float64 {
	if product.RelevanceScore == nil {
		return 0
	}
	return *product.RelevanceScore
}
