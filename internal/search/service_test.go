package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/pkg/config"
	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeMatcher struct {
	byThreshold map[float64][]FuzzyMatch
	err         error
	queries     []FuzzyQuery
}

func (f *fakeMatcher) MatchProducts(ctx context.Context, q FuzzyQuery) ([]FuzzyMatch, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.byThreshold[q.Threshold], nil
}

type fakeCatalog struct {
	products []models.MasterProduct
	err      error
	calls    int
}

func (f *fakeCatalog) SearchProductsBySubstring(ctx context.Context, tokens []string, category string, limit int) ([]models.MasterProduct, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return f.products, nil
}

type fakeGeo struct {
	ids       []uuid.UUID
	distances map[uuid.UUID]float64
}

func (f *fakeGeo) NearbyStoreDistances(ctx context.Context, lat, lng, radiusMiles float64) ([]uuid.UUID, map[uuid.UUID]float64) {
	return f.ids, f.distances
}

// fakeEnricher turns every input product into a single-offer result, letting
// tests drive prices and distances per product id.
type fakeEnricher struct {
	prices    map[uuid.UUID]string
	distances map[uuid.UUID]float64
	fail      bool
	lastOpts  pricing.EnrichOptions
}

func (f *fakeEnricher) EnrichProducts(ctx context.Context, products []models.MasterProduct, opts pricing.EnrichOptions) []pricing.ProductWithPrices {
	f.lastOpts = opts
	if f.fail {
		return []pricing.ProductWithPrices{}
	}
	out := make([]pricing.ProductWithPrices, 0, len(products))
	for _, p := range products {
		priceText, ok := f.prices[p.ID]
		if !ok {
			priceText = "5.00"
		}
		price := decimal.RequireFromString(priceText)
		var relevance *float64
		if score, scored := opts.Relevance[p.ID]; scored {
			relevance = &score
		}
		out = append(out, pricing.ProductWithPrices{
			ID:             p.ID,
			Name:           p.Name,
			LowestPrice:    price,
			HighestPrice:   price,
			PriceRangeText: "$" + price.StringFixed(2),
			Prices: []pricing.StorePrice{{
				Price:         price,
				DistanceMiles: f.distances[p.ID],
			}},
			RelevanceScore: relevance,
		})
	}
	return out
}

func testConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		DefaultRadiusMiles: 10,
		PrimaryThreshold:   0.15,
		RelaxedThreshold:   0.1,
		CandidateLimit:     100,
		GeoCacheTTL:        30 * time.Second,
	}
}

func newTestService(t *testing.T, matcher fuzzyMatcher, catalog catalogSearcher, geo geoResolver, prices enricher) Service {
	t.Helper()
	svc, err := NewService(matcher, catalog, geo, prices, testConfig(), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func match(name string, score float64) FuzzyMatch {
	return FuzzyMatch{
		ProductID:      uuid.New(),
		Name:           name,
		Category:       "pantry",
		Slug:           name,
		MinPrice:       decimal.NewFromInt(1),
		MaxPrice:       decimal.NewFromInt(2),
		StoreCount:     1,
		RelevanceScore: score,
	}
}

func TestSearchPrimaryStageHit(t *testing.T) {
	m := match("olive oil", 0.9)
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.15: {m}}}
	catalog := &fakeCatalog{}
	svc := newTestService(t, matcher, catalog, &fakeGeo{}, &fakeEnricher{})

	result := svc.Search(context.Background(), SearchInput{Query: "olive oil"})
	if len(result.Products) != 1 || result.Products[0].ID != m.ProductID {
		t.Fatalf("expected the primary-stage match, got %+v", result.Products)
	}
	if len(matcher.queries) != 1 {
		t.Fatalf("primary hit should stop the machine, ran %d fuzzy queries", len(matcher.queries))
	}
	if catalog.calls != 0 {
		t.Fatalf("substring path should not run on a primary hit")
	}
	if result.Products[0].RelevanceScore == nil || *result.Products[0].RelevanceScore != 0.9 {
		t.Fatalf("relevance should carry through, got %v", result.Products[0].RelevanceScore)
	}
}

func TestSearchRelaxedFallback(t *testing.T) {
	m := match("ollive oyl", 0.12)
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.1: {m}}}
	svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, &fakeEnricher{})

	result := svc.Search(context.Background(), SearchInput{Query: "olive"})
	if len(result.Products) != 1 || result.Products[0].ID != m.ProductID {
		t.Fatalf("relaxed stage result should be returned, got %+v", result.Products)
	}
	if len(matcher.queries) != 2 {
		t.Fatalf("expected primary then relaxed, got %d queries", len(matcher.queries))
	}
	if matcher.queries[0].Threshold != 0.15 || matcher.queries[1].Threshold != 0.1 {
		t.Fatalf("unexpected thresholds %v", []float64{matcher.queries[0].Threshold, matcher.queries[1].Threshold})
	}
}

func TestSearchSubstringFallbackOnMatcherError(t *testing.T) {
	matcher := &fakeMatcher{err: errors.New("extension missing")}
	fallback := models.MasterProduct{ID: uuid.New(), Name: "Olive Oil"}
	catalog := &fakeCatalog{products: []models.MasterProduct{fallback}}
	enricher := &fakeEnricher{prices: map[uuid.UUID]string{fallback.ID: "7.25"}}
	svc := newTestService(t, matcher, catalog, &fakeGeo{}, enricher)

	result := svc.Search(context.Background(), SearchInput{Query: "olive oil"})
	if len(result.Products) != 1 || result.Products[0].ID != fallback.ID {
		t.Fatalf("matcher failure should route to substring fallback, got %+v", result.Products)
	}
	if len(matcher.queries) != 1 {
		t.Fatalf("a failed matcher should not be retried at the relaxed threshold")
	}
	if result.Products[0].RelevanceScore != nil {
		t.Fatalf("fallback results carry no relevance score")
	}
	if enricher.lastOpts.Relevance != nil {
		t.Fatalf("fallback enrichment should not carry a relevance map")
	}
}

func TestSearchFallbackSortsByPrice(t *testing.T) {
	cheap := models.MasterProduct{ID: uuid.New(), Name: "Cheap"}
	dear := models.MasterProduct{ID: uuid.New(), Name: "Dear"}
	matcher := &fakeMatcher{err: errors.New("down")}
	catalog := &fakeCatalog{products: []models.MasterProduct{dear, cheap}}
	enricher := &fakeEnricher{prices: map[uuid.UUID]string{dear.ID: "19.99", cheap.ID: "3.49"}}
	svc := newTestService(t, matcher, catalog, &fakeGeo{}, enricher)

	result := svc.Search(context.Background(), SearchInput{Query: "anything", Sort: enums.ProductSortRelevance})
	if result.Products[0].ID != cheap.ID {
		t.Fatalf("fallback path should sort ascending by price")
	}
}

func TestSearchSortByPriceAndDistance(t *testing.T) {
	a := match("apple juice", 0.8)
	b := match("apple cider", 0.6)
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.15: {a, b}}}

	t.Run("price", func(t *testing.T) {
		enricher := &fakeEnricher{prices: map[uuid.UUID]string{a.ProductID: "9.00", b.ProductID: "4.00"}}
		svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, enricher)
		result := svc.Search(context.Background(), SearchInput{Query: "apple", Sort: enums.ProductSortPrice})
		if result.Products[0].ID != b.ProductID {
			t.Fatalf("price sort should put the cheaper product first")
		}
	})

	t.Run("distance", func(t *testing.T) {
		enricher := &fakeEnricher{distances: map[uuid.UUID]float64{a.ProductID: 7.5, b.ProductID: 1.5}}
		svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, enricher)
		result := svc.Search(context.Background(), SearchInput{Query: "apple", Sort: enums.ProductSortDistance})
		if result.Products[0].ID != b.ProductID {
			t.Fatalf("distance sort should put the nearer product first")
		}
	})

	t.Run("relevance default", func(t *testing.T) {
		enricher := &fakeEnricher{}
		svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, enricher)
		result := svc.Search(context.Background(), SearchInput{Query: "apple"})
		if result.Products[0].ID != a.ProductID {
			t.Fatalf("relevance sort should put the higher score first")
		}
	})
}

func TestSearchGeoScopedWithNoNearbyStores(t *testing.T) {
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.15: {match("bread", 0.7)}}}
	svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, &fakeEnricher{})

	lat, lng := 30.0, -97.0
	result := svc.Search(context.Background(), SearchInput{Query: "bread", Lat: &lat, Lng: &lng})
	if len(result.Products) != 0 {
		t.Fatalf("no candidate stores in radius should mean no products")
	}
	if len(matcher.queries) != 0 {
		t.Fatalf("matcher should not run without candidate stores")
	}
}

func TestSearchGeoScopedPassesCandidates(t *testing.T) {
	storeID := uuid.New()
	m := match("bread", 0.7)
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.15: {m}}}
	geo := &fakeGeo{ids: []uuid.UUID{storeID}, distances: map[uuid.UUID]float64{storeID: 2.2}}
	enricher := &fakeEnricher{}
	svc := newTestService(t, matcher, &fakeCatalog{}, geo, enricher)

	lat, lng := 30.0, -97.0
	svc.Search(context.Background(), SearchInput{Query: "bread", Lat: &lat, Lng: &lng})
	if len(matcher.queries) != 1 || len(matcher.queries[0].StoreIDs) != 1 {
		t.Fatalf("candidate store ids should reach the matcher")
	}
	if enricher.lastOpts.Distances[storeID] != 2.2 {
		t.Fatalf("distance map should reach enrichment")
	}
}

func TestSearchDropsProductsWithoutOffers(t *testing.T) {
	m := match("ghost", 0.9)
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.15: {m}}}
	svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, &fakeEnricher{fail: true})

	result := svc.Search(context.Background(), SearchInput{Query: "ghost"})
	if len(result.Products) != 0 {
		t.Fatalf("products without offers should not be returned")
	}
}

func TestSearchEmptyQueryGoesToFallback(t *testing.T) {
	matcher := &fakeMatcher{}
	catalog := &fakeCatalog{}
	svc := newTestService(t, matcher, catalog, &fakeGeo{}, &fakeEnricher{})

	result := svc.Search(context.Background(), SearchInput{Query: "  "})
	if len(matcher.queries) != 0 {
		t.Fatalf("empty query should skip the similarity matcher")
	}
	if catalog.calls != 1 {
		t.Fatalf("empty query should consult the substring path once")
	}
	if len(result.Products) != 0 {
		t.Fatalf("expected empty result")
	}
}

func TestSearchPaginates(t *testing.T) {
	var matches []FuzzyMatch
	for i := 0; i < 45; i++ {
		matches = append(matches, match("bulk", float64(100-i)))
	}
	matcher := &fakeMatcher{byThreshold: map[float64][]FuzzyMatch{0.15: matches}}
	svc := newTestService(t, matcher, &fakeCatalog{}, &fakeGeo{}, &fakeEnricher{})

	result := svc.Search(context.Background(), SearchInput{Query: "bulk", Page: pagination.Params{Page: 2, Limit: 20}})
	if result.Total != 45 {
		t.Fatalf("total = %d", result.Total)
	}
	if len(result.Products) != 20 {
		t.Fatalf("page 2 over 45 should hold 20 items, got %d", len(result.Products))
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  a organic  oz olive oil ")
	want := []string{"organic", "oz", "olive", "oil"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}
