// Package stores implements geo-proximity store discovery and store
// profiles.
package stores

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/citycartapp/citycart-backend/internal/coupons"
	"github.com/citycartapp/citycart-backend/internal/delivery"
	"github.com/citycartapp/citycart-backend/internal/geo"
	"github.com/citycartapp/citycart-backend/internal/hours"
	"github.com/citycartapp/citycart-backend/pkg/config"
	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	pkgerrors "github.com/citycartapp/citycart-backend/pkg/errors"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes store discovery operations.
//
// NearbyStores and NearbyStoreDistances never return an error: any
// collaborator failure resolves to an empty result so discovery stays safe
// to call speculatively.
type Service interface {
	NearbyStores(ctx context.Context, input NearbyStoresInput) *NearbyStoresResult
	NearbyStoreDistances(ctx context.Context, lat, lng, radiusMiles float64) ([]uuid.UUID, map[uuid.UUID]float64)
	StoreDetail(ctx context.Context, storeID uuid.UUID) (*StoreDetailDTO, error)
}

type geoIndex interface {
	NearbyLocations(ctx context.Context, lat, lng, radiusMiles float64) ([]GeoRow, error)
	ListActiveStoresByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error)
	ListActiveLocationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StoreLocation, error)
	FindActiveStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type geoCache interface {
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GeoQueryKey(lat, lng, radiusMiles float64) string
}

type service struct {
	repo            geoIndex
	deliveryResolve delivery.Resolver
	couponResolve   coupons.Resolver
	cache           geoCache
	cfg             config.DiscoveryConfig
	log             *logger.Logger
	now             func() time.Time
}

// NewService constructs the store discovery service. The cache may be nil,
// in which case every proximity query hits the geospatial index directly.
func NewService(repo geoIndex, deliveryResolve delivery.Resolver, couponResolve coupons.Resolver, cache geoCache, cfg config.DiscoveryConfig, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if deliveryResolve == nil {
		return nil, fmt.Errorf("delivery resolver required")
	}
	if couponResolve == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:            repo,
		deliveryResolve: deliveryResolve,
		couponResolve:   couponResolve,
		cache:           cache,
		cfg:             cfg,
		log:             log,
		now:             time.Now,
	}, nil
}

// NearbyStores finds active stores with an active location inside the
// radius, each paired with its nearest location.
func (s *service) NearbyStores(ctx context.Context, input NearbyStoresInput) *NearbyStoresResult {
	page := pagination.Normalize(input.Page)
	empty := &NearbyStoresResult{Stores: []NearbyStore{}, Page: page.Page, Limit: page.Limit}

	radius := input.RadiusMiles
	if radius <= 0 {
		radius = s.cfg.DefaultRadiusMiles
	}

	rows, err := s.geoRows(ctx, input.Lat, input.Lng, radius)
	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "geo query failed, returning no stores")
		return empty
	}
	rows = nearestPerStore(rows)
	if len(rows) == 0 {
		return empty
	}

	storeIDs := make([]uuid.UUID, 0, len(rows))
	locationIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		storeIDs = append(storeIDs, row.StoreID)
		locationIDs = append(locationIDs, row.LocationID)
	}

	storesByID, locationsByID, err := s.loadMetadata(ctx, storeIDs, locationIDs)
	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "store metadata lookup failed, returning no stores")
		return empty
	}
	settings := s.deliveryResolve.ResolveBatch(ctx, storeIDs)

	nearby := make([]NearbyStore, 0, len(rows))
	for _, row := range rows {
		nearby = append(nearby, s.assemble(row, storesByID, locationsByID, settings))
	}

	if q := strings.TrimSpace(input.Query); q != "" {
		nearby = filterByNameOrCity(nearby, q)
	}

	switch input.Sort {
	case enums.StoreSortRating:
		sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].Rating > nearby[j].Rating })
	default:
		sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].DistanceMiles < nearby[j].DistanceMiles })
	}

	total := len(nearby)
	return &NearbyStoresResult{
		Stores: pagination.Slice(nearby, page),
		Total:  total,
		Page:   page.Page,
		Limit:  page.Limit,
	}
}

// NearbyStoreDistances resolves the candidate store-id set for a geo-scoped
// search, with each store's nearest distance. No metadata enrichment.
func (s *service) NearbyStoreDistances(ctx context.Context, lat, lng, radiusMiles float64) ([]uuid.UUID, map[uuid.UUID]float64) {
	if radiusMiles <= 0 {
		radiusMiles = s.cfg.DefaultRadiusMiles
	}
	rows, err := s.geoRows(ctx, lat, lng, radiusMiles)
	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "geo query failed, returning no candidates")
		return nil, map[uuid.UUID]float64{}
	}
	rows = nearestPerStore(rows)
	ids := make([]uuid.UUID, 0, len(rows))
	distances := make(map[uuid.UUID]float64, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StoreID)
		distances[row.StoreID] = row.DistanceMiles
	}
	return ids, distances
}

// StoreDetail returns the full profile for one active store.
func (s *service) StoreDetail(ctx context.Context, storeID uuid.UUID) (*StoreDetailDTO, error) {
	store, err := s.repo.FindActiveStoreByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}

	now := s.now()
	locations := make([]StoreLocationDTO, 0, len(store.Locations))
	for _, loc := range store.Locations {
		locations = append(locations, StoreLocationDTO{
			ID:                loc.ID,
			Name:              loc.Name,
			AddressLine1:      loc.AddressLine1,
			AddressLine2:      loc.AddressLine2,
			City:              loc.City,
			State:             loc.State,
			PostalCode:        loc.PostalCode,
			Lat:               loc.Lat,
			Lng:               loc.Lng,
			Hours:             loc.Hours,
			IsOpen:            hours.IsOpenAt(loc.Hours, now),
			IsPrimary:         loc.IsPrimary,
			DeliveryAvailable: loc.DeliveryAvailable,
			PickupAvailable:   loc.PickupAvailable,
		})
	}

	storeCoupons := s.couponResolve.ResolveBatch(ctx, []uuid.UUID{store.ID})[store.ID]
	if storeCoupons == nil {
		storeCoupons = []coupons.CouponDTO{}
	}

	return &StoreDetailDTO{
		StoreID:      store.ID,
		Name:         store.Name,
		Slug:         store.Slug,
		LogoURL:      store.LogoURL,
		BannerURL:    store.BannerURL,
		Rating:       store.Rating,
		ReviewCount:  store.ReviewCount,
		IsFeatured:   store.IsFeatured,
		Locations:    locations,
		DeliveryInfo: s.deliveryResolve.ResolveEffective(ctx, store.ID),
		Coupons:      storeCoupons,
	}, nil
}

// geoRows reads the proximity rows through the short-lived cache when one
// is configured. Cache failures fall through to the index.
func (s *service) geoRows(ctx context.Context, lat, lng, radiusMiles float64) ([]GeoRow, error) {
	if s.cache == nil {
		return s.repo.NearbyLocations(ctx, lat, lng, radiusMiles)
	}
	key := s.cache.GeoQueryKey(lat, lng, radiusMiles)
	var cached []GeoRow
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}
	rows, err := s.repo.NearbyLocations(ctx, lat, lng, radiusMiles)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cache.SetJSON(ctx, key, rows, s.cfg.GeoCacheTTL); cacheErr != nil {
		s.log.Warn(s.log.WithField(ctx, "error", cacheErr.Error()), "geo cache write failed")
	}
	return rows, nil
}

func (s *service) loadMetadata(ctx context.Context, storeIDs, locationIDs []uuid.UUID) (map[uuid.UUID]models.Store, map[uuid.UUID]models.StoreLocation, error) {
	storeRows, err := s.repo.ListActiveStoresByIDs(ctx, storeIDs)
	if err != nil {
		return nil, nil, err
	}
	locationRows, err := s.repo.ListActiveLocationsByIDs(ctx, locationIDs)
	if err != nil {
		return nil, nil, err
	}
	storesByID := make(map[uuid.UUID]models.Store, len(storeRows))
	for _, row := range storeRows {
		storesByID[row.ID] = row
	}
	locationsByID := make(map[uuid.UUID]models.StoreLocation, len(locationRows))
	for _, row := range locationRows {
		locationsByID[row.ID] = row
	}
	return storesByID, locationsByID, nil
}

// assemble builds one NearbyStore, preferring full metadata over the geo
// row's denormalized names when present. Missing location hours evaluate
// open.
func (s *service) assemble(row GeoRow, storesByID map[uuid.UUID]models.Store, locationsByID map[uuid.UUID]models.StoreLocation, settings map[uuid.UUID]models.DeliverySettings) NearbyStore {
	out := NearbyStore{
		StoreID:       row.StoreID,
		Name:          row.StoreName,
		DistanceMiles: geo.Round2(row.DistanceMiles),
		IsOpen:        true,
		Location: NearbyLocation{
			ID:   row.LocationID,
			Name: row.LocationName,
		},
		DeliveryInfo: delivery.EffectiveFor(settings, row.StoreID),
	}
	if store, ok := storesByID[row.StoreID]; ok {
		out.Name = store.Name
		out.Slug = store.Slug
		out.LogoURL = store.LogoURL
		out.Rating = store.Rating
		out.ReviewCount = store.ReviewCount
		out.IsFeatured = store.IsFeatured
	}
	if loc, ok := locationsByID[row.LocationID]; ok {
		out.Location = NearbyLocation{
			ID:           loc.ID,
			Name:         loc.Name,
			AddressLine1: loc.AddressLine1,
			AddressLine2: loc.AddressLine2,
			City:         loc.City,
			State:        loc.State,
			PostalCode:   loc.PostalCode,
			Lat:          loc.Lat,
			Lng:          loc.Lng,
		}
		out.IsOpen = hours.IsOpenAt(loc.Hours, s.now())
		if loc.DeliveryAvailable != nil {
			out.DeliveryInfo.DeliveryAvailable = *loc.DeliveryAvailable
		}
		if loc.PickupAvailable != nil {
			out.DeliveryInfo.PickupAvailable = *loc.PickupAvailable
		}
	}
	return out
}

// nearestPerStore keeps the closest row for each store. Rows are expected
// nearest-first but the reduction does not rely on it.
func nearestPerStore(rows []GeoRow) []GeoRow {
	best := make(map[uuid.UUID]int, len(rows))
	out := make([]GeoRow, 0, len(rows))
	for _, row := range rows {
		if idx, ok := best[row.StoreID]; ok {
			if row.DistanceMiles < out[idx].DistanceMiles {
				out[idx] = row
			}
			continue
		}
		best[row.StoreID] = len(out)
		out = append(out, row)
	}
	return out
}

func filterByNameOrCity(stores []NearbyStore, query string) []NearbyStore {
	q := strings.ToLower(query)
	out := make([]NearbyStore, 0, len(stores))
	for _, store := range stores {
		if strings.Contains(strings.ToLower(store.Name), q) ||
			strings.Contains(strings.ToLower(store.Location.City), q) {
			out = append(out, store)
		}
	}
	return out
}
