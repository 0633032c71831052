// Package pricing aggregates offerable inventory into shopper-facing,
// per-store price listings.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/citycartapp/citycart-backend/internal/coupons"
	"github.com/citycartapp/citycart-backend/internal/delivery"
	"github.com/citycartapp/citycart-backend/internal/geo"
	"github.com/citycartapp/citycart-backend/pkg/db/models"
	pkgerrors "github.com/citycartapp/citycart-backend/pkg/errors"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes price aggregation for product detail, search enrichment,
// and per-store catalogs.
type Service interface {
	ProductDetail(ctx context.Context, productID uuid.UUID) (*ProductWithPrices, error)
	StoreCatalog(ctx context.Context, storeID uuid.UUID, page pagination.Params) (*StoreCatalogResult, error)
	EnrichProducts(ctx context.Context, products []models.MasterProduct, opts EnrichOptions) []ProductWithPrices
}

// EnrichOptions tunes which optional enrichments a call path carries.
// Detail sets IncludeRating and IncludeCoupons; list and search paths leave
// both off and report rating 0 with empty coupon lists.
type EnrichOptions struct {
	Distances      map[uuid.UUID]float64
	Relevance      map[uuid.UUID]float64
	IncludeRating  bool
	IncludeCoupons bool
}

type inventoryReader interface {
	ListOffersByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]Offer, error)
	ListOffersByStoreID(ctx context.Context, storeID uuid.UUID) ([]Offer, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.MasterProduct, error)
	ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MasterProduct, error)
}

type service struct {
	repo            inventoryReader
	deliveryResolve delivery.Resolver
	couponResolve   coupons.Resolver
	log             *logger.Logger
}

// NewService constructs the price aggregation service.
func NewService(repo inventoryReader, deliveryResolve delivery.Resolver, couponResolve coupons.Resolver, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
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
		log:             log,
	}, nil
}

// ProductDetail returns one product with its full offer list, rating and
// coupons included. Products with no offerable inventory anywhere resolve
// to not-found.
func (s *service) ProductDetail(ctx context.Context, productID uuid.UUID) (*ProductWithPrices, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	offers, err := s.repo.ListOffersByProductIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		logCtx := s.log.WithProductID(ctx, productID.String())
		s.log.Warn(s.log.WithField(logCtx, "error", err.Error()), "inventory lookup failed for product detail")
		offers = nil
	}
	if len(offers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no available offers")
	}

	storeIDs := distinctStoreIDs(offers)

	// Delivery settings and coupons have no data dependency on each other,
	// so both batches run concurrently.
	var (
		wg            sync.WaitGroup
		settings      map[uuid.UUID]models.DeliverySettings
		couponsByShop map[uuid.UUID][]coupons.CouponDTO
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		settings = s.deliveryResolve.ResolveBatch(ctx, storeIDs)
	}()
	go func() {
		defer wg.Done()
		couponsByShop = s.couponResolve.ResolveBatch(ctx, storeIDs)
	}()
	wg.Wait()

	opts := EnrichOptions{IncludeRating: true, IncludeCoupons: true}
	prices := buildStorePrices(offers, settings, couponsByShop, opts)
	return newProductWithPrices(*product, prices, nil), nil
}

// EnrichProducts attaches the sorted offer list to each supplied product.
// Products with no offerable inventory are dropped from the result. The
// input order is preserved. Any backing-store failure resolves to an empty
// result, never an error.
func (s *service) EnrichProducts(ctx context.Context, products []models.MasterProduct, opts EnrichOptions) []ProductWithPrices {
	if len(products) == 0 {
		return []ProductWithPrices{}
	}
	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	offers, err := s.repo.ListOffersByProductIDs(ctx, productIDs)
	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "inventory lookup failed for enrichment")
		return []ProductWithPrices{}
	}
	byProduct := make(map[uuid.UUID][]Offer, len(products))
	for _, offer := range offers {
		byProduct[offer.ProductID] = append(byProduct[offer.ProductID], offer)
	}

	storeIDs := distinctStoreIDs(offers)
	var (
		wg            sync.WaitGroup
		settings      map[uuid.UUID]models.DeliverySettings
		couponsByShop map[uuid.UUID][]coupons.CouponDTO
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		settings = s.deliveryResolve.ResolveBatch(ctx, storeIDs)
	}()
	if opts.IncludeCoupons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			couponsByShop = s.couponResolve.ResolveBatch(ctx, storeIDs)
		}()
	}
	wg.Wait()

	out := make([]ProductWithPrices, 0, len(products))
	for _, product := range products {
		prices := buildStorePrices(byProduct[product.ID], settings, couponsByShop, opts)
		var relevance *float64
		if score, ok := opts.Relevance[product.ID]; ok {
			relevance = &score
		}
		if enriched := newProductWithPrices(product, prices, relevance); enriched != nil {
			out = append(out, *enriched)
		}
	}
	return out
}

// StoreCatalog returns the offerable products at one store, alphabetically
// by product name, with rating carried and coupons left empty.
func (s *service) StoreCatalog(ctx context.Context, storeID uuid.UUID, page pagination.Params) (*StoreCatalogResult, error) {
	offers, err := s.repo.ListOffersByStoreID(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store inventory")
	}
	page = pagination.Normalize(page)
	if len(offers) == 0 {
		return &StoreCatalogResult{StoreID: storeID, Products: []ProductWithPrices{}, Page: page.Page, Limit: page.Limit}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(offers))
	seen := make(map[uuid.UUID]struct{}, len(offers))
	for _, offer := range offers {
		if _, ok := seen[offer.ProductID]; ok {
			continue
		}
		seen[offer.ProductID] = struct{}{}
		productIDs = append(productIDs, offer.ProductID)
	}

	products, err := s.repo.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load catalog products")
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	enriched := s.EnrichProducts(ctx, products, EnrichOptions{IncludeRating: true})
	total := len(enriched)
	return &StoreCatalogResult{
		StoreID:  storeID,
		Products: pagination.Slice(enriched, page),
		Total:    total,
		Page:     page.Page,
		Limit:    page.Limit,
	}, nil
}

// buildStorePrices enriches raw offers into the sorted StorePrice list.
// Location-level delivery and pickup flags take precedence over store-level
// settings when set. Stores missing from the settings batch coalesce to the
// default policy field by field.
func buildStorePrices(offers []Offer, settings map[uuid.UUID]models.DeliverySettings, couponsByStore map[uuid.UUID][]coupons.CouponDTO, opts EnrichOptions) []StorePrice {
	prices := make([]StorePrice, 0, len(offers))
	for _, offer := range offers {
		info := delivery.EffectiveFor(settings, offer.StoreID)
		if offer.LocationDelivery != nil {
			info.DeliveryAvailable = *offer.LocationDelivery
		}
		if offer.LocationPickup != nil {
			info.PickupAvailable = *offer.LocationPickup
		}

		locationName := offer.LocationName
		if locationName == "" {
			locationName = defaultLocationName
		}

		price := StorePrice{
			InventoryID:           offer.InventoryID,
			StoreID:               offer.StoreID,
			StoreName:             offer.StoreName,
			StoreSlug:             offer.StoreSlug,
			StoreLogoURL:          offer.StoreLogoURL,
			LocationID:            offer.LocationID,
			LocationName:          locationName,
			DistanceMiles:         geo.Round2(opts.Distances[offer.StoreID]),
			Price:                 offer.Price,
			OriginalPrice:         offer.OriginalPrice,
			InStock:               offer.Quantity > 0,
			Quantity:              offer.Quantity,
			DeliveryAvailable:     info.DeliveryAvailable,
			PickupAvailable:       info.PickupAvailable,
			DeliveryFee:           info.DeliveryFee,
			MinimumOrder:          info.MinimumOrder,
			FreeDeliveryThreshold: info.FreeDeliveryThreshold,
			EstimatedDeliveryTime: info.EstimatedDeliveryTime,
			EstimatedPickupTime:   info.EstimatedPickupTime,
			Coupons:               []coupons.CouponDTO{},
		}
		if opts.IncludeRating {
			price.StoreRating = offer.StoreRating
			price.ReviewCount = offer.ReviewCount
		}
		if opts.IncludeCoupons {
			if eligible, ok := couponsByStore[offer.StoreID]; ok {
				price.Coupons = eligible
			}
		}
		prices = append(prices, price)
	}
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Price.LessThan(prices[j].Price)
	})
	return prices
}

func distinctStoreIDs(offers []Offer) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(offers))
	ids := make([]uuid.UUID, 0, len(offers))
	for _, offer := range offers {
		if _, ok := seen[offer.StoreID]; ok {
			continue
		}
		seen[offer.StoreID] = struct{}{}
		ids = append(ids, offer.StoreID)
	}
	return ids
}
