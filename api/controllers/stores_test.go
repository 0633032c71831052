package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/citycartapp/citycart-backend/internal/delivery"
	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/internal/stores"
	"github.com/citycartapp/citycart-backend/pkg/db/models"
	pkgerrors "github.com/citycartapp/citycart-backend/pkg/errors"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
)

type stubStoreService struct {
	lastInput stores.NearbyStoresInput
	result    *stores.NearbyStoresResult
	detail    *stores.StoreDetailDTO
	detailErr error
}

func (s *stubStoreService) NearbyStores(ctx context.Context, input stores.NearbyStoresInput) *stores.NearbyStoresResult {
	s.lastInput = input
	if s.result != nil {
		return s.result
	}
	return &stores.NearbyStoresResult{Stores: []stores.NearbyStore{}, Page: 1, Limit: pagination.DefaultLimit}
}

func (s *stubStoreService) NearbyStoreDistances(ctx context.Context, lat, lng, radiusMiles float64) ([]uuid.UUID, map[uuid.UUID]float64) {
	return nil, nil
}

func (s *stubStoreService) StoreDetail(ctx context.Context, storeID uuid.UUID) (*stores.StoreDetailDTO, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detail, nil
}

type stubCatalogService struct {
	catalog *pricing.StoreCatalogResult
	err     error
}

func (s stubCatalogService) ProductDetail(ctx context.Context, productID uuid.UUID) (*pricing.ProductWithPrices, error) {
	return nil, s.err
}

func (s stubCatalogService) StoreCatalog(ctx context.Context, storeID uuid.UUID, page pagination.Params) (*pricing.StoreCatalogResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.catalog, nil
}

func (s stubCatalogService) EnrichProducts(ctx context.Context, products []models.MasterProduct, opts pricing.EnrichOptions) []pricing.ProductWithPrices {
	return nil
}

func TestStoresNearbyParsesQuery(t *testing.T) {
	svc := &stubStoreService{}
	handler := StoresNearby(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/nearby?lat=30.2672&lng=-97.7431&radius_miles=5&q=corner&sort=rating&page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastInput.Lat != 30.2672 || svc.lastInput.Lng != -97.7431 {
		t.Fatalf("unexpected coordinates %+v", svc.lastInput)
	}
	if svc.lastInput.RadiusMiles != 5 {
		t.Fatalf("expected radius 5 got %v", svc.lastInput.RadiusMiles)
	}
	if svc.lastInput.Query != "corner" {
		t.Fatalf("expected query corner got %q", svc.lastInput.Query)
	}
	if svc.lastInput.Page.Page != 2 || svc.lastInput.Page.Limit != 10 {
		t.Fatalf("unexpected pagination %+v", svc.lastInput.Page)
	}
}

func TestStoresNearbyRejectsOutOfRangeLat(t *testing.T) {
	handler := StoresNearby(&stubStoreService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/nearby?lat=120&lng=-97.7431", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestStoresNearbyRejectsNonNumericRadius(t *testing.T) {
	handler := StoresNearby(&stubStoreService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/nearby?lat=30&lng=-97&radius_miles=far", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestStoreDetailSuccess(t *testing.T) {
	storeID := uuid.New()
	svc := &stubStoreService{detail: &stores.StoreDetailDTO{
		StoreID:      storeID,
		Name:         "Corner Market",
		Slug:         "corner-market",
		Rating:       4.5,
		DeliveryInfo: delivery.DefaultInfo(),
	}}

	router := chi.NewRouter()
	router.Get("/stores/{storeID}", StoreDetail(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/stores/"+storeID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data stores.StoreDetailDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.StoreID != storeID {
		t.Fatalf("expected id %s got %s", storeID, envelope.Data.StoreID)
	}
	if !envelope.Data.DeliveryInfo.DeliveryFee.Equal(decimal.NewFromFloat(4.99)) {
		t.Fatalf("expected default fee got %s", envelope.Data.DeliveryInfo.DeliveryFee)
	}
}

func TestStoreDetailNotFound(t *testing.T) {
	svc := &stubStoreService{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "store not found")}

	router := chi.NewRouter()
	router.Get("/stores/{storeID}", StoreDetail(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/stores/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestStoreCatalogRejectsBadID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/stores/{storeID}/products", StoreCatalog(stubCatalogService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/stores/nope/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestStoreCatalogSuccess(t *testing.T) {
	svc := stubCatalogService{catalog: &pricing.StoreCatalogResult{
		Products: []pricing.ProductWithPrices{},
		Total:    0,
		Page:     1,
		Limit:    pagination.DefaultLimit,
	}}

	router := chi.NewRouter()
	router.Get("/stores/{storeID}/products", StoreCatalog(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/stores/"+uuid.NewString()+"/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
