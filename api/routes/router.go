package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citycartapp/citycart-backend/api/controllers"
	"github.com/citycartapp/citycart-backend/api/middleware"
	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/internal/search"
	"github.com/citycartapp/citycart-backend/internal/stores"
	"github.com/citycartapp/citycart-backend/pkg/config"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/metrics"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       controllers.Pinger
	RedisPinger    controllers.Pinger
	StoreService   stores.Service
	SearchService  search.Service
	PricingService pricing.Service
	Registry       *prometheus.Registry
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	var requestMetrics *metrics.RequestMetrics
	if deps.Registry != nil {
		requestMetrics = metrics.NewRequestMetrics(deps.Registry)
	}

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(requestMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stores", func(r chi.Router) {
			r.Get("/nearby", controllers.StoresNearby(deps.StoreService, deps.Logger))
			r.Get("/{storeID}", controllers.StoreDetail(deps.StoreService, deps.Logger))
			r.Get("/{storeID}/products", controllers.StoreCatalog(deps.PricingService, deps.Logger))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/search", controllers.ProductSearch(deps.SearchService, deps.Logger))
			r.Get("/{productID}", controllers.ProductDetail(deps.PricingService, deps.Logger))
		})
	})

	return r
}
