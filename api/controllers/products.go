package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/citycartapp/citycart-backend/api/responses"
	"github.com/citycartapp/citycart-backend/api/validators"
	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/internal/search"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	pkgerrors "github.com/citycartapp/citycart-backend/pkg/errors"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/pagination"
)

type productSearchRequest struct {
	Query       string   `json:"q,omitempty" validate:"omitempty,max=128"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=64"`
	MinPrice    *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Lat         *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng         *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	RadiusMiles float64  `json:"radius_miles,omitempty" validate:"omitempty,gt=0,lte=100"`
	Sort        string   `json:"sort,omitempty" validate:"omitempty,oneof=relevance price distance"`
	Page        int      `json:"page,omitempty" validate:"omitempty,gte=1"`
	Limit       int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100"`
}

func (req productSearchRequest) toInput() search.SearchInput {
	// Sort values are constrained by the oneof tag before this runs.
	sort, _ := enums.ParseProductSort(req.Sort)
	input := search.SearchInput{
		Query:       validators.SanitizeString(req.Query, maxQueryLength),
		Category:    validators.SanitizeString(req.Category, 64),
		Lat:         req.Lat,
		Lng:         req.Lng,
		RadiusMiles: req.RadiusMiles,
		Sort:        sort,
		Page:        pagination.Params{Page: req.Page, Limit: req.Limit},
	}
	if req.MinPrice != nil {
		min := decimal.NewFromFloat(*req.MinPrice)
		input.MinPrice = &min
	}
	if req.MaxPrice != nil {
		max := decimal.NewFromFloat(*req.MaxPrice)
		input.MaxPrice = &max
	}
	return input
}

func (req productSearchRequest) validateShape() error {
	if (req.Lat == nil) != (req.Lng == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be supplied together")
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}
	return nil
}

// ProductSearch runs the staged product search.
func ProductSearch(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		var req productSearchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := req.validateShape(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Search(r.Context(), req.toInput()))
	}
}

// ProductDetail returns one product with its full offer list.
func ProductDetail(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		detail, err := svc.ProductDetail(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
