// Package delivery resolves per-store delivery policies, falling back to a
// fixed default policy for stores with no configured settings.
package delivery

import (
	"context"
	"fmt"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default policy applied field by field wherever a store has no settings row
// or has left an individual field unset.
var (
	defaultFee          = decimal.NewFromFloat(4.99)
	defaultMinimumOrder = decimal.Zero
)

const (
	defaultRadiusMiles  = 10.0
	defaultDeliveryTime = "30-45 min"
	defaultPickupTime   = "15-20 min"
)

// Info is the shopper-facing effective delivery policy for one store.
type Info struct {
	DeliveryAvailable     bool             `json:"delivery_available"`
	PickupAvailable       bool             `json:"pickup_available"`
	DeliveryFee           decimal.Decimal  `json:"delivery_fee"`
	MinimumOrder          decimal.Decimal  `json:"minimum_order"`
	FreeDeliveryThreshold *decimal.Decimal `json:"free_delivery_threshold,omitempty"`
	DeliveryRadiusMiles   float64          `json:"delivery_radius_miles"`
	EstimatedDeliveryTime string           `json:"estimated_delivery_time"`
	EstimatedPickupTime   string           `json:"estimated_pickup_time"`
}

// DefaultInfo returns the policy used when a store has no settings at all.
func DefaultInfo() Info {
	return Info{
		DeliveryAvailable:     true,
		PickupAvailable:       true,
		DeliveryFee:           defaultFee,
		MinimumOrder:          defaultMinimumOrder,
		FreeDeliveryThreshold: nil,
		DeliveryRadiusMiles:   defaultRadiusMiles,
		EstimatedDeliveryTime: defaultDeliveryTime,
		EstimatedPickupTime:   defaultPickupTime,
	}
}

// Effective coalesces a raw settings row over the defaults, field by field.
// A store with only some fields configured keeps its configured values and
// receives defaults for the rest. A nil row yields the full default policy.
func Effective(row *models.DeliverySettings) Info {
	info := DefaultInfo()
	if row == nil {
		return info
	}
	if row.DeliveryEnabled != nil {
		info.DeliveryAvailable = *row.DeliveryEnabled
	}
	if row.PickupEnabled != nil {
		info.PickupAvailable = *row.PickupEnabled
	}
	if row.DeliveryFee != nil {
		info.DeliveryFee = *row.DeliveryFee
	}
	if row.MinimumOrder != nil {
		info.MinimumOrder = *row.MinimumOrder
	}
	if row.FreeDeliveryThreshold != nil {
		threshold := *row.FreeDeliveryThreshold
		info.FreeDeliveryThreshold = &threshold
	}
	if row.DeliveryRadiusMiles != nil {
		info.DeliveryRadiusMiles = *row.DeliveryRadiusMiles
	}
	if row.EstimatedDeliveryTime != nil {
		info.EstimatedDeliveryTime = *row.EstimatedDeliveryTime
	}
	if row.EstimatedPickupTime != nil {
		info.EstimatedPickupTime = *row.EstimatedPickupTime
	}
	return info
}

// EffectiveFor looks up a store in a resolved batch and coalesces it over
// the defaults. Stores absent from the batch get the full default policy.
func EffectiveFor(batch map[uuid.UUID]models.DeliverySettings, storeID uuid.UUID) Info {
	if row, ok := batch[storeID]; ok {
		return Effective(&row)
	}
	return Effective(nil)
}

type settingsStore interface {
	ListByStoreIDs(ctx context.Context, storeIDs []uuid.UUID) ([]models.DeliverySettings, error)
}

// Resolver batch-loads delivery settings for stores.
//
// ResolveBatch never returns an error: a failed or missing backing table
// resolves to an empty map so callers fall through to the default policy.
type Resolver interface {
	ResolveBatch(ctx context.Context, storeIDs []uuid.UUID) map[uuid.UUID]models.DeliverySettings
	ResolveEffective(ctx context.Context, storeID uuid.UUID) Info
}

type resolver struct {
	repo settingsStore
	log  *logger.Logger
}

// NewResolver constructs a delivery settings resolver.
func NewResolver(repo settingsStore, log *logger.Logger) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery settings repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &resolver{repo: repo, log: log}, nil
}

// ResolveBatch returns the configured settings rows keyed by store id.
// Stores with no row are simply absent from the map.
func (r *resolver) ResolveBatch(ctx context.Context, storeIDs []uuid.UUID) map[uuid.UUID]models.DeliverySettings {
	out := make(map[uuid.UUID]models.DeliverySettings, len(storeIDs))
	if len(storeIDs) == 0 {
		return out
	}
	rows, err := r.repo.ListByStoreIDs(ctx, storeIDs)
	if err != nil {
		logCtx := r.log.WithField(ctx, "error", err.Error())
		r.log.Warn(logCtx, "delivery settings lookup failed, using defaults")
		return out
	}
	for _, row := range rows {
		out[row.StoreID] = row
	}
	return out
}

// ResolveEffective returns the effective policy for a single store. It is
// defined in terms of the batch lookup.
func (r *resolver) ResolveEffective(ctx context.Context, storeID uuid.UUID) Info {
	batch := r.ResolveBatch(ctx, []uuid.UUID{storeID})
	return EffectiveFor(batch, storeID)
}
