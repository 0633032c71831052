// Package coupons resolves the active, date-windowed coupons for stores.
package coupons

import (
	"context"
	"fmt"
	"time"

	"github.com/citycartapp/citycart-backend/pkg/db/models"
	"github.com/citycartapp/citycart-backend/pkg/enums"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponDTO is the shopper-facing shape of an eligible coupon.
type CouponDTO struct {
	ID            uuid.UUID          `json:"id"`
	Code          string             `json:"code"`
	Description   *string            `json:"description,omitempty"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	MinimumOrder  *decimal.Decimal   `json:"minimum_order,omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
}

func toDTO(c models.Coupon) CouponDTO {
	return CouponDTO{
		ID:            c.ID,
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinimumOrder:  c.MinimumOrder,
		EndDate:       c.EndDate,
	}
}

type couponStore interface {
	ListEligibleByStoreIDs(ctx context.Context, storeIDs []uuid.UUID, now time.Time) ([]models.Coupon, error)
}

// Resolver batch-loads eligible coupons for stores.
//
// ResolveBatch never returns an error: a failed backing lookup resolves to
// an empty map so enrichment simply omits coupons.
type Resolver interface {
	ResolveBatch(ctx context.Context, storeIDs []uuid.UUID) map[uuid.UUID][]CouponDTO
}

type resolver struct {
	repo couponStore
	log  *logger.Logger
	now  func() time.Time
}

// NewResolver constructs a coupon resolver.
func NewResolver(repo couponStore, log *logger.Logger) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &resolver{repo: repo, log: log, now: time.Now}, nil
}

// ResolveBatch returns eligible coupons keyed by store id. Stores with no
// eligible coupons are absent from the map.
func (r *resolver) ResolveBatch(ctx context.Context, storeIDs []uuid.UUID) map[uuid.UUID][]CouponDTO {
	out := make(map[uuid.UUID][]CouponDTO, len(storeIDs))
	if len(storeIDs) == 0 {
		return out
	}
	rows, err := r.repo.ListEligibleByStoreIDs(ctx, storeIDs, r.now())
	if err != nil {
		logCtx := r.log.WithField(ctx, "error", err.Error())
		r.log.Warn(logCtx, "coupon lookup failed, returning none")
		return out
	}
	for _, row := range rows {
		out[row.StoreID] = append(out[row.StoreID], toDTO(row))
	}
	return out
}
