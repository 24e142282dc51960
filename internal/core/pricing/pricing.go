package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventhive/booking-core/internal/core/domain"
)

// Breakdown is the chargeable amount split into its discount steps.
// Amounts are rupees, rounded half-up to the nearest whole rupee at
// each step. The order matters: the group discount is taken off the
// base first, then the coupon is applied to the discounted base.
type Breakdown struct {
	BaseAmount           float64 `json:"base_amount"`
	GroupDiscountAmount  float64 `json:"group_discount_amount"`
	CouponDiscountAmount float64 `json:"coupon_discount_amount"`
	TotalAmount          float64 `json:"total_amount"`
}

// Group discount tiers, highest matching threshold wins, non-stacking.
var groupTiers = []struct {
	minQuantity int
	rate        decimal.Decimal
}{
	{10, decimal.NewFromFloat(0.20)},
	{5, decimal.NewFromFloat(0.15)},
}

func groupRate(quantity int) decimal.Decimal {
	for _, tier := range groupTiers {
		if quantity >= tier.minQuantity {
			return tier.rate
		}
	}
	return decimal.Zero
}

// ValidateCoupon checks the coupon's constraints in order, failing fast
// on the first violation. The caller resolves the code to a coupon
// beforehand; a missing code is domain.ErrInvalidCoupon at that layer.
func ValidateCoupon(coupon *domain.Coupon, eventID uuid.UUID, now time.Time) error {
	if !coupon.AppliesTo(eventID) {
		return domain.ErrCouponNotApplicable
	}
	if coupon.ValidFrom != nil && coupon.ValidFrom.After(now) {
		return domain.ErrCouponNotStarted
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(now) {
		return domain.ErrCouponExpired
	}
	if coupon.Exhausted() {
		return domain.ErrCouponExhausted
	}
	return nil
}

// Quote computes the price breakdown for a quantity of a tier, with an
// optional coupon (nil means none). Pure function of its inputs.
func Quote(unitPrice float64, quantity int, coupon *domain.Coupon, eventID uuid.UUID, now time.Time) (Breakdown, error) {
	base := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	groupDiscount := base.Mul(groupRate(quantity)).Round(0)
	afterGroup := base.Sub(groupDiscount)

	couponDiscount := decimal.Zero
	if coupon != nil {
		if err := ValidateCoupon(coupon, eventID, now); err != nil {
			return Breakdown{}, err
		}
		switch {
		case coupon.PercentOff != nil:
			pct := decimal.NewFromFloat(*coupon.PercentOff)
			couponDiscount = afterGroup.Mul(pct).Div(decimal.NewFromInt(100)).Round(0)
		case coupon.AmountOff != nil:
			couponDiscount = decimal.NewFromFloat(*coupon.AmountOff)
			if couponDiscount.GreaterThan(afterGroup) {
				couponDiscount = afterGroup
			}
		}
	}

	total := afterGroup.Sub(couponDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		BaseAmount:           base.InexactFloat64(),
		GroupDiscountAmount:  groupDiscount.InexactFloat64(),
		CouponDiscountAmount: couponDiscount.InexactFloat64(),
		TotalAmount:          total.InexactFloat64(),
	}, nil
}

// SameAmount reports whether two rupee amounts are equal, comparing as
// decimals to avoid float artifacts from transport layers.
func SameAmount(a, b float64) bool {
	return decimal.NewFromFloat(a).Equal(decimal.NewFromFloat(b))
}
