package pricing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventhive/booking-core/internal/core/domain"
	"github.com/eventhive/booking-core/internal/core/pricing"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func timePtr(t time.Time) *time.Time {
	return &t
}

func TestQuote_GroupDiscountTiers(t *testing.T) {
	eventID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		unitPrice float64
		quantity  int
		wantBase  float64
		wantGroup float64
		wantTotal float64
	}{
		{"single ticket no discount", 500, 1, 500, 0, 500},
		{"four tickets no discount", 500, 4, 2000, 0, 2000},
		{"five tickets 15 percent", 500, 5, 2500, 375, 2125},
		{"nine tickets still 15 percent", 500, 9, 4500, 675, 3825},
		{"ten tickets 20 percent", 500, 10, 5000, 1000, 4000},
		{"highest threshold wins non-stacking", 100, 10, 1000, 200, 800},
		{"rounds half up", 34, 5, 170, 26, 144}, // 170 * 0.15 = 25.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.Quote(tt.unitPrice, tt.quantity, nil, eventID, now)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantBase, got.BaseAmount)
			assert.Equal(t, tt.wantGroup, got.GroupDiscountAmount)
			assert.Equal(t, 0.0, got.CouponDiscountAmount)
			assert.Equal(t, tt.wantTotal, got.TotalAmount)
		})
	}
}

func TestQuote_PercentCouponAppliesAfterGroupDiscount(t *testing.T) {
	eventID := uuid.New()
	now := time.Now()

	coupon := &domain.Coupon{
		ID:         uuid.New(),
		Code:       "SAVE10",
		PercentOff: floatPtr(10),
	}

	// 500 * 6 = 3000 base, 15% group = 450, coupon 10% of 2550 = 255.
	got, err := pricing.Quote(500, 6, coupon, eventID, now)

	assert.NoError(t, err)
	assert.Equal(t, 3000.0, got.BaseAmount)
	assert.Equal(t, 450.0, got.GroupDiscountAmount)
	assert.Equal(t, 255.0, got.CouponDiscountAmount)
	assert.Equal(t, 2295.0, got.TotalAmount)
}

func TestQuote_PercentCouponRoundsHalfUp(t *testing.T) {
	eventID := uuid.New()
	now := time.Now()

	coupon := &domain.Coupon{
		ID:         uuid.New(),
		Code:       "SAVE5",
		PercentOff: floatPtr(5),
	}

	// 150 base, no group discount, 5% = 7.5 rounds to 8.
	got, err := pricing.Quote(50, 3, coupon, eventID, now)

	assert.NoError(t, err)
	assert.Equal(t, 8.0, got.CouponDiscountAmount)
	assert.Equal(t, 142.0, got.TotalAmount)
}

func TestQuote_AmountCouponClampedToDiscountedBase(t *testing.T) {
	eventID := uuid.New()
	now := time.Now()

	tests := []struct {
		name       string
		amountOff  float64
		wantCoupon float64
		wantTotal  float64
	}{
		{"smaller than base", 100, 100, 900},
		{"equal to base", 1000, 1000, 0},
		{"larger than base never negative", 5000, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := &domain.Coupon{
				ID:        uuid.New(),
				Code:      "FLAT",
				AmountOff: floatPtr(tt.amountOff),
			}

			// 500 * 2 = 1000, no group discount.
			got, err := pricing.Quote(500, 2, coupon, eventID, now)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCoupon, got.CouponDiscountAmount)
			assert.Equal(t, tt.wantTotal, got.TotalAmount)
		})
	}
}

func TestQuote_CouponConstraints(t *testing.T) {
	eventID := uuid.New()
	otherEventID := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		coupon  *domain.Coupon
		wantErr error
	}{
		{
			"scoped to another event",
			&domain.Coupon{Code: "OTHER", PercentOff: floatPtr(10), EventID: &otherEventID},
			domain.ErrCouponNotApplicable,
		},
		{
			"not yet valid",
			&domain.Coupon{Code: "SOON", PercentOff: floatPtr(10), ValidFrom: timePtr(now.Add(time.Hour))},
			domain.ErrCouponNotStarted,
		},
		{
			"expired regardless of other parameters",
			&domain.Coupon{Code: "LATE", PercentOff: floatPtr(50), ValidUntil: timePtr(now.Add(-time.Hour)), MaxUsage: intPtr(100)},
			domain.ErrCouponExpired,
		},
		{
			"usage cap reached",
			&domain.Coupon{Code: "GONE", PercentOff: floatPtr(10), MaxUsage: intPtr(3), UsedCount: 3},
			domain.ErrCouponExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pricing.Quote(500, 2, tt.coupon, eventID, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQuote_ScopedCouponAppliesToOwnEvent(t *testing.T) {
	eventID := uuid.New()
	now := time.Now()

	coupon := &domain.Coupon{
		Code:       "VIP",
		PercentOff: floatPtr(10),
		EventID:    &eventID,
	}

	got, err := pricing.Quote(500, 2, coupon, eventID, now)

	assert.NoError(t, err)
	assert.Equal(t, 100.0, got.CouponDiscountAmount)
}

func TestSameAmount(t *testing.T) {
	assert.True(t, pricing.SameAmount(2295, 2295))
	assert.True(t, pricing.SameAmount(2295.50, 2295.5))
	assert.False(t, pricing.SameAmount(2295, 2294))
	assert.False(t, pricing.SameAmount(2295, 2295.01))
}
