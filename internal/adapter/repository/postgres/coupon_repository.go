package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eventhive/booking-core/internal/core/domain"
)

type CouponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// GetByCode expects a code already normalized with domain.NormalizeCode;
// codes are stored uppercase.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `
	SELECT id, code, percent_off, amount_off, max_usage, used_count, valid_from, valid_until, event_id
	FROM coupons
	WHERE code = $1
	`

	var coupon domain.Coupon
	var percentOff, amountOff sql.NullFloat64
	var maxUsage sql.NullInt64
	var validFrom, validUntil sql.NullTime
	var eventID sql.NullString

	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&coupon.ID,
		&coupon.Code,
		&percentOff,
		&amountOff,
		&maxUsage,
		&coupon.UsedCount,
		&validFrom,
		&validUntil,
		&eventID,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrInvalidCoupon
		}
		return nil, err
	}

	if percentOff.Valid {
		coupon.PercentOff = &percentOff.Float64
	}
	if amountOff.Valid {
		coupon.AmountOff = &amountOff.Float64
	}
	if maxUsage.Valid {
		limit := int(maxUsage.Int64)
		coupon.MaxUsage = &limit
	}
	if validFrom.Valid {
		coupon.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		coupon.ValidUntil = &validUntil.Time
	}
	if eventID.Valid && eventID.String != "" {
		uid, err := uuid.Parse(eventID.String)
		if err == nil {
			coupon.EventID = &uid
		}
	}

	return &coupon, nil
}
