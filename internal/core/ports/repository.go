package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventhive/booking-core/internal/core/domain"
)

type CatalogRepository interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	// GetTier returns the tier only if it belongs to the event.
	GetTier(ctx context.Context, eventID, tierID uuid.UUID) (*domain.TicketTier, error)
	ListTiers(ctx context.Context, eventID uuid.UUID) ([]domain.TicketTier, error)
}

type CouponRepository interface {
	// GetByCode looks up a coupon by its normalized code and returns
	// domain.ErrInvalidCoupon when no such code exists.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// BookingRepository is the reservation ledger. Implementations must make
// each mutation atomic with the counter guards it depends on: a commit
// that would overshoot tier.TotalSold or coupon.UsedCount fails with the
// matching domain error instead of writing.
type BookingRepository interface {
	// CreateReservation inserts the PENDING booking and increments the
	// tier (and coupon, if any) counters in one transaction. Returns
	// domain.ErrInsufficientInventory or domain.ErrCouponExhausted when
	// a guard rejects, domain.ErrTxConflict when the commit lost a race
	// and the caller should re-run from validation.
	CreateReservation(ctx context.Context, booking *domain.Booking) error

	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)

	// Confirm transitions PENDING to CONFIRMED and records the payment.
	// The stored total is compared against payment.Amount inside the
	// transaction; a mismatch fails with domain.ErrAmountMismatch. The
	// returned bool is true when the booking was already confirmed and
	// the call was a no-op.
	Confirm(ctx context.Context, bookingID uuid.UUID, payment *domain.Payment) (*domain.Booking, bool, error)

	// CancelPending transitions PENDING to CANCELLED and restores the
	// tier and coupon counters in the same transaction. Returns the
	// cancelled booking so callers can invalidate derived state.
	CancelPending(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)

	// Refund transitions CONFIRMED to REFUNDED. Inventory stays sold.
	Refund(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)

	// RecordCheckIn marks a CONFIRMED booking as redeemed, once only.
	RecordCheckIn(ctx context.Context, bookingID uuid.UUID, scannedBy *uuid.UUID) (*domain.CheckIn, error)

	GetExpiredPending(ctx context.Context, limit int) ([]uuid.UUID, error)
}
