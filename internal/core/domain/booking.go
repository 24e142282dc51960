package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRefunded  BookingStatus = "REFUNDED"
)

// Booking is the reservation record. Quantity is fixed at creation;
// inventory is held from PENDING until confirm or release.
type Booking struct {
	ID         uuid.UUID
	Code       string // human-readable reference shown to the attendee
	UserID     uuid.UUID
	EventID    uuid.UUID
	TierID     uuid.UUID
	Quantity   int
	CouponID   *uuid.UUID
	CouponCode *string

	BaseAmount           float64
	GroupDiscountAmount  float64
	CouponDiscountAmount float64
	TotalAmount          float64

	Status      BookingStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ConfirmedAt *time.Time

	Payment *Payment
	CheckIn *CheckIn
}

// Payment is one-to-one with a confirmed booking.
type Payment struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	ProviderRef    string
	Amount         float64
	ProviderStatus string
	CapturedAt     time.Time
}

// CheckIn marks the ticket as redeemed; at most one per booking.
type CheckIn struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	ScannedBy *uuid.UUID
	ScannedAt time.Time
}

// CanTransition encodes the booking lifecycle: PENDING may confirm or
// cancel, CONFIRMED may only refund, terminal states never move.
func (b *Booking) CanTransition(to BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingRefunded
	default:
		return false
	}
}

func (b *Booking) Expired(now time.Time) bool {
	return b.Status == BookingPending && b.ExpiresAt.Before(now)
}
