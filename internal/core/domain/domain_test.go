package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventhive/booking-core/internal/core/domain"
)

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		from domain.BookingStatus
		to   domain.BookingStatus
		ok   bool
	}{
		{domain.BookingPending, domain.BookingConfirmed, true},
		{domain.BookingPending, domain.BookingCancelled, true},
		{domain.BookingPending, domain.BookingRefunded, false},
		{domain.BookingConfirmed, domain.BookingRefunded, true},
		{domain.BookingConfirmed, domain.BookingCancelled, false},
		{domain.BookingConfirmed, domain.BookingPending, false},
		{domain.BookingCancelled, domain.BookingConfirmed, false},
		{domain.BookingRefunded, domain.BookingConfirmed, false},
	}

	for _, tt := range tests {
		b := &domain.Booking{Status: tt.from}
		assert.Equal(t, tt.ok, b.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", domain.NormalizeCode("save10"))
	assert.Equal(t, "SAVE10", domain.NormalizeCode("  Save10 "))
}

func TestCouponAppliesTo(t *testing.T) {
	eventID := uuid.New()
	other := uuid.New()

	global := &domain.Coupon{}
	assert.True(t, global.AppliesTo(eventID))

	scoped := &domain.Coupon{EventID: &eventID}
	assert.True(t, scoped.AppliesTo(eventID))
	assert.False(t, scoped.AppliesTo(other))
}

func TestBookingExpired(t *testing.T) {
	now := time.Now()

	pending := &domain.Booking{Status: domain.BookingPending, ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, pending.Expired(now))

	live := &domain.Booking{Status: domain.BookingPending, ExpiresAt: now.Add(time.Minute)}
	assert.False(t, live.Expired(now))

	confirmed := &domain.Booking{Status: domain.BookingConfirmed, ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, confirmed.Expired(now))
}
