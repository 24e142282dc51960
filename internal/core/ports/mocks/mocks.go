// Package mocks provides testify mocks for the repository ports.
package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/eventhive/booking-core/internal/core/domain"
)

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t *testing.T) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *CatalogRepository) GetTier(ctx context.Context, eventID, tierID uuid.UUID) (*domain.TicketTier, error) {
	args := m.Called(ctx, eventID, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketTier), args.Error(1)
}

func (m *CatalogRepository) ListTiers(ctx context.Context, eventID uuid.UUID) ([]domain.TicketTier, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketTier), args.Error(1)
}

type CouponRepository struct {
	mock.Mock
}

func NewCouponRepository(t *testing.T) *CouponRepository {
	m := &CouponRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

type BookingRepository struct {
	mock.Mock
}

func NewBookingRepository(t *testing.T) *BookingRepository {
	m := &BookingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *BookingRepository) CreateReservation(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) Confirm(ctx context.Context, bookingID uuid.UUID, payment *domain.Payment) (*domain.Booking, bool, error) {
	args := m.Called(ctx, bookingID, payment)
	var booking *domain.Booking
	if args.Get(0) != nil {
		booking = args.Get(0).(*domain.Booking)
	}
	return booking, args.Bool(1), args.Error(2)
}

func (m *BookingRepository) CancelPending(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) Refund(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) RecordCheckIn(ctx context.Context, bookingID uuid.UUID, scannedBy *uuid.UUID) (*domain.CheckIn, error) {
	args := m.Called(ctx, bookingID, scannedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckIn), args.Error(1)
}

func (m *BookingRepository) GetExpiredPending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
