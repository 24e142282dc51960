package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eventhive/booking-core/internal/core/domain"
	"github.com/eventhive/booking-core/internal/core/ports"
	"github.com/eventhive/booking-core/internal/core/pricing"
	"github.com/eventhive/booking-core/internal/monitoring"
	"github.com/eventhive/booking-core/internal/platform/cache"
)

type ReserveRequest struct {
	UserID     string `json:"user_id"`
	EventID    string `json:"event_id"`
	TierID     string `json:"tier_id"`
	Quantity   int    `json:"quantity"`
	CouponCode string `json:"coupon_code,omitempty"`
}

type ReserveResponse struct {
	BookingID   string            `json:"booking_id"`
	BookingCode string            `json:"booking_code"`
	Pricing     pricing.Breakdown `json:"pricing"`
	Status      string            `json:"status"`
	ExpiresAt   string            `json:"expires_at"`
}

type ConfirmRequest struct {
	PaymentRef     string  `json:"payment_ref"`
	Amount         float64 `json:"amount"`
	ProviderStatus string  `json:"provider_status,omitempty"`
}

type CheckInRequest struct {
	ScannedBy string `json:"scanned_by,omitempty"`
}

type BookingResponse struct {
	BookingID   string            `json:"booking_id"`
	BookingCode string            `json:"booking_code"`
	UserID      string            `json:"user_id"`
	EventID     string            `json:"event_id"`
	TierID      string            `json:"tier_id"`
	Quantity    int               `json:"quantity"`
	Pricing     pricing.Breakdown `json:"pricing"`
	Status      string            `json:"status"`
	ExpiresAt   string            `json:"expires_at,omitempty"`
	ConfirmedAt string            `json:"confirmed_at,omitempty"`
	PaymentRef  string            `json:"payment_ref,omitempty"`
	CheckedInAt string            `json:"checked_in_at,omitempty"`
}

type BookingService struct {
	catalog      *CatalogService
	couponRepo   ports.CouponRepository
	bookingRepo  ports.BookingRepository
	availability *cache.AvailabilityCache

	pendingTTL    time.Duration
	sweepInterval time.Duration
	sweepBatch    int

	now func() time.Time
}

func NewBookingService(
	catalog *CatalogService,
	couponRepo ports.CouponRepository,
	bookingRepo ports.BookingRepository,
	availability *cache.AvailabilityCache,
	pendingTTL, sweepInterval time.Duration,
	sweepBatch int,
) *BookingService {
	return &BookingService{
		catalog:       catalog,
		couponRepo:    couponRepo,
		bookingRepo:   bookingRepo,
		availability:  availability,
		pendingTTL:    pendingTTL,
		sweepInterval: sweepInterval,
		sweepBatch:    sweepBatch,
		now:           time.Now,
	}
}

// Reserve validates, prices and provisionally holds inventory for a
// booking. A commit that loses a race against another writer gets one
// retry from the top so it re-reads current counters.
func (s *BookingService) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResponse, error) {
	start := s.now()

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.New("invalid event id")
	}

	tierID, err := uuid.Parse(req.TierID)
	if err != nil {
		return nil, errors.New("invalid tier id")
	}

	var resp *ReserveResponse
	for attempt := 0; attempt < 2; attempt++ {
		resp, err = s.reserveOnce(ctx, userID, eventID, tierID, req.Quantity, req.CouponCode)
		if errors.Is(err, domain.ErrTxConflict) {
			monitoring.TrackReservation("conflict_retry")
			continue
		}
		break
	}

	if err != nil {
		monitoring.TrackReservation("rejected")
		return nil, err
	}

	monitoring.TrackReservation("created")
	monitoring.ObserveReserveDuration(s.now().Sub(start))
	return resp, nil
}

func (s *BookingService) reserveOnce(ctx context.Context, userID, eventID, tierID uuid.UUID, quantity int, couponCode string) (*ReserveResponse, error) {
	_, tier, err := s.catalog.Lookup(ctx, eventID, tierID, quantity)
	if err != nil {
		return nil, err
	}

	var coupon *domain.Coupon
	if couponCode != "" {
		coupon, err = s.couponRepo.GetByCode(ctx, domain.NormalizeCode(couponCode))
		if err != nil {
			return nil, err
		}
	}

	breakdown, err := pricing.Quote(tier.UnitPrice, quantity, coupon, eventID, s.now())
	if err != nil {
		return nil, err
	}

	code, err := newBookingCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &domain.Booking{
		ID:                   uuid.New(),
		Code:                 code,
		UserID:               userID,
		EventID:              eventID,
		TierID:               tierID,
		Quantity:             quantity,
		BaseAmount:           breakdown.BaseAmount,
		GroupDiscountAmount:  breakdown.GroupDiscountAmount,
		CouponDiscountAmount: breakdown.CouponDiscountAmount,
		TotalAmount:          breakdown.TotalAmount,
		Status:               domain.BookingPending,
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.pendingTTL),
	}
	if coupon != nil {
		booking.CouponID = &coupon.ID
		booking.CouponCode = &coupon.Code
	}

	if err := s.bookingRepo.CreateReservation(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, eventID)

	return &ReserveResponse{
		BookingID:   booking.ID.String(),
		BookingCode: booking.Code,
		Pricing:     breakdown,
		Status:      string(domain.BookingPending),
		ExpiresAt:   booking.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Confirm transitions a PENDING booking to CONFIRMED after the caller
// has verified the provider signature. Idempotent: confirming an
// already-CONFIRMED booking returns it unchanged.
func (s *BookingService) Confirm(ctx context.Context, bookingID string, req ConfirmRequest) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, errors.New("invalid booking id")
	}

	if req.PaymentRef == "" {
		return nil, errors.New("invalid payment ref")
	}

	providerStatus := req.ProviderStatus
	if providerStatus == "" {
		providerStatus = "captured"
	}

	payment := &domain.Payment{
		ID:             uuid.New(),
		BookingID:      id,
		ProviderRef:    req.PaymentRef,
		Amount:         req.Amount,
		ProviderStatus: providerStatus,
		CapturedAt:     s.now(),
	}

	booking, alreadyConfirmed, err := s.bookingRepo.Confirm(ctx, id, payment)
	if err != nil {
		if errors.Is(err, domain.ErrAmountMismatch) {
			// Treated as a fraud signal, never silently coerced.
			log.Printf("ALERT: amount mismatch on booking %s: got %.2f, ref %s", id, req.Amount, req.PaymentRef)
			monitoring.TrackAmountMismatch()
			monitoring.TrackConfirmation("amount_mismatch")
		} else {
			monitoring.TrackConfirmation("failed")
		}
		return nil, err
	}

	if alreadyConfirmed {
		monitoring.TrackConfirmation("already_confirmed")
	} else {
		monitoring.TrackConfirmation("confirmed")
	}

	return toBookingResponse(booking), nil
}

// Cancel releases a PENDING hold back to the pool.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, errors.New("invalid booking id")
	}

	booking, err := s.bookingRepo.CancelPending(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, booking.EventID)
	monitoring.TrackRelease("cancelled")

	return toBookingResponse(booking), nil
}

// Refund marks a CONFIRMED booking REFUNDED. Inventory stays sold.
func (s *BookingService) Refund(ctx context.Context, bookingID string) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, errors.New("invalid booking id")
	}

	booking, err := s.bookingRepo.Refund(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBookingResponse(booking), nil
}

// CheckIn redeems a confirmed booking, once only.
func (s *BookingService) CheckIn(ctx context.Context, bookingID string, req CheckInRequest) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, errors.New("invalid booking id")
	}

	var scannedBy *uuid.UUID
	if req.ScannedBy != "" {
		scanner, err := uuid.Parse(req.ScannedBy)
		if err != nil {
			return nil, errors.New("invalid scanner id")
		}
		scannedBy = &scanner
	}

	if _, err := s.bookingRepo.RecordCheckIn(ctx, id, scannedBy); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBookingResponse(booking), nil
}

func (s *BookingService) Get(ctx context.Context, bookingID string) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, errors.New("invalid booking id")
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBookingResponse(booking), nil
}

// RunBackgroundSweep cancels PENDING bookings whose hold expired,
// releasing their inventory back to the pool.
func (s *BookingService) RunBackgroundSweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	log.Printf("Background sweep started: releasing expired holds every %s...", s.sweepInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Background sweep stopped.")
			return
		case <-ticker.C:
			s.SweepExpired(ctx)
		}
	}
}

// SweepExpired releases one batch of expired PENDING holds.
func (s *BookingService) SweepExpired(ctx context.Context) {
	ids, err := s.bookingRepo.GetExpiredPending(ctx, s.sweepBatch)
	if err != nil {
		log.Printf("Error fetching expired bookings: %v", err)
		return
	}

	if len(ids) == 0 {
		return
	}

	log.Printf("Found %d expired bookings. Releasing holds...", len(ids))

	for _, id := range ids {
		booking, err := s.bookingRepo.CancelPending(ctx, id)
		if err != nil {
			// Lost a race with a concurrent confirm or cancel; skip.
			log.Printf("Failed to release booking %s: %v", id, err)
			continue
		}
		s.invalidateAvailability(ctx, booking.EventID)
		monitoring.TrackRelease("expired")
		log.Printf("Booking %s expired and inventory released.", id)
	}
}

func (s *BookingService) invalidateAvailability(ctx context.Context, eventID uuid.UUID) {
	if err := s.availability.Invalidate(ctx, eventID); err != nil {
		log.Printf("Failed to invalidate availability cache for event %s: %v", eventID, err)
	}
}

func toBookingResponse(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		BookingID:   b.ID.String(),
		BookingCode: b.Code,
		UserID:      b.UserID.String(),
		EventID:     b.EventID.String(),
		TierID:      b.TierID.String(),
		Quantity:    b.Quantity,
		Pricing: pricing.Breakdown{
			BaseAmount:           b.BaseAmount,
			GroupDiscountAmount:  b.GroupDiscountAmount,
			CouponDiscountAmount: b.CouponDiscountAmount,
			TotalAmount:          b.TotalAmount,
		},
		Status: string(b.Status),
	}

	if b.Status == domain.BookingPending {
		resp.ExpiresAt = b.ExpiresAt.Format(time.RFC3339)
	}
	if b.ConfirmedAt != nil {
		resp.ConfirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	if b.Payment != nil {
		resp.PaymentRef = b.Payment.ProviderRef
	}
	if b.CheckIn != nil {
		resp.CheckedInAt = b.CheckIn.ScannedAt.Format(time.RFC3339)
	}

	return resp
}
