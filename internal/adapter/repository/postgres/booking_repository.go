package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eventhive/booking-core/internal/core/domain"
	"github.com/eventhive/booking-core/internal/core/pricing"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateReservation holds inventory for a PENDING booking. The counter
// guards run as conditional updates inside the same transaction as the
// booking insert, so a racing writer can never push total_sold past
// max_quantity or used_count past max_usage.
func (r *BookingRepository) CreateReservation(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	reserveTier := `
	UPDATE ticket_tiers
	SET total_sold = total_sold + $1
	WHERE id = $2 AND total_sold + $1 <= max_quantity
	`

	result, err := tx.ExecContext(ctx, reserveTier, booking.Quantity, booking.TierID)
	if err != nil {
		return retryable(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInsufficientInventory
	}

	if booking.CouponID != nil {
		useCoupon := `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE id = $1 AND (max_usage IS NULL OR used_count < max_usage)
		`

		result, err := tx.ExecContext(ctx, useCoupon, *booking.CouponID)
		if err != nil {
			return retryable(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrCouponExhausted
		}
	}

	insertBooking := `
	INSERT INTO bookings (
		id, code, user_id, event_id, tier_id, quantity, coupon_id, coupon_code,
		base_amount, group_discount_amount, coupon_discount_amount, total_amount,
		status, created_at, expires_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.ExecContext(ctx, insertBooking,
		booking.ID, booking.Code, booking.UserID, booking.EventID, booking.TierID,
		booking.Quantity, booking.CouponID, booking.CouponCode,
		booking.BaseAmount, booking.GroupDiscountAmount, booking.CouponDiscountAmount,
		booking.TotalAmount, booking.Status, booking.CreatedAt, booking.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", retryable(err))
	}

	if err = tx.Commit(); err != nil {
		return retryable(err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `
	SELECT b.id, b.code, b.user_id, b.event_id, b.tier_id, b.quantity,
		b.coupon_id, b.coupon_code,
		b.base_amount, b.group_discount_amount, b.coupon_discount_amount, b.total_amount,
		b.status, b.created_at, b.expires_at, b.confirmed_at,
		p.id, p.provider_ref, p.amount, p.provider_status, p.captured_at,
		c.id, c.scanned_by, c.scanned_at
	FROM bookings b
	LEFT JOIN payments p ON p.booking_id = b.id
	LEFT JOIN check_ins c ON c.booking_id = b.id
	WHERE b.id = $1
	`

	var b domain.Booking
	var couponID, paymentID, checkInID, scannedBy, providerRef, providerStatus sql.NullString
	var couponCode sql.NullString
	var confirmedAt, capturedAt, scannedAt sql.NullTime
	var paymentAmount sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&b.ID, &b.Code, &b.UserID, &b.EventID, &b.TierID, &b.Quantity,
		&couponID, &couponCode,
		&b.BaseAmount, &b.GroupDiscountAmount, &b.CouponDiscountAmount, &b.TotalAmount,
		&b.Status, &b.CreatedAt, &b.ExpiresAt, &confirmedAt,
		&paymentID, &providerRef, &paymentAmount, &providerStatus, &capturedAt,
		&checkInID, &scannedBy, &scannedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	if couponID.Valid {
		if uid, err := uuid.Parse(couponID.String); err == nil {
			b.CouponID = &uid
		}
	}
	if couponCode.Valid {
		b.CouponCode = &couponCode.String
	}
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}

	if paymentID.Valid {
		payment := &domain.Payment{
			BookingID:      b.ID,
			ProviderRef:    providerRef.String,
			Amount:         paymentAmount.Float64,
			ProviderStatus: providerStatus.String,
			CapturedAt:     capturedAt.Time,
		}
		if uid, err := uuid.Parse(paymentID.String); err == nil {
			payment.ID = uid
		}
		b.Payment = payment
	}

	if checkInID.Valid {
		checkIn := &domain.CheckIn{
			BookingID: b.ID,
			ScannedAt: scannedAt.Time,
		}
		if uid, err := uuid.Parse(checkInID.String); err == nil {
			checkIn.ID = uid
		}
		if scannedBy.Valid {
			if uid, err := uuid.Parse(scannedBy.String); err == nil {
				checkIn.ScannedBy = &uid
			}
		}
		b.CheckIn = checkIn
	}

	return &b, nil
}

// Confirm is idempotent: a booking that is already CONFIRMED is returned
// unchanged with the second return value true, and no counter moves.
func (r *BookingRepository) Confirm(ctx context.Context, bookingID uuid.UUID, payment *domain.Payment) (*domain.Booking, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}

	defer tx.Rollback()

	var status domain.BookingStatus
	var totalAmount float64

	err = tx.QueryRowContext(ctx,
		`SELECT status, total_amount FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID,
	).Scan(&status, &totalAmount)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, domain.ErrBookingNotFound
		}
		return nil, false, err
	}

	switch status {
	case domain.BookingConfirmed:
		booking, err := r.GetByID(ctx, bookingID)
		if err != nil {
			return nil, false, err
		}
		return booking, true, nil
	case domain.BookingPending:
		// fall through to the transition below
	default:
		return nil, false, domain.ErrInvalidTransition
	}

	if !pricing.SameAmount(totalAmount, payment.Amount) {
		return nil, false, domain.ErrAmountMismatch
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, confirmed_at = $2 WHERE id = $3`,
		domain.BookingConfirmed, now, bookingID,
	)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, booking_id, provider_ref, amount, provider_status, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		payment.ID, bookingID, payment.ProviderRef, payment.Amount, payment.ProviderStatus, payment.CapturedAt,
	)
	if err != nil {
		return nil, false, retryable(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, retryable(err)
	}

	booking, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}

	return booking, false, nil
}

// CancelPending releases the hold: the booking goes to CANCELLED and the
// tier (and coupon, if used) counters are restored in the same
// transaction.
func (r *BookingRepository) CancelPending(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	var status domain.BookingStatus
	var tierID uuid.UUID
	var quantity int
	var couponID sql.NullString

	err = tx.QueryRowContext(ctx,
		`SELECT status, tier_id, quantity, coupon_id FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID,
	).Scan(&status, &tierID, &quantity, &couponID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	if status != domain.BookingPending {
		return nil, domain.ErrInvalidTransition
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2`,
		domain.BookingCancelled, bookingID,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE ticket_tiers SET total_sold = total_sold - $1 WHERE id = $2`,
		quantity, tierID,
	)
	if err != nil {
		return nil, err
	}

	if couponID.Valid {
		_, err = tx.ExecContext(ctx,
			`UPDATE coupons SET used_count = used_count - 1 WHERE id = $1 AND used_count > 0`,
			couponID.String,
		)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, retryable(err)
	}

	return r.GetByID(ctx, bookingID)
}

// Refund transitions CONFIRMED to REFUNDED. Inventory is deliberately
// left decremented.
func (r *BookingRepository) Refund(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`,
		domain.BookingRefunded, bookingID, domain.BookingConfirmed,
	)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		if _, err := r.GetByID(ctx, bookingID); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidTransition
	}

	return r.GetByID(ctx, bookingID)
}

func (r *BookingRepository) RecordCheckIn(ctx context.Context, bookingID uuid.UUID, scannedBy *uuid.UUID) (*domain.CheckIn, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	var status domain.BookingStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID,
	).Scan(&status)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	if status != domain.BookingConfirmed {
		return nil, domain.ErrBookingNotConfirmed
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM check_ins WHERE booking_id = $1)`,
		bookingID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, domain.ErrAlreadyCheckedIn
	}

	checkIn := &domain.CheckIn{
		ID:        uuid.New(),
		BookingID: bookingID,
		ScannedBy: scannedBy,
		ScannedAt: time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO check_ins (id, booking_id, scanned_by, scanned_at) VALUES ($1, $2, $3, $4)`,
		checkIn.ID, checkIn.BookingID, checkIn.ScannedBy, checkIn.ScannedAt,
	)
	if err != nil {
		// Unique constraint on booking_id closes the race between two scanners.
		return nil, retryable(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, retryable(err)
	}

	return checkIn, nil
}

func (r *BookingRepository) GetExpiredPending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT id FROM bookings
	WHERE status = 'PENDING' AND expires_at < NOW()
	LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// retryable maps serialization failures, deadlocks and unique-constraint
// races to domain.ErrTxConflict so the service re-runs the operation
// from validation rather than blindly re-issuing the write.
func retryable(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "23505":
			return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
		}
	}
	return err
}
