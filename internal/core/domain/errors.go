package domain

import "errors"

// Validation and ledger errors surfaced to the caller. All are
// recoverable; the handler maps them to HTTP statuses with errors.Is.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTierNotFound = errors.New("ticket tier not found")
	ErrEventNotPublished  = errors.New("event is not published")
	ErrSaleNotStarted     = errors.New("ticket sale has not started")
	ErrSaleEnded          = errors.New("ticket sale has ended")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and 10")

	ErrInsufficientInventory = errors.New("insufficient inventory")

	ErrInvalidCoupon       = errors.New("invalid coupon code")
	ErrCouponNotApplicable = errors.New("coupon not applicable to this event")
	ErrCouponNotStarted    = errors.New("coupon is not yet valid")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")

	ErrBookingNotFound     = errors.New("booking not found")
	ErrAmountMismatch      = errors.New("payment amount does not match booking total")
	ErrAlreadyConfirmed    = errors.New("booking already confirmed")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")
	ErrAlreadyCheckedIn    = errors.New("booking already checked in")

	// ErrTxConflict is returned by the ledger when a commit loses a race
	// and the whole reserve must be re-run from validation.
	ErrTxConflict = errors.New("transaction conflict")
)
