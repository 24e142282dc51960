package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketTier is a shared mutable counter: TotalSold must never exceed
// MaxQuantity, which the ledger enforces with a conditional update.
type TicketTier struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	Name        string
	UnitPrice   float64
	MaxQuantity int
	TotalSold   int
	SaleStart   *time.Time
	SaleEnd     *time.Time
}

func (t *TicketTier) Remaining() int {
	return t.MaxQuantity - t.TotalSold
}

func (t *TicketTier) HasHeadroom(quantity int) bool {
	return t.TotalSold+quantity <= t.MaxQuantity
}

func (t *TicketTier) SaleOpen(now time.Time) bool {
	if t.SaleStart != nil && t.SaleStart.After(now) {
		return false
	}
	if t.SaleEnd != nil && t.SaleEnd.Before(now) {
		return false
	}
	return true
}
