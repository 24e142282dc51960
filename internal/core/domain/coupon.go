package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Coupon carries either a percent-off or an amount-off discount, never
// both. Codes are stored uppercase; lookups normalize with NormalizeCode.
type Coupon struct {
	ID         uuid.UUID
	Code       string
	PercentOff *float64
	AmountOff  *float64
	MaxUsage   *int
	UsedCount  int
	ValidFrom  *time.Time
	ValidUntil *time.Time
	EventID    *uuid.UUID // nil = valid for any event
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Coupon) Exhausted() bool {
	return c.MaxUsage != nil && c.UsedCount >= *c.MaxUsage
}

func (c *Coupon) AppliesTo(eventID uuid.UUID) bool {
	return c.EventID == nil || *c.EventID == eventID
}
