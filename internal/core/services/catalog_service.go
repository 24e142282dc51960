package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eventhive/booking-core/internal/core/domain"
	"github.com/eventhive/booking-core/internal/core/ports"
	"github.com/eventhive/booking-core/internal/platform/cache"
)

// Per-booking quantity bounds. The upper bound is a fixed anti-abuse cap.
const (
	MinQuantityPerBooking = 1
	MaxQuantityPerBooking = 10
)

type CatalogService struct {
	catalogRepo  ports.CatalogRepository
	availability *cache.AvailabilityCache
	now          func() time.Time
}

func NewCatalogService(catalogRepo ports.CatalogRepository, availability *cache.AvailabilityCache) *CatalogService {
	return &CatalogService{
		catalogRepo:  catalogRepo,
		availability: availability,
		now:          time.Now,
	}
}

// Lookup resolves the tier joined with its event and runs the sale
// validation chain. Pure read, no side effects.
func (s *CatalogService) Lookup(ctx context.Context, eventID, tierID uuid.UUID, quantity int) (*domain.Event, *domain.TicketTier, error) {
	event, err := s.catalogRepo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	tier, err := s.catalogRepo.GetTier(ctx, eventID, tierID)
	if err != nil {
		return nil, nil, err
	}

	if err := ValidateSale(event, tier, quantity, s.now()); err != nil {
		return nil, nil, err
	}

	return event, tier, nil
}

// ValidateSale fails fast with a distinct error per rule so the caller
// can present a specific message.
func ValidateSale(event *domain.Event, tier *domain.TicketTier, quantity int, now time.Time) error {
	if !event.IsPublished() {
		return domain.ErrEventNotPublished
	}
	if tier.SaleStart != nil && tier.SaleStart.After(now) {
		return domain.ErrSaleNotStarted
	}
	if tier.SaleEnd != nil && tier.SaleEnd.Before(now) {
		return domain.ErrSaleEnded
	}
	if quantity < MinQuantityPerBooking || quantity > MaxQuantityPerBooking {
		return domain.ErrInvalidQuantity
	}
	if !tier.HasHeadroom(quantity) {
		return domain.ErrInsufficientInventory
	}
	return nil
}

type TierAvailability struct {
	TierID    string  `json:"tier_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Remaining int     `json:"remaining"`
	SaleOpen  bool    `json:"sale_open"`
}

// Availability lists the event's tiers with remaining counts, reading
// through the redis cache. Cache failures degrade to a direct read.
func (s *CatalogService) Availability(ctx context.Context, eventID uuid.UUID) ([]TierAvailability, error) {
	if payload, ok := s.availability.Get(ctx, eventID); ok {
		var cached []TierAvailability
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	}

	if _, err := s.catalogRepo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	tiers, err := s.catalogRepo.ListTiers(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]TierAvailability, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, TierAvailability{
			TierID:    tier.ID.String(),
			Name:      tier.Name,
			UnitPrice: tier.UnitPrice,
			Remaining: tier.Remaining(),
			SaleOpen:  tier.SaleOpen(now),
		})
	}

	if payload, err := json.Marshal(out); err == nil {
		if err := s.availability.Set(ctx, eventID, payload); err != nil {
			log.Printf("Failed to cache availability for event %s: %v", eventID, err)
		}
	}

	return out, nil
}
