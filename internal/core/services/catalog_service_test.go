package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventhive/booking-core/internal/core/domain"
	"github.com/eventhive/booking-core/internal/core/ports/mocks"
	"github.com/eventhive/booking-core/internal/core/services"
	"github.com/eventhive/booking-core/internal/platform/cache"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestValidateSale(t *testing.T) {
	now := time.Now()
	published := &domain.Event{Status: domain.EventPublished}

	tests := []struct {
		name     string
		event    *domain.Event
		tier     *domain.TicketTier
		quantity int
		wantErr  error
	}{
		{
			"draft event",
			&domain.Event{Status: domain.EventDraft},
			&domain.TicketTier{MaxQuantity: 100},
			1,
			domain.ErrEventNotPublished,
		},
		{
			"cancelled event",
			&domain.Event{Status: domain.EventCancelled},
			&domain.TicketTier{MaxQuantity: 100},
			1,
			domain.ErrEventNotPublished,
		},
		{
			"sale not started",
			published,
			&domain.TicketTier{MaxQuantity: 100, SaleStart: timePtr(now.Add(time.Hour))},
			1,
			domain.ErrSaleNotStarted,
		},
		{
			"sale ended",
			published,
			&domain.TicketTier{MaxQuantity: 100, SaleEnd: timePtr(now.Add(-time.Hour))},
			1,
			domain.ErrSaleEnded,
		},
		{
			"zero quantity",
			published,
			&domain.TicketTier{MaxQuantity: 100},
			0,
			domain.ErrInvalidQuantity,
		},
		{
			"quantity above cap",
			published,
			&domain.TicketTier{MaxQuantity: 100},
			11,
			domain.ErrInvalidQuantity,
		},
		{
			"sold out",
			published,
			&domain.TicketTier{MaxQuantity: 5, TotalSold: 5},
			1,
			domain.ErrInsufficientInventory,
		},
		{
			"not enough headroom",
			published,
			&domain.TicketTier{MaxQuantity: 10, TotalSold: 8},
			3,
			domain.ErrInsufficientInventory,
		},
		{
			"last unit exactly fits",
			published,
			&domain.TicketTier{MaxQuantity: 10, TotalSold: 9},
			1,
			nil,
		},
		{
			"quantity at cap",
			published,
			&domain.TicketTier{MaxQuantity: 100},
			10,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateSale(tt.event, tt.tier, tt.quantity, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLookup_EventNotFound(t *testing.T) {
	mockCatalog := mocks.NewCatalogRepository(t)
	db, _ := redismock.NewClientMock()
	svc := services.NewCatalogService(mockCatalog, cache.NewAvailabilityCache(db, time.Minute))

	ctx := context.Background()
	eventID := uuid.New()
	tierID := uuid.New()

	mockCatalog.On("GetEvent", ctx, eventID).Return(nil, domain.ErrEventNotFound)

	_, _, err := svc.Lookup(ctx, eventID, tierID, 1)

	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestLookup_TierMustBelongToEvent(t *testing.T) {
	mockCatalog := mocks.NewCatalogRepository(t)
	db, _ := redismock.NewClientMock()
	svc := services.NewCatalogService(mockCatalog, cache.NewAvailabilityCache(db, time.Minute))

	ctx := context.Background()
	eventID := uuid.New()
	tierID := uuid.New()

	mockCatalog.On("GetEvent", ctx, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventPublished}, nil)
	mockCatalog.On("GetTier", ctx, eventID, tierID).Return(nil, domain.ErrTicketTierNotFound)

	_, _, err := svc.Lookup(ctx, eventID, tierID, 1)

	assert.ErrorIs(t, err, domain.ErrTicketTierNotFound)
}

func TestAvailability_CacheMissReadsThrough(t *testing.T) {
	mockCatalog := mocks.NewCatalogRepository(t)
	db, mockRedis := redismock.NewClientMock()
	svc := services.NewCatalogService(mockCatalog, cache.NewAvailabilityCache(db, time.Minute))

	ctx := context.Background()
	eventID := uuid.New()
	tierID := uuid.New()

	mockCatalog.On("GetEvent", ctx, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventPublished}, nil)
	mockCatalog.On("ListTiers", ctx, eventID).Return([]domain.TicketTier{
		{ID: tierID, EventID: eventID, Name: "General", UnitPrice: 500, MaxQuantity: 100, TotalSold: 40},
	}, nil)

	expected := []services.TierAvailability{
		{TierID: tierID.String(), Name: "General", UnitPrice: 500, Remaining: 60, SaleOpen: true},
	}
	payload, err := json.Marshal(expected)
	assert.NoError(t, err)

	mockRedis.ExpectGet(cache.Key(eventID)).RedisNil()
	mockRedis.ExpectSet(cache.Key(eventID), payload, time.Minute).SetVal("OK")

	got, err := svc.Availability(ctx, eventID)

	assert.NoError(t, err)
	assert.Equal(t, expected, got)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestAvailability_CacheHitSkipsRepository(t *testing.T) {
	mockCatalog := mocks.NewCatalogRepository(t)
	db, mockRedis := redismock.NewClientMock()
	svc := services.NewCatalogService(mockCatalog, cache.NewAvailabilityCache(db, time.Minute))

	ctx := context.Background()
	eventID := uuid.New()

	cached := []services.TierAvailability{
		{TierID: uuid.New().String(), Name: "VIP", UnitPrice: 1500, Remaining: 3, SaleOpen: true},
	}
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)

	mockRedis.ExpectGet(cache.Key(eventID)).SetVal(string(payload))

	got, err := svc.Availability(ctx, eventID)

	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
