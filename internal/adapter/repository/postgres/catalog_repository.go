package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eventhive/booking-core/internal/core/domain"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := `
	SELECT id, name, status, starts_at, ends_at, organizer_id
	FROM events
	WHERE id = $1
	`

	var event domain.Event
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.Name,
		&event.Status,
		&event.StartsAt,
		&event.EndsAt,
		&event.OrganizerID,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *CatalogRepository) GetTier(ctx context.Context, eventID, tierID uuid.UUID) (*domain.TicketTier, error) {
	query := `
	SELECT id, event_id, name, unit_price, max_quantity, total_sold, sale_start, sale_end
	FROM ticket_tiers
	WHERE id = $1 AND event_id = $2
	`

	tier, err := scanTier(r.db.QueryRowContext(ctx, query, tierID, eventID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTicketTierNotFound
		}
		return nil, err
	}

	return tier, nil
}

func (r *CatalogRepository) ListTiers(ctx context.Context, eventID uuid.UUID) ([]domain.TicketTier, error) {
	query := `
	SELECT id, event_id, name, unit_price, max_quantity, total_sold, sale_start, sale_end
	FROM ticket_tiers
	WHERE event_id = $1
	ORDER BY unit_price
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var tiers []domain.TicketTier
	for rows.Next() {
		tier, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *tier)
	}

	return tiers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTier(row rowScanner) (*domain.TicketTier, error) {
	var tier domain.TicketTier
	var saleStart, saleEnd sql.NullTime

	err := row.Scan(
		&tier.ID,
		&tier.EventID,
		&tier.Name,
		&tier.UnitPrice,
		&tier.MaxQuantity,
		&tier.TotalSold,
		&saleStart,
		&saleEnd,
	)
	if err != nil {
		return nil, err
	}

	if saleStart.Valid {
		tier.SaleStart = &saleStart.Time
	}
	if saleEnd.Valid {
		tier.SaleEnd = &saleEnd.Time
	}

	return &tier, nil
}
