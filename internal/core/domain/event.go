package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
)

// Event is never hard-deleted; cancellation is a status change.
type Event struct {
	ID          uuid.UUID
	Name        string
	Status      EventStatus
	StartsAt    time.Time
	EndsAt      time.Time
	OrganizerID uuid.UUID
}

func (e *Event) IsPublished() bool {
	return e.Status == EventPublished
}
