package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated EventType = "profile.created"
	EventUpdated EventType = "profile.updated"
)

// Revision is a point-in-time snapshot recorded by the worker after a change event.
type Revision struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	EventType  EventType `json:"event_type"`
	Snapshot   Profile   `json:"snapshot"`
	RecordedAt time.Time `json:"recorded_at"`
}

type RevisionRepository interface {
	Append(ctx context.Context, rev Revision) error
	// ListByEmail returns the newest revisions first.
	ListByEmail(ctx context.Context, email string, limit int) ([]Revision, error)
}
