package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
)

type ProfileEvent struct {
	EventType  profile.EventType `json:"event_type"`
	ProfileID  uuid.UUID         `json:"profile_id"`
	Email      string            `json:"email"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type ProfileEventPublisher interface {
	PublishProfileEvent(ctx context.Context, evt ProfileEvent) error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishProfileEvent(context.Context, ProfileEvent) error {
	return nil
}
