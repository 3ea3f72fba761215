package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/application/service"
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type ProcessProfileEventUseCase struct {
	profileRepo  profile.Repository
	revisionRepo profile.RevisionRepository
	logger       logger.Logger
	now          func() time.Time
}

func NewProcessProfileEventUseCase(pr profile.Repository, rr profile.RevisionRepository, log logger.Logger) *ProcessProfileEventUseCase {
	return &ProcessProfileEventUseCase{
		profileRepo:  pr,
		revisionRepo: rr,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Execute snapshots the current state of the profile named by the event.
// Events for profiles that no longer exist under that email are skipped.
func (uc *ProcessProfileEventUseCase) Execute(ctx context.Context, evt service.ProfileEvent) error {
	log := uc.logger.With(
		zap.String("event_type", string(evt.EventType)),
		zap.String("email", evt.Email))
	log.Info("Worker processing profile event")

	if evt.Email == "" {
		log.Warn("Profile event without email, skip.")
		return nil
	}

	p, err := uc.profileRepo.FindByEmail(ctx, evt.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Warn("Profile not found, skip.")
			return nil
		}
		return fmt.Errorf("get profile failed: %w", err)
	}

	if evt.ProfileID != uuid.Nil && p.ID != evt.ProfileID {
		log.Warn("Email now belongs to another profile, skip.",
			zap.String("event_profile_id", evt.ProfileID.String()),
			zap.String("stored_profile_id", p.ID.String()))
		return nil
	}

	rev := profile.Revision{
		ID:         uuid.New(),
		Email:      p.Email,
		EventType:  evt.EventType,
		Snapshot:   *p,
		RecordedAt: uc.now(),
	}
	if err := uc.revisionRepo.Append(ctx, rev); err != nil {
		return fmt.Errorf("append revision failed for %s: %w", p.Email, err)
	}

	log.Info("Recorded profile revision", zap.String("revision_id", rev.ID.String()))
	return nil
}
