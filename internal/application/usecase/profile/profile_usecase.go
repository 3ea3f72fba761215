package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/application/service"
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

var tracer = otel.Tracer("profile-dashboard/usecase/profile")

const defaultRevisionLimit = 20

type ProfileUseCase struct {
	profileRepo  profile.Repository
	revisionRepo profile.RevisionRepository
	publisher    service.ProfileEventPublisher
	logger       logger.Logger
	timeout      time.Duration
}

func NewProfileUseCase(
	repo profile.Repository,
	revRepo profile.RevisionRepository,
	publisher service.ProfileEventPublisher,
	log logger.Logger,
	timeout time.Duration,
) *ProfileUseCase {
	if publisher == nil {
		publisher = service.NopPublisher{}
	}
	return &ProfileUseCase{
		profileRepo:  repo,
		revisionRepo: revRepo,
		publisher:    publisher,
		logger:       log,
		timeout:      timeout,
	}
}

func (uc *ProfileUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

type GetProfileInput struct {
	Email string
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

// ExecuteGetProfile looks up by email when one is given, otherwise returns
// the most recently updated profile. It never creates anything.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ProfileUseCase.GetProfile")
	defer span.End()
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	email := strings.TrimSpace(input.Email)

	var (
		p   *profile.Profile
		err error
	)
	if email != "" {
		span.SetAttributes(attribute.String("profile.email", email))
		p, err = uc.profileRepo.FindByEmail(ctx, email)
	} else {
		p, err = uc.profileRepo.FindMostRecentlyUpdated(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &GetProfileOutput{Profile: p}, nil
}

type UpsertProfileOutput struct {
	Profile *profile.Profile
	Created bool
}

// ExecuteUpsertProfile merges input into the target profile and saves it.
// The target is the profile owning input.Email, else the most recently
// updated profile, else a fresh one. Two concurrent upserts race and the
// last write wins at the store.
func (uc *ProfileUseCase) ExecuteUpsertProfile(ctx context.Context, input ProfileInput) (*UpsertProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ProfileUseCase.UpsertProfile")
	defer span.End()

	if err := input.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	target, err := uc.resolveTarget(ctx, strings.TrimSpace(*input.Email))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("resolve profile failed: %w", err)
	}

	created := target == nil
	if created {
		target = &profile.Profile{}
	}
	input.ApplyTo(target)
	target.Normalize()

	if err := target.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("profile validation failed", err)
	}

	if err := uc.profileRepo.Save(ctx, target); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save profile failed: %w", err)
	}

	eventType := profile.EventUpdated
	if created {
		eventType = profile.EventCreated
	}
	evt := service.ProfileEvent{
		EventType:  eventType,
		ProfileID:  target.ID,
		Email:      target.Email,
		OccurredAt: target.UpdatedAt,
	}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), evt); err != nil {
			uc.logger.Error("Failed to publish profile event", err,
				zap.String("event_type", string(evt.EventType)),
				zap.String("profile_id", evt.ProfileID.String()))
		}
	}()

	uc.logger.Info("Profile saved",
		zap.String("profile_id", target.ID.String()),
		zap.Bool("created", created))

	return &UpsertProfileOutput{Profile: target, Created: created}, nil
}

func (uc *ProfileUseCase) resolveTarget(ctx context.Context, email string) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByEmail(ctx, email)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	p, err = uc.profileRepo.FindMostRecentlyUpdated(ctx)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

type SeedOutput struct {
	Seeded  bool
	Profile *profile.Profile
}

// ExecuteSeed stores DefaultProfile when the store is empty. It is the only
// place a profile is created without an explicit write.
func (uc *ProfileUseCase) ExecuteSeed(ctx context.Context) (*SeedOutput, error) {
	ctx, span := tracer.Start(ctx, "ProfileUseCase.Seed")
	defer span.End()
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	n, err := uc.profileRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count profiles failed: %w", err)
	}
	if n > 0 {
		uc.logger.Debug("Seed skipped, profiles exist", zap.Int("count", n))
		return &SeedOutput{Seeded: false}, nil
	}

	p := profile.DefaultProfile()
	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save default profile failed: %w", err)
	}
	uc.logger.Info("Seeded default profile", zap.String("email", p.Email))
	return &SeedOutput{Seeded: true, Profile: p}, nil
}

type ListRevisionsInput struct {
	Email string
	Limit int
}

type ListRevisionsOutput struct {
	Revisions []profile.Revision
}

func (uc *ProfileUseCase) ExecuteListRevisions(ctx context.Context, input ListRevisionsInput) (*ListRevisionsOutput, error) {
	ctx, span := tracer.Start(ctx, "ProfileUseCase.ListRevisions")
	defer span.End()

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperror.NewInvalidInput("'email' query param is required", nil)
	}
	if input.Limit <= 0 {
		input.Limit = defaultRevisionLimit
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	revs, err := uc.revisionRepo.ListByEmail(ctx, email, input.Limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions failed: %w", err)
	}
	return &ListRevisionsOutput{Revisions: revs}, nil
}
