package revision

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-dashboard/adapters/persistence"
	"github.com/khoahotran/profile-dashboard/internal/application/service"
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type failingRevisions struct{}

func (failingRevisions) Append(context.Context, profile.Revision) error {
	return errors.New("disk full")
}

func (failingRevisions) ListByEmail(context.Context, string, int) ([]profile.Revision, error) {
	return nil, nil
}

func TestExecute_RecordsSnapshot(t *testing.T) {
	ctx := context.Background()
	profiles := persistence.NewMemoryProfileRepo()
	revisions := persistence.NewMemoryRevisionRepo()
	p := &profile.Profile{Name: "A", Email: "a@example.com", Skills: []string{"Go"}}
	require.NoError(t, profiles.Save(ctx, p))

	uc := NewProcessProfileEventUseCase(profiles, revisions, logger.NewNopLogger())
	err := uc.Execute(ctx, service.ProfileEvent{EventType: profile.EventCreated, ProfileID: p.ID, Email: p.Email})
	require.NoError(t, err)

	revs, err := revisions.ListByEmail(ctx, p.Email, 10)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, profile.EventCreated, revs[0].EventType)
	assert.Equal(t, []string{"Go"}, revs[0].Snapshot.Skills)
	assert.NotEqual(t, uuid.Nil, revs[0].ID)
	assert.False(t, revs[0].RecordedAt.IsZero())
}

func TestExecute_SkipsMissingOrReassignedProfile(t *testing.T) {
	ctx := context.Background()
	profiles := persistence.NewMemoryProfileRepo()
	revisions := persistence.NewMemoryRevisionRepo()
	require.NoError(t, profiles.Save(ctx, &profile.Profile{Name: "A", Email: "a@example.com"}))

	uc := NewProcessProfileEventUseCase(profiles, revisions, logger.NewNopLogger())
	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{EventType: profile.EventUpdated, Email: "gone@example.com"}))
	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{EventType: profile.EventUpdated, ProfileID: uuid.New(), Email: "a@example.com"}))
	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{EventType: profile.EventUpdated}))

	revs, err := revisions.ListByEmail(ctx, "a@example.com", 10)
	require.NoError(t, err)
	assert.Empty(t, revs)
}

func TestExecute_AppendFailure(t *testing.T) {
	ctx := context.Background()
	profiles := persistence.NewMemoryProfileRepo()
	require.NoError(t, profiles.Save(ctx, &profile.Profile{Name: "A", Email: "a@example.com"}))

	uc := NewProcessProfileEventUseCase(profiles, failingRevisions{}, logger.NewNopLogger())
	err := uc.Execute(ctx, service.ProfileEvent{EventType: profile.EventUpdated, Email: "a@example.com"})
	assert.ErrorContains(t, err, "disk full")
}
