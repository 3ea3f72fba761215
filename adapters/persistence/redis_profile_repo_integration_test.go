package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type RedisProfileRepoIntegrationTestSuite struct {
	suite.Suite
	container    *tcredis.RedisContainer
	rdb          *goredis.Client
	profileRepo  profile.Repository
	revisionRepo profile.RevisionRepository
}

func (s *RedisProfileRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get redis connection string: %s", err)
	}
	opts, err := goredis.ParseURL(uri)
	if err != nil {
		s.T().Fatalf("Failed to parse redis url: %s", err)
	}
	s.rdb = goredis.NewClient(opts)

	log := logger.NewNopLogger()
	s.profileRepo = NewRedisProfileRepo(s.rdb, log)
	s.revisionRepo = NewRedisRevisionRepo(s.rdb, log)
}

func (s *RedisProfileRepoIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushDB(context.Background()).Err())
}

func (s *RedisProfileRepoIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestRedisProfileRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RedisProfileRepoIntegrationTestSuite))
}

func (s *RedisProfileRepoIntegrationTestSuite) Test_SaveFindAndOrder() {
	ctx := context.Background()

	a := &profile.Profile{Name: "A", Email: "a@example.com"}
	b := &profile.Profile{Name: "B", Email: "b@example.com"}
	s.Require().NoError(s.profileRepo.Save(ctx, a))
	s.Require().NoError(s.profileRepo.Save(ctx, b))

	got, err := s.profileRepo.FindByEmail(ctx, "a@example.com")
	s.Require().NoError(err)
	s.Equal(a.ID, got.ID)

	latest, err := s.profileRepo.FindMostRecentlyUpdated(ctx)
	s.Require().NoError(err)
	s.Equal("B", latest.Name)

	all, err := s.profileRepo.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("A", all[0].Name)

	n, err := s.profileRepo.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *RedisProfileRepoIntegrationTestSuite) Test_EmailChangeAndConflict() {
	ctx := context.Background()

	a := &profile.Profile{Name: "A", Email: "a@example.com"}
	s.Require().NoError(s.profileRepo.Save(ctx, a))
	s.Require().NoError(s.profileRepo.Save(ctx, &profile.Profile{Name: "B", Email: "b@example.com"}))

	a.Email = "a2@example.com"
	s.Require().NoError(s.profileRepo.Save(ctx, a))

	_, err := s.profileRepo.FindByEmail(ctx, "a@example.com")
	s.ErrorIs(err, apperror.ErrNotFound)

	a.Email = "b@example.com"
	s.ErrorIs(s.profileRepo.Save(ctx, a), apperror.ErrConflict)
}

func (s *RedisProfileRepoIntegrationTestSuite) Test_ConcurrentCreateSameEmail() {
	ctx := context.Background()

	for round := 0; round < 10; round++ {
		email := fmt.Sprintf("race-%d@example.com", round)
		errs := make([]error, 2)

		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.profileRepo.Save(ctx, &profile.Profile{Name: fmt.Sprintf("P%d", i), Email: email})
			}(i)
		}
		wg.Wait()

		var saved, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				saved++
			case errors.Is(err, apperror.ErrConflict):
				conflicts++
			default:
				s.Failf("unexpected save error", "%v", err)
			}
		}
		s.Equal(1, saved, "round %d", round)
		s.Equal(1, conflicts, "round %d", round)
	}

	n, err := s.profileRepo.Count(ctx)
	s.Require().NoError(err)
	s.Equal(10, n)
}

func (s *RedisProfileRepoIntegrationTestSuite) Test_Revisions() {
	ctx := context.Background()
	for _, name := range []string{"v1", "v2", "v3"} {
		s.Require().NoError(s.revisionRepo.Append(ctx, profile.Revision{
			ID:        uuid.New(),
			Email:     "a@example.com",
			EventType: profile.EventUpdated,
			Snapshot:  profile.Profile{Name: name},
		}))
	}

	revs, err := s.revisionRepo.ListByEmail(ctx, "a@example.com", 2)
	s.Require().NoError(err)
	s.Require().Len(revs, 2)
	s.Equal("v3", revs[0].Snapshot.Name)
}
