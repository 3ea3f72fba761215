package search

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/search"
	"github.com/khoahotran/profile-dashboard/internal/domain/textnorm"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

var tracer = otel.Tracer("profile-dashboard/usecase/search")

// SearchUseCase serves the read-only query endpoints. Every call loads a
// fresh snapshot from the store; nothing is cached between requests.
type SearchUseCase struct {
	profileRepo profile.Repository
	logger      logger.Logger
	timeout     time.Duration
}

func NewSearchUseCase(repo profile.Repository, log logger.Logger, timeout time.Duration) *SearchUseCase {
	return &SearchUseCase{
		profileRepo: repo,
		logger:      log,
		timeout:     timeout,
	}
}

func (uc *SearchUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func adapterFailure(details string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.NewInternal(details, err)
}

type SearchInput struct {
	Query string
}

type SearchOutput struct {
	Results []search.MatchRecord
}

func (uc *SearchUseCase) ExecuteSearch(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := tracer.Start(ctx, "SearchUseCase.Search")
	defer span.End()

	if textnorm.IsBlank(input.Query) {
		return nil, apperror.NewInvalidQuery("'q' query param is required")
	}
	span.SetAttributes(attribute.String("search.query", input.Query))

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	docs, err := uc.profileRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Search execution failed", err, zap.String("query", input.Query))
		return nil, adapterFailure("search failed", err)
	}

	results, err := search.Search(input.Query, docs)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Search executed",
		zap.String("query", input.Query),
		zap.Int("documents", len(docs)),
		zap.Int("results", len(results)))

	return &SearchOutput{Results: results}, nil
}

type TopSkillsInput struct {
	Limit      int
	WithCounts bool
}

// TopSkillsOutput carries either Skills or Counts, depending on
// TopSkillsInput.WithCounts.
type TopSkillsOutput struct {
	Skills []string
	Counts []search.SkillCount
}

func (uc *SearchUseCase) ExecuteTopSkills(ctx context.Context, input TopSkillsInput) (*TopSkillsOutput, error) {
	ctx, span := tracer.Start(ctx, "SearchUseCase.TopSkills")
	defer span.End()
	span.SetAttributes(attribute.Int("skills.limit", input.Limit))

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	docs, err := uc.profileRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Top skills aggregation failed", err)
		return nil, adapterFailure("top skills failed", err)
	}

	if input.WithCounts {
		return &TopSkillsOutput{Counts: search.TopSkillCounts(docs, input.Limit)}, nil
	}
	return &TopSkillsOutput{Skills: search.TopSkills(docs, input.Limit)}, nil
}

type ProjectsBySkillInput struct {
	Skill string
}

type ProjectsBySkillOutput struct {
	Projects []search.ProjectMatch
}

func (uc *SearchUseCase) ExecuteProjectsBySkill(ctx context.Context, input ProjectsBySkillInput) (*ProjectsBySkillOutput, error) {
	ctx, span := tracer.Start(ctx, "SearchUseCase.ProjectsBySkill")
	defer span.End()

	skill := strings.TrimSpace(input.Skill)
	if skill == "" {
		return nil, apperror.NewInvalidQuery("'skill' query param is required")
	}
	span.SetAttributes(attribute.String("search.skill", skill))

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	// The store prefilter and the engine must see the same term.
	docs, err := uc.profileRepo.ListByProjectSkill(ctx, skill)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Projects by skill lookup failed", err, zap.String("skill", skill))
		return nil, adapterFailure("projects by skill failed", err)
	}

	projects, err := search.ProjectsBySkill(skill, docs)
	if err != nil {
		return nil, err
	}
	return &ProjectsBySkillOutput{Projects: projects}, nil
}
