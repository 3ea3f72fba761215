package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

const (
	redisKeyEmailIndex = "profiles:email_index"
	redisKeyByCreated  = "profiles:by_created"
	redisKeyByUpdated  = "profiles:by_updated"
)

func redisProfileKey(id string) string {
	return "profile:doc:" + id
}

func redisRevisionKey(email string) string {
	return "profile:revisions:" + email
}

// redisProfileRepo keeps one JSON document per profile, an email -> id hash,
// and two sorted sets that order ids by creation and last update.
type redisProfileRepo struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewRedisProfileRepo(rdb *redis.Client, logger logger.Logger) profile.Repository {
	return &redisProfileRepo{rdb: rdb, logger: logger}
}

func (r *redisProfileRepo) load(ctx context.Context, id, identifier string) (*profile.Profile, error) {
	raw, err := r.rdb.Get(ctx, redisProfileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.NewNotFound("profile", identifier)
		}
		return nil, apperror.NewInternal("failed to read profile document", err)
	}
	p := &profile.Profile{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, apperror.NewInternal("corrupt profile document", err)
	}
	p.Normalize()
	return p, nil
}

func (r *redisProfileRepo) loadMany(ctx context.Context, ids []string) ([]*profile.Profile, error) {
	profiles := make([]*profile.Profile, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisProfileKey(id)
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperror.NewInternal("failed to read profile documents", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Index entry without a document; skip it.
			r.logger.Warn("Dangling profile index entry", zap.String("profile_id", ids[i]))
			continue
		}
		p := &profile.Profile{}
		if err := json.Unmarshal([]byte(s), p); err != nil {
			return nil, apperror.NewInternal("corrupt profile document", err)
		}
		p.Normalize()
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *redisProfileRepo) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	id, err := r.rdb.HGet(ctx, redisKeyEmailIndex, email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.NewNotFound("profile", email)
		}
		return nil, apperror.NewInternal("failed to read profile email index", err)
	}
	return r.load(ctx, id, email)
}

func (r *redisProfileRepo) FindMostRecentlyUpdated(ctx context.Context) (*profile.Profile, error) {
	ids, err := r.rdb.ZRevRange(ctx, redisKeyByUpdated, 0, 0).Result()
	if err != nil {
		return nil, apperror.NewInternal("failed to read profile update index", err)
	}
	if len(ids) == 0 {
		return nil, apperror.NewNotFound("profile", "most recent")
	}
	return r.load(ctx, ids[0], "most recent")
}

func (r *redisProfileRepo) ListAll(ctx context.Context) ([]*profile.Profile, error) {
	ids, err := r.rdb.ZRange(ctx, redisKeyByCreated, 0, -1).Result()
	if err != nil {
		return nil, apperror.NewInternal("failed to read profile creation index", err)
	}
	return r.loadMany(ctx, ids)
}

// ListByProjectSkill has no server side filter in Redis and returns everything.
func (r *redisProfileRepo) ListByProjectSkill(ctx context.Context, _ string) ([]*profile.Profile, error) {
	return r.ListAll(ctx)
}

const redisSaveMaxAttempts = 5

// Save checks email ownership and writes under WATCH on the email index and
// the document key, so a concurrent writer claiming the same email makes
// this transaction fail and retry instead of overwriting the index.
func (r *redisProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	id := p.ID.String()
	requestedCreatedAt := p.CreatedAt

	for attempt := 0; attempt < redisSaveMaxAttempts; attempt++ {
		p.CreatedAt = requestedCreatedAt
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			return r.saveTx(ctx, tx, p, id)
		}, redisKeyEmailIndex, redisProfileKey(id))
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug("Profile save raced, retrying", zap.String("profile_id", id), zap.Int("attempt", attempt+1))
			continue
		}
		return err
	}
	return apperror.NewInternal(fmt.Sprintf("failed to save profile %s", id), redis.TxFailedErr)
}

func (r *redisProfileRepo) saveTx(ctx context.Context, tx *redis.Tx, p *profile.Profile, id string) error {
	owner, err := tx.HGet(ctx, redisKeyEmailIndex, p.Email).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return apperror.NewInternal("failed to read profile email index", err)
	}
	if err == nil && owner != id {
		return apperror.NewConflict("profile", "email", p.Email)
	}

	var previousEmail string
	createdAt := p.CreatedAt
	raw, err := tx.Get(ctx, redisProfileKey(id)).Bytes()
	switch {
	case err == nil:
		existing := &profile.Profile{}
		if err := json.Unmarshal(raw, existing); err != nil {
			return apperror.NewInternal("corrupt profile document", err)
		}
		previousEmail = existing.Email
		if createdAt.IsZero() {
			createdAt = existing.CreatedAt
		}
	case errors.Is(err, redis.Nil):
	default:
		return apperror.NewInternal("failed to read profile document", err)
	}

	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = now
	p.Normalize()

	documentBytes, err := json.Marshal(p)
	if err != nil {
		return apperror.NewInternal("failed to marshal profile document", err)
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisProfileKey(id), documentBytes, 0)
		if previousEmail != "" && previousEmail != p.Email {
			pipe.HDel(ctx, redisKeyEmailIndex, previousEmail)
		}
		pipe.HSet(ctx, redisKeyEmailIndex, p.Email, id)
		pipe.ZAddNX(ctx, redisKeyByCreated, redis.Z{Score: float64(p.CreatedAt.UnixNano()), Member: id})
		pipe.ZAdd(ctx, redisKeyByUpdated, redis.Z{Score: float64(p.UpdatedAt.UnixNano()), Member: id})
		return nil
	})
	if errors.Is(err, redis.TxFailedErr) {
		return err
	}
	if err != nil {
		return apperror.NewInternal(fmt.Sprintf("failed to save profile %s", id), err)
	}
	return nil
}

func (r *redisProfileRepo) Count(ctx context.Context) (int, error) {
	n, err := r.rdb.ZCard(ctx, redisKeyByCreated).Result()
	if err != nil {
		return 0, apperror.NewInternal("failed to count profiles", err)
	}
	return int(n), nil
}

type redisRevisionRepo struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewRedisRevisionRepo(rdb *redis.Client, logger logger.Logger) profile.RevisionRepository {
	return &redisRevisionRepo{rdb: rdb, logger: logger}
}

func (r *redisRevisionRepo) Append(ctx context.Context, rev profile.Revision) error {
	raw, err := json.Marshal(rev)
	if err != nil {
		return apperror.NewInternal("failed to marshal revision", err)
	}
	if err := r.rdb.LPush(ctx, redisRevisionKey(rev.Email), raw).Err(); err != nil {
		return apperror.NewInternal("failed to append profile revision", err)
	}
	return nil
}

func (r *redisRevisionRepo) ListByEmail(ctx context.Context, email string, limit int) ([]profile.Revision, error) {
	values, err := r.rdb.LRange(ctx, redisRevisionKey(email), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperror.NewInternal("failed to read profile revisions", err)
	}

	revisions := make([]profile.Revision, 0, len(values))
	for _, v := range values {
		var rev profile.Revision
		if err := json.Unmarshal([]byte(v), &rev); err != nil {
			r.logger.Warn("Failed to unmarshal revision", zap.String("email", email), zap.Error(err))
			continue
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}
