package persistence

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type postgresRevisionRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresRevisionRepo(db *pgxpool.Pool, logger logger.Logger) profile.RevisionRepository {
	return &postgresRevisionRepo{db: db, logger: logger}
}

func (r *postgresRevisionRepo) Append(ctx context.Context, rev profile.Revision) error {
	snapshotBytes, err := json.Marshal(rev.Snapshot)
	if err != nil {
		return apperror.NewInternal("failed to marshal revision snapshot", err)
	}

	sql, args, err := psqlProfile.Insert("profile_revisions").
		Columns("id", "email", "event_type", "snapshot", "recorded_at").
		Values(rev.ID, rev.Email, string(rev.EventType), snapshotBytes, rev.RecordedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build revision insert", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to append profile revision", err)
	}
	return nil
}

func (r *postgresRevisionRepo) ListByEmail(ctx context.Context, email string, limit int) ([]profile.Revision, error) {
	sql, args, err := psqlProfile.Select("id, email, event_type, snapshot, recorded_at").
		From("profile_revisions").
		Where(sq.Eq{"email": email}).
		OrderBy("recorded_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build revision list query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profile revisions", err)
	}
	defer rows.Close()

	revisions := make([]profile.Revision, 0)
	for rows.Next() {
		var (
			rev           profile.Revision
			eventType     string
			snapshotBytes []byte
		)
		if err := rows.Scan(&rev.ID, &rev.Email, &eventType, &snapshotBytes, &rev.RecordedAt); err != nil {
			return nil, apperror.NewInternal("failed to scan profile revision", err)
		}
		rev.EventType = profile.EventType(eventType)
		if err := json.Unmarshal(snapshotBytes, &rev.Snapshot); err != nil {
			r.logger.Warn("Failed to unmarshal revision snapshot", zap.String("revision_id", rev.ID.String()), zap.Error(err))
			continue
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating revision rows", err)
	}
	return revisions, nil
}
