package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/textnorm"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psqlProfile = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const profileColumns = "id, email, document, created_at, updated_at"

func (r *postgresProfileRepo) scanProfile(row pgx.Row, identifier string) (*profile.Profile, error) {
	var (
		id                   uuid.UUID
		email                string
		documentBytes        []byte
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &email, &documentBytes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", identifier)
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}

	p := &profile.Profile{}
	if err := json.Unmarshal(documentBytes, p); err != nil {
		r.logger.Warn("Failed to unmarshal profile document", zap.String("email", email), zap.Error(err))
		return nil, apperror.NewInternal("corrupt profile document", err)
	}

	// Columns are authoritative over whatever the document carried.
	p.ID = id
	p.Email = email
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	p.Normalize()
	return p, nil
}

func (r *postgresProfileRepo) queryProfiles(ctx context.Context, builder sq.SelectBuilder) ([]*profile.Profile, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile list query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows, "")
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profile rows", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	sql, args, err := psqlProfile.Select(profileColumns).
		From("profiles").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find by email query", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, sql, args...), email)
}

func (r *postgresProfileRepo) FindMostRecentlyUpdated(ctx context.Context) (*profile.Profile, error) {
	sql, args, err := psqlProfile.Select(profileColumns).
		From("profiles").
		OrderBy("updated_at DESC", "created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build most recent profile query", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, sql, args...), "most recent")
}

func (r *postgresProfileRepo) ListAll(ctx context.Context) ([]*profile.Profile, error) {
	return r.queryProfiles(ctx, psqlProfile.Select(profileColumns).
		From("profiles").
		OrderBy("created_at ASC", "id ASC"))
}

func (r *postgresProfileRepo) ListByProjectSkill(ctx context.Context, skill string) ([]*profile.Profile, error) {
	pattern := textnorm.EscapeForLiteralMatch(skill)
	return r.queryProfiles(ctx, psqlProfile.Select(profileColumns).
		From("profiles").
		Where(sq.Expr(`EXISTS (
			SELECT 1
			FROM jsonb_array_elements(COALESCE(document->'projects', '[]'::jsonb)) AS prj,
			     jsonb_array_elements_text(COALESCE(prj->'skills', '[]'::jsonb)) AS s
			WHERE s ~* ?)`, pattern)).
		OrderBy("created_at ASC", "id ASC"))
}

func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Normalize()

	documentBytes, err := json.Marshal(p)
	if err != nil {
		return apperror.NewInternal("failed to marshal profile document", err)
	}

	query := `
		INSERT INTO profiles (id, email, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query, p.ID, p.Email, documentBytes, p.CreatedAt, p.UpdatedAt).
		Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("profile", "email", p.Email)
		}
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, apperror.NewInternal("failed to count profiles", err)
	}
	return n, nil
}
