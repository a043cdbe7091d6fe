// Package flag implements the compliance flag repository.
package flag

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const flagColumns = `
    id, content_type, content_id, reason, severity, details,
    resolved, resolved_by, resolved_notes, created_at, updated_at, resolved_at`

// Repeated identical flags refresh severity, details and timestamp instead
// of piling up rows.
const upsertSQL = `
INSERT INTO compliance_flags (id, content_type, content_id, reason, severity, details)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (content_type, content_id, reason) WHERE NOT resolved
DO UPDATE SET severity = EXCLUDED.severity, details = EXCLUDED.details, updated_at = now()
RETURNING` + flagColumns

const getByIDSQL = `
SELECT` + flagColumns + `
FROM compliance_flags
WHERE id = $1`

const resolveSQL = `
UPDATE compliance_flags
SET resolved = true, resolved_by = $2, resolved_notes = $3, resolved_at = now(), updated_at = now()
WHERE id = $1 AND NOT resolved
RETURNING` + flagColumns

const countUnresolvedSQL = `
SELECT count(*) FROM compliance_flags WHERE NOT resolved`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Filter narrows flag listings. Nil fields match everything.
type Filter struct {
	ContentType *domain.ContentType
	ContentID   *uuid.UUID
	Severity    *domain.FlagSeverity
	Resolved    *bool
	Limit       int
	Offset      int
}

// Repo provides compliance flag persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new flag repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Upsert inserts a flag or, when an unresolved flag with the same content
// and reason already exists, refreshes it and returns the surviving row.
func (r *Repo) Upsert(ctx context.Context, f domain.ComplianceFlag) (*domain.ComplianceFlag, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, upsertSQL,
		f.ID, f.ContentType.String(), f.ContentID, f.Reason, f.Severity.String(), f.Details,
	)
	saved, err := scanFlag(row)
	if err != nil {
		return nil, postgres.MapError(err, "flag", f.ID)
	}
	return saved, nil
}

// GetByID returns a flag by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceFlag, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	f, err := scanFlag(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "flag", id)
	}
	return f, nil
}

// Resolve closes a flag exactly once. A flag already resolved matches
// nothing and yields ErrAlreadyResolved.
func (r *Repo) Resolve(ctx context.Context, id, resolvedBy uuid.UUID, notes *string) (*domain.ComplianceFlag, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	f, err := scanFlag(q.QueryRow(ctx, resolveSQL, id, resolvedBy, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("flag %s: %w", id, domain.ErrAlreadyResolved)
		}
		return nil, postgres.MapError(err, "flag", id)
	}
	return f, nil
}

// List returns flags matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter Filter) ([]domain.ComplianceFlag, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := psql.
		Select("id", "content_type", "content_id", "reason", "severity", "details",
			"resolved", "resolved_by", "resolved_notes", "created_at", "updated_at", "resolved_at").
		From("compliance_flags").
		OrderBy("created_at DESC")

	if filter.ContentType != nil {
		builder = builder.Where(sq.Eq{"content_type": filter.ContentType.String()})
	}
	if filter.ContentID != nil {
		builder = builder.Where(sq.Eq{"content_id": *filter.ContentID})
	}
	if filter.Severity != nil {
		builder = builder.Where(sq.Eq{"severity": filter.Severity.String()})
	}
	if filter.Resolved != nil {
		builder = builder.Where(sq.Eq{"resolved": *filter.Resolved})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build flag query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	flags := []domain.ComplianceFlag{}
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		flags = append(flags, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flags: %w", err)
	}
	return flags, nil
}

// CountUnresolved returns the number of open flags.
func (r *Repo) CountUnresolved(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, countUnresolvedSQL).Scan(&total); err != nil {
		return 0, fmt.Errorf("count unresolved flags: %w", err)
	}
	return total, nil
}

func scanFlag(row pgx.Row) (*domain.ComplianceFlag, error) {
	var f domain.ComplianceFlag
	var contentType, severity string
	err := row.Scan(
		&f.ID, &contentType, &f.ContentID, &f.Reason, &severity, &f.Details,
		&f.Resolved, &f.ResolvedBy, &f.ResolvedNotes, &f.CreatedAt, &f.UpdatedAt, &f.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	f.ContentType = domain.ContentType(contentType)
	f.Severity = domain.FlagSeverity(severity)
	return &f, nil
}
