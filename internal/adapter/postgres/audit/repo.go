// Package audit implements the append-only admin action trail repository.
// Rows are only ever inserted; there is no update or delete path.
package audit

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const insertSQL = `
INSERT INTO admin_actions (id, admin_id, action, target_type, target_id, details, ip, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, admin_id, action, target_type, target_id, details, ip, user_agent, created_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides admin action persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new audit repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Insert appends one audit entry and returns the persisted row.
func (r *Repo) Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var targetType *string
	if a.TargetType != nil {
		s := a.TargetType.String()
		targetType = &s
	}
	row := q.QueryRow(ctx, insertSQL,
		a.ID, a.AdminID, a.Action.String(), targetType, a.TargetID,
		a.Details, a.IP, a.UserAgent,
	)
	created, err := scanAction(row)
	if err != nil {
		return nil, postgres.MapError(err, "admin_action", a.ID)
	}
	return created, nil
}

// List returns audit entries matching the filter, newest first. Entries
// sharing a created_at order by id so the listing is deterministic.
func (r *Repo) List(ctx context.Context, filter domain.AdminActionFilter) ([]domain.AdminAction, error) {
	builder := applyFilter(selectActions(), filter)

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	return r.queryActions(ctx, builder)
}

// ListBefore returns up to limit entries matching the filter that are
// strictly older than the (createdAt, id) cursor, newest first. The compound
// cursor keeps successive pages stable while new entries are appended.
// Filter pagination fields are ignored.
func (r *Repo) ListBefore(ctx context.Context, filter domain.AdminActionFilter, createdAt time.Time, id uuid.UUID, limit int) ([]domain.AdminAction, error) {
	builder := applyFilter(selectActions(), filter).
		Where(sq.Expr("(created_at, id) < (?, ?)", createdAt, id)).
		Limit(uint64(limit))

	return r.queryActions(ctx, builder)
}

func selectActions() sq.SelectBuilder {
	return psql.
		Select("id", "admin_id", "action", "target_type", "target_id", "details", "ip", "user_agent", "created_at").
		From("admin_actions").
		OrderBy("created_at DESC", "id DESC")
}

func (r *Repo) queryActions(ctx context.Context, builder sq.SelectBuilder) ([]domain.AdminAction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list admin actions: %w", err)
	}
	defer rows.Close()

	actions := []domain.AdminAction{}
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin action: %w", err)
		}
		actions = append(actions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin actions: %w", err)
	}
	return actions, nil
}

// Count returns how many entries match the filter, ignoring pagination.
func (r *Repo) Count(ctx context.Context, filter domain.AdminActionFilter) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := applyFilter(psql.Select("count(*)").From("admin_actions"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build audit count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count admin actions: %w", err)
	}
	return total, nil
}

func applyFilter(builder sq.SelectBuilder, filter domain.AdminActionFilter) sq.SelectBuilder {
	if filter.AdminID != nil {
		builder = builder.Where(sq.Eq{"admin_id": *filter.AdminID})
	}
	if filter.Action != nil {
		builder = builder.Where(sq.Eq{"action": filter.Action.String()})
	}
	if filter.TargetType != nil {
		builder = builder.Where(sq.Eq{"target_type": filter.TargetType.String()})
	}
	if filter.TargetID != nil {
		builder = builder.Where(sq.Eq{"target_id": *filter.TargetID})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.To})
	}
	return builder
}

func scanAction(row pgx.Row) (*domain.AdminAction, error) {
	var a domain.AdminAction
	var action string
	var targetType *string
	err := row.Scan(
		&a.ID, &a.AdminID, &action, &targetType, &a.TargetID,
		&a.Details, &a.IP, &a.UserAgent, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Action = domain.ActionType(action)
	if targetType != nil {
		ct := domain.ContentType(*targetType)
		a.TargetType = &ct
	}
	return &a, nil
}
