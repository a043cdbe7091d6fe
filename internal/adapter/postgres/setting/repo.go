// Package setting implements the system settings repository.
package setting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const settingColumns = `
    key, value, updated_by, updated_at`

const getSQL = `
SELECT` + settingColumns + `
FROM system_settings
WHERE key = $1`

const upsertSQL = `
INSERT INTO system_settings (key, value, updated_by)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = now()
RETURNING` + settingColumns

const listSQL = `
SELECT` + settingColumns + `
FROM system_settings
ORDER BY key`

// Repo provides system setting persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new setting repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Get returns a setting by key.
func (r *Repo) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	s, err := scanSetting(q.QueryRow(ctx, getSQL, key))
	if err != nil {
		return nil, postgres.MapError(err, "setting", uuid.Nil)
	}
	return s, nil
}

// Upsert writes a setting value, recording who changed it.
func (r *Repo) Upsert(ctx context.Context, key, value string, updatedBy uuid.UUID) (*domain.SystemSetting, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	s, err := scanSetting(q.QueryRow(ctx, upsertSQL, key, value, updatedBy))
	if err != nil {
		return nil, postgres.MapError(err, "setting", updatedBy)
	}
	return s, nil
}

// List returns all settings ordered by key.
func (r *Repo) List(ctx context.Context) ([]domain.SystemSetting, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := []domain.SystemSetting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}

func scanSetting(row pgx.Row) (*domain.SystemSetting, error) {
	var s domain.SystemSetting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
