// Package account implements the Account repository using PostgreSQL.
// Balance mutations are conditional updates that can never drive the
// materialized credits column negative.
package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const accountColumns = `
    id, email, name, password_hash, role, credits, is_active, is_banned, created_at, updated_at`

const createSQL = `
INSERT INTO accounts (id, email, name, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING` + accountColumns

const getByIDSQL = `
SELECT` + accountColumns + `
FROM accounts
WHERE id = $1`

const getByEmailSQL = `
SELECT` + accountColumns + `
FROM accounts
WHERE email = $1`

const updateRoleSQL = `
UPDATE accounts
SET role = $2, updated_at = now()
WHERE id = $1
RETURNING` + accountColumns

const setBannedSQL = `
UPDATE accounts
SET is_banned = $2, updated_at = now()
WHERE id = $1
RETURNING` + accountColumns

const adjustBalanceSQL = `
UPDATE accounts
SET credits = credits + $2, updated_at = now()
WHERE id = $1 AND credits + $2 >= 0
RETURNING credits`

const getCreditsSQL = `
SELECT credits FROM accounts WHERE id = $1`

const listSQL = `
SELECT` + accountColumns + `
FROM accounts
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

const countSQL = `
SELECT count(*) FROM accounts`

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new account repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a new account and returns the persisted row.
func (r *Repo) Create(ctx context.Context, acc domain.Account) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, createSQL, acc.ID, acc.Email, acc.Name, acc.PasswordHash, acc.Role.String())
	created, err := scanAccount(row)
	if err != nil {
		return nil, postgres.MapError(err, "account", acc.ID)
	}
	return created, nil
}

// GetByID returns an account by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	acc, err := scanAccount(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "account", id)
	}
	return acc, nil
}

// GetByEmail returns an account by email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	acc, err := scanAccount(q.QueryRow(ctx, getByEmailSQL, email))
	if err != nil {
		return nil, postgres.MapError(err, "account", uuid.Nil)
	}
	return acc, nil
}

// UpdateRole changes the account role.
func (r *Repo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	acc, err := scanAccount(q.QueryRow(ctx, updateRoleSQL, id, role.String()))
	if err != nil {
		return nil, postgres.MapError(err, "account", id)
	}
	return acc, nil
}

// SetBanned flips the ban flag. Accounts are never hard-deleted.
func (r *Repo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	acc, err := scanAccount(q.QueryRow(ctx, setBannedSQL, id, banned))
	if err != nil {
		return nil, postgres.MapError(err, "account", id)
	}
	return acc, nil
}

// AdjustBalance atomically applies a signed credit delta and returns the new
// balance. A delta that would drive the balance negative matches no row and
// yields domain.ErrInsufficientBalance, leaving the account unchanged.
func (r *Repo) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var balance int64
	err := q.QueryRow(ctx, adjustBalanceSQL, id, delta).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if err != pgx.ErrNoRows {
		return 0, postgres.MapError(err, "account", id)
	}

	// No row matched: distinguish a missing account from a balance guard hit.
	var current int64
	if err := q.QueryRow(ctx, getCreditsSQL, id).Scan(&current); err != nil {
		return 0, postgres.MapError(err, "account", id)
	}
	return 0, fmt.Errorf("account %s: balance %d, delta %d: %w", id, current, delta, domain.ErrInsufficientBalance)
}

// List returns a page of accounts ordered by creation time, newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Count returns the total number of accounts.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, countSQL).Scan(&total); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return total, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var role string
	err := row.Scan(
		&acc.ID, &acc.Email, &acc.Name, &acc.PasswordHash, &role,
		&acc.Credits, &acc.IsActive, &acc.IsBanned, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc.Role = domain.UserRole(role)
	return &acc, nil
}

func scanAccounts(rows pgx.Rows) ([]domain.Account, error) {
	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}
