// Package ledger implements the credit transaction repository.
// Transactions are append-only; the only mutable columns are status and
// payout_state, both moved by guarded conditional updates.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const txColumns = `
    id, account_id, type, credits, amount_cents, status, payout_state,
    reason, created_by, related_tx_id, external_ref, expires_at, created_at`

const insertSQL = `
INSERT INTO transactions (id, account_id, type, credits, amount_cents, status, payout_state, reason, created_by, related_tx_id, external_ref, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING` + txColumns

const getByIDSQL = `
SELECT` + txColumns + `
FROM transactions
WHERE id = $1`

const sumDeltasSQL = `
SELECT coalesce(sum(credits), 0)
FROM transactions
WHERE account_id = $1 AND status = 'completed'`

const listByAccountSQL = `
SELECT` + txColumns + `
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

const updateStatusSQL = `
UPDATE transactions
SET status = $2
WHERE id = $1 AND status = 'pending'
RETURNING` + txColumns

const setExternalRefSQL = `
UPDATE transactions
SET external_ref = $2
WHERE id = $1
RETURNING` + txColumns

const listStalePendingSQL = `
SELECT` + txColumns + `
FROM transactions
WHERE status = 'pending' AND created_at < $1
ORDER BY created_at
LIMIT $2`

const latestCompletedPurchaseSQL = `
SELECT` + txColumns + `
FROM transactions
WHERE account_id = $1 AND type = 'purchase' AND status = 'completed'
ORDER BY created_at DESC
LIMIT 1`

const setPayoutStateSQL = `
UPDATE transactions
SET payout_state = $3
WHERE id = $1 AND type = 'expert_earning' AND status = 'completed' AND payout_state = $2
RETURNING` + txColumns

const markAllPayableSQL = `
UPDATE transactions
SET payout_state = 'payable'
WHERE account_id = $1 AND type = 'expert_earning' AND status = 'completed' AND payout_state = 'earned'`

const sumEarningsByStateSQL = `
SELECT coalesce(sum(credits), 0)
FROM transactions
WHERE account_id = $1 AND type = 'expert_earning' AND status = 'completed' AND payout_state = $2`

// Repo provides transaction persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new ledger repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Insert appends a transaction and returns the persisted row.
func (r *Repo) Insert(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var payout *string
	if tx.PayoutState != nil {
		s := tx.PayoutState.String()
		payout = &s
	}
	row := q.QueryRow(ctx, insertSQL,
		tx.ID, tx.AccountID, tx.Type.String(), tx.Credits, tx.AmountCents,
		tx.Status.String(), payout, tx.Reason, tx.CreatedBy, tx.RelatedTxID, tx.ExternalRef, tx.ExpiresAt,
	)
	created, err := scanTx(row)
	if err != nil {
		return nil, postgres.MapError(err, "transaction", tx.ID)
	}
	return created, nil
}

// GetByID returns a transaction by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tx, err := scanTx(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "transaction", id)
	}
	return tx, nil
}

// SumDeltas returns the sum of completed transaction deltas for an account.
// Pending and failed rows never count toward the balance.
func (r *Repo) SumDeltas(ctx context.Context, accountID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var sum int64
	if err := q.QueryRow(ctx, sumDeltasSQL, accountID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

// ListByAccount returns a page of the account's transactions, newest first.
func (r *Repo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByAccountSQL, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTxs(rows)
}

// UpdateStatus settles a pending transaction as completed or failed. A
// transaction already settled matches nothing and yields
// ErrInvalidTransition; settled rows never change again.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.TransactionStatus) (*domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tx, err := scanTx(q.QueryRow(ctx, updateStatusSQL, id, to.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("transaction %s already settled: %w", id, domain.ErrInvalidTransition)
		}
		return nil, postgres.MapError(err, "transaction", id)
	}
	return tx, nil
}

// SetExternalRef stores the payment provider's reference on a transaction.
func (r *Repo) SetExternalRef(ctx context.Context, id uuid.UUID, ref string) (*domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tx, err := scanTx(q.QueryRow(ctx, setExternalRefSQL, id, ref))
	if err != nil {
		return nil, postgres.MapError(err, "transaction", id)
	}
	return tx, nil
}

// ListStalePending returns pending transactions older than the cutoff, for
// the sweeper that fails abandoned purchases.
func (r *Repo) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listStalePendingSQL, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale pending: %w", err)
	}
	defer rows.Close()

	return scanTxs(rows)
}

// LatestCompletedPurchase returns the account's most recent completed
// purchase, used to link refunds back to the money they reverse.
func (r *Repo) LatestCompletedPurchase(ctx context.Context, accountID uuid.UUID) (*domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tx, err := scanTx(q.QueryRow(ctx, latestCompletedPurchaseSQL, accountID))
	if err != nil {
		return nil, postgres.MapError(err, "transaction", accountID)
	}
	return tx, nil
}

// SetPayoutState advances one earning along earned -> payable -> paid. The
// guard pins the expected current state so the move happens at most once.
func (r *Repo) SetPayoutState(ctx context.Context, id uuid.UUID, from, to domain.PayoutState) (*domain.Transaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tx, err := scanTx(q.QueryRow(ctx, setPayoutStateSQL, id, from.String(), to.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("transaction %s not in payout state %s: %w", id, from, domain.ErrInvalidTransition)
		}
		return nil, postgres.MapError(err, "transaction", id)
	}
	return tx, nil
}

// MarkAllPayable moves every earned transaction of the expert to payable
// and returns how many moved.
func (r *Repo) MarkAllPayable(ctx context.Context, accountID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, markAllPayableSQL, accountID)
	if err != nil {
		return 0, fmt.Errorf("mark payable: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SumEarningsByState returns the expert's earning total in one payout state.
func (r *Repo) SumEarningsByState(ctx context.Context, accountID uuid.UUID, state domain.PayoutState) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var sum int64
	if err := q.QueryRow(ctx, sumEarningsByStateSQL, accountID, state.String()).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum earnings: %w", err)
	}
	return sum, nil
}

func scanTx(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var txType, status string
	var payout *string
	err := row.Scan(
		&tx.ID, &tx.AccountID, &txType, &tx.Credits, &tx.AmountCents,
		&status, &payout, &tx.Reason, &tx.CreatedBy, &tx.RelatedTxID,
		&tx.ExternalRef, &tx.ExpiresAt, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = domain.TransactionType(txType)
	tx.Status = domain.TransactionStatus(status)
	if payout != nil {
		state := domain.PayoutState(*payout)
		tx.PayoutState = &state
	}
	return &tx, nil
}

func scanTxs(rows pgx.Rows) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
