package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// Balance returns the account's materialized credit balance. Clients may
// only read their own; admins may read anyone's.
func (s *Service) Balance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	if actor.ID != accountID && !actor.Role.IsAdmin() {
		return 0, domain.ErrForbidden
	}

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("get account: %w", err)
	}
	return acc.Credits, nil
}

// History returns a page of the account's transactions, newest first, with
// the same ownership rule as Balance.
func (s *Service) History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if actor.ID != accountID && !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	txs, err := s.ledger.ListByAccount(ctx, accountID, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return txs, nil
}

// Reconcile compares the materialized balance against the ledger sum.
// The two must agree; a mismatch means a balance mutation escaped its
// paired ledger write and is logged as an error.
func (s *Service) Reconcile(ctx context.Context, accountID uuid.UUID) (materialized, ledgerSum int64, err error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return 0, 0, domain.ErrForbidden
	}

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("get account: %w", err)
	}
	sum, err := s.ledger.SumDeltas(ctx, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("sum ledger: %w", err)
	}

	if acc.Credits != sum {
		s.log.ErrorContext(ctx, "ledger out of sync with balance",
			slog.String("account_id", accountID.String()),
			slog.Int64("materialized", acc.Credits),
			slog.Int64("ledger_sum", sum),
		)
	}
	return acc.Credits, sum, nil
}
