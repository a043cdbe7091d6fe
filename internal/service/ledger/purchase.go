package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// StalePendingCutoff is how long a purchase may sit pending before the
// sweeper fails it.
const StalePendingCutoff = time.Hour

// Purchase buys credits with real money. The flow is two-phase: a pending
// transaction is recorded first, then the gateway authorizes the payment,
// and only a successful authorization settles the transaction and credits
// the balance. A gateway failure settles the row as failed and leaves the
// balance untouched.
func (s *Service) Purchase(ctx context.Context, accountID uuid.UUID, credits, amountCents int64) (*domain.Transaction, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if actor.ID != accountID && !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateAmount(credits); err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, domain.NewValidationError("amount_cents", "must be positive")
	}

	pending, err := s.ledger.Insert(ctx, domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        domain.TransactionTypePurchase,
		Credits:     credits,
		AmountCents: &amountCents,
		Status:      domain.TransactionStatusPending,
		Reason:      "credit purchase",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert pending purchase: %w", err)
	}

	ref, gatewayErr := s.gateway.Authorize(ctx, accountID, amountCents)
	if gatewayErr != nil {
		if _, failErr := s.ledger.UpdateStatus(ctx, pending.ID, domain.TransactionStatusFailed); failErr != nil {
			s.log.ErrorContext(ctx, "failed to settle declined purchase",
				slog.String("tx_id", pending.ID.String()),
				slog.String("error", failErr.Error()),
			)
		}
		return nil, fmt.Errorf("authorize payment: %w: %w", domain.ErrExternalService, gatewayErr)
	}

	var settled *domain.Transaction
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.UpdateStatus(ctx, pending.ID, domain.TransactionStatusCompleted); err != nil {
			return err
		}
		tx, err := s.ledger.SetExternalRef(ctx, pending.ID, ref)
		if err != nil {
			return err
		}
		settled = tx

		if _, err := s.accounts.AdjustBalance(ctx, accountID, credits); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "credits purchased",
		slog.String("account_id", accountID.String()),
		slog.Int64("credits", credits),
		slog.Int64("amount_cents", amountCents),
		slog.String("external_ref", ref),
	)
	return settled, nil
}

// FailStalePending settles long-pending purchases as failed and returns how
// many rows moved. Run periodically by the sweeper.
func (s *Service) FailStalePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	stale, err := s.ledger.ListStalePending(ctx, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("list stale pending: %w", err)
	}

	failed := 0
	for _, tx := range stale {
		if _, err := s.ledger.UpdateStatus(ctx, tx.ID, domain.TransactionStatusFailed); err != nil {
			// A concurrent settle is fine; everything else is reported.
			s.log.WarnContext(ctx, "could not fail stale purchase",
				slog.String("tx_id", tx.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		failed++
	}

	if failed > 0 {
		s.log.InfoContext(ctx, "stale purchases failed", slog.Int("count", failed))
	}
	return failed, nil
}
