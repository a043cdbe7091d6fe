package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

// Charge debits credits from an account and records a completed charge
// transaction, atomically. A balance too small for the debit leaves both
// the account and the ledger untouched and returns ErrInsufficientBalance.
//
// Charge joins a surrounding transaction when the caller already opened
// one, so it composes with question submission.
func (s *Service) Charge(ctx context.Context, accountID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error) {
	if err := validateAmount(credits); err != nil {
		return nil, err
	}

	var created *domain.Transaction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.AdjustBalance(ctx, accountID, -credits); err != nil {
			return err
		}

		tx, err := s.ledger.Insert(ctx, domain.Transaction{
			ID:          uuid.New(),
			AccountID:   accountID,
			Type:        domain.TransactionTypeCharge,
			Credits:     -credits,
			Status:      domain.TransactionStatusCompleted,
			Reason:      reason,
			RelatedTxID: relatedID,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert charge: %w", err)
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account charged",
		slog.String("account_id", accountID.String()),
		slog.Int64("credits", credits),
		slog.String("tx_id", created.ID.String()),
	)
	return created, nil
}

// GrantEarning credits an expert for an approved answer and records a
// completed expert_earning transaction in payout state earned.
func (s *Service) GrantEarning(ctx context.Context, expertID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error) {
	if err := validateAmount(credits); err != nil {
		return nil, err
	}

	var created *domain.Transaction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.AdjustBalance(ctx, expertID, credits); err != nil {
			return err
		}

		earned := domain.PayoutStateEarned
		tx, err := s.ledger.Insert(ctx, domain.Transaction{
			ID:          uuid.New(),
			AccountID:   expertID,
			Type:        domain.TransactionTypeExpertEarning,
			Credits:     credits,
			Status:      domain.TransactionStatusCompleted,
			PayoutState: &earned,
			Reason:      reason,
			RelatedTxID: relatedID,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert earning: %w", err)
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "expert earning granted",
		slog.String("expert_id", expertID.String()),
		slog.Int64("credits", credits),
	)
	return created, nil
}
