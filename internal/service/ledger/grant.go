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

// Grant credits an account by administrative decision. The balance change,
// the grant transaction and the audit entry land in one database
// transaction; a failure of any of the three rolls back all of them. A
// non-nil expiresAt marks the grant as time-limited.
func (s *Service) Grant(ctx context.Context, accountID uuid.UUID, credits int64, reason string, expiresAt *time.Time) (*domain.Transaction, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok || !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateAmount(credits); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("grant: %w", domain.ErrMissingReason)
	}

	var created *domain.Transaction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.AdjustBalance(ctx, accountID, credits); err != nil {
			return err
		}

		adminID := actor.ID
		tx, err := s.ledger.Insert(ctx, domain.Transaction{
			ID:        uuid.New(),
			AccountID: accountID,
			Type:      domain.TransactionTypeGrant,
			Credits:   credits,
			Status:    domain.TransactionStatusCompleted,
			Reason:    reason,
			CreatedBy: &adminID,
			ExpiresAt: expiresAt,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert grant: %w", err)
		}
		created = tx

		details := map[string]any{
			"credits": credits,
			"reason":  reason,
			"tx_id":   tx.ID.String(),
		}
		if expiresAt != nil {
			details["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
		}
		return s.recordAudit(ctx, actor.ID, domain.ActionGrantCredits, accountID, details)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "credits granted",
		slog.String("admin_id", actor.ID.String()),
		slog.String("account_id", accountID.String()),
		slog.Int64("credits", credits),
	)
	return created, nil
}

// Revoke debits an account by administrative decision. When refund is set,
// a linked refund entry marks the money side of the reversal against the
// account's most recent completed purchase.
func (s *Service) Revoke(ctx context.Context, accountID uuid.UUID, credits int64, reason string, refund bool) (*domain.Transaction, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok || !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateAmount(credits); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("revoke: %w", domain.ErrMissingReason)
	}

	var created *domain.Transaction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.AdjustBalance(ctx, accountID, -credits); err != nil {
			return err
		}

		adminID := actor.ID
		tx, err := s.ledger.Insert(ctx, domain.Transaction{
			ID:        uuid.New(),
			AccountID: accountID,
			Type:      domain.TransactionTypeRevoke,
			Credits:   -credits,
			Status:    domain.TransactionStatusCompleted,
			Reason:    reason,
			CreatedBy: &adminID,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert revoke: %w", err)
		}
		created = tx

		if refund {
			if err := s.insertRefund(ctx, accountID, adminID, reason, tx.ID); err != nil {
				return err
			}
		}

		return s.recordAudit(ctx, actor.ID, domain.ActionRevokeCredits, accountID, map[string]any{
			"credits": credits,
			"reason":  reason,
			"refund":  refund,
			"tx_id":   tx.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "credits revoked",
		slog.String("admin_id", actor.ID.String()),
		slog.String("account_id", accountID.String()),
		slog.Int64("credits", credits),
	)
	return created, nil
}

// insertRefund records the money side of a revoke. The refund entry carries
// zero credit delta so ledger sums stay consistent with the revoke row; it
// references the revoke and the purchase it reverses.
func (s *Service) insertRefund(ctx context.Context, accountID, adminID uuid.UUID, reason string, revokeID uuid.UUID) error {
	purchase, err := s.ledger.LatestCompletedPurchase(ctx, accountID)
	if err != nil {
		return fmt.Errorf("find purchase to refund: %w", err)
	}

	var amount *int64
	if purchase.AmountCents != nil {
		neg := -*purchase.AmountCents
		amount = &neg
	}
	_, err = s.ledger.Insert(ctx, domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        domain.TransactionTypeRefund,
		Credits:     0,
		AmountCents: amount,
		Status:      domain.TransactionStatusCompleted,
		Reason:      reason,
		CreatedBy:   &adminID,
		RelatedTxID: &revokeID,
		ExternalRef: purchase.ExternalRef,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// recordAudit appends the audit entry for an admin ledger mutation.
// Details keys: "credits", "reason", "tx_id", optionally "refund".
func (s *Service) recordAudit(ctx context.Context, adminID uuid.UUID, action domain.ActionType, accountID uuid.UUID, details map[string]any) error {
	target := domain.ContentTypeAccount
	entry := domain.AdminAction{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetType: &target,
		TargetID:   &accountID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	if info := ctxutil.ClientInfoFromCtx(ctx); info.IP != "" {
		entry.IP = &info.IP
		entry.UserAgent = &info.UserAgent
	}
	if _, err := s.audit.Insert(ctx, entry); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
