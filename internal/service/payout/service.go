// Package payout tracks expert earnings through earned, payable and paid.
// Earnings are regular ledger rows; this service only moves their payout
// state and audits each admin-driven move.
package payout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

type ledgerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	SetPayoutState(ctx context.Context, id uuid.UUID, from, to domain.PayoutState) (*domain.Transaction, error)
	MarkAllPayable(ctx context.Context, accountID uuid.UUID) (int64, error)
	SumEarningsByState(ctx context.Context, accountID uuid.UUID, state domain.PayoutState) (int64, error)
}

type auditRepo interface {
	Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service moves expert earnings through the payout pipeline.
type Service struct {
	ledger ledgerRepo
	audit  auditRepo
	tx     txManager
	log    *slog.Logger
}

// NewService creates a new Payout service.
func NewService(log *slog.Logger, ledger ledgerRepo, audit auditRepo, tx txManager) *Service {
	return &Service{
		ledger: ledger,
		audit:  audit,
		tx:     tx,
		log:    log.With("service", "payout"),
	}
}

func requireAdmin(ctx context.Context) (ctxutil.Actor, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return ctxutil.Actor{}, domain.ErrUnauthorized
	}
	if !actor.Role.IsAdmin() {
		return ctxutil.Actor{}, domain.ErrForbidden
	}
	return actor, nil
}

func (s *Service) recordAudit(ctx context.Context, adminID uuid.UUID, action domain.ActionType, targetID uuid.UUID, details map[string]any) error {
	target := domain.ContentTypeAccount
	entry := domain.AdminAction{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetType: &target,
		TargetID:   &targetID,
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

// MarkPayable promotes all of an expert's earned earnings to payable, for
// example at the close of a payout period. Returns the number of earnings
// promoted; zero is not an error.
func (s *Service) MarkPayable(ctx context.Context, expertID uuid.UUID) (int64, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return 0, err
	}

	var promoted int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.ledger.MarkAllPayable(ctx, expertID)
		if err != nil {
			return err
		}
		promoted = n

		return s.recordAudit(ctx, actor.ID, domain.ActionMarkPayable, expertID, map[string]any{
			"earnings": n,
		})
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "earnings marked payable",
		slog.String("expert_id", expertID.String()),
		slog.Int64("earnings", promoted),
	)
	return promoted, nil
}

// MarkPaid settles a single payable earning. Earnings that are not payable
// fail with ErrInvalidTransition; the payout pipeline never skips a state.
func (s *Service) MarkPaid(ctx context.Context, earningID uuid.UUID, payoutRef string) (*domain.Transaction, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	var paid *domain.Transaction
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tx, err := s.ledger.SetPayoutState(ctx, earningID, domain.PayoutStatePayable, domain.PayoutStatePaid)
		if err != nil {
			return err
		}
		paid = tx

		details := map[string]any{"earning_id": earningID.String()}
		if payoutRef != "" {
			details["payout_ref"] = payoutRef
		}
		return s.recordAudit(ctx, actor.ID, domain.ActionMarkPaid, tx.AccountID, details)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "earning paid",
		slog.String("earning_id", earningID.String()),
	)
	return paid, nil
}

// Summary is an expert's earnings grouped by payout state, in credits.
type Summary struct {
	Earned  int64
	Payable int64
	Paid    int64
}

// Summarize reports an expert's earnings pipeline. Experts can read their
// own; admins anyone's.
func (s *Service) Summarize(ctx context.Context, expertID uuid.UUID) (*Summary, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if actor.ID != expertID && !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var sum Summary
	for _, pair := range []struct {
		state domain.PayoutState
		dst   *int64
	}{
		{domain.PayoutStateEarned, &sum.Earned},
		{domain.PayoutStatePayable, &sum.Payable},
		{domain.PayoutStatePaid, &sum.Paid},
	} {
		v, err := s.ledger.SumEarningsByState(ctx, expertID, pair.state)
		if err != nil {
			return nil, err
		}
		*pair.dst = v
	}
	return &sum, nil
}
