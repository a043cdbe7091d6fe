package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

// SetRole changes an account's role. Admins cannot change their own role;
// a second admin must do it.
func (s *Service) SetRole(ctx context.Context, accountID uuid.UUID, role domain.UserRole) (*domain.Account, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}
	if actor.ID == accountID {
		return nil, fmt.Errorf("cannot change own role: %w", domain.ErrForbidden)
	}

	current, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		acc, err := s.accounts.UpdateRole(ctx, accountID, role)
		if err != nil {
			return err
		}
		updated = acc

		return s.recordAudit(ctx, actor.ID, domain.ActionSetRole, accountID, map[string]any{
			"from": current.Role.String(),
			"to":   role.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "role changed",
		slog.String("account_id", accountID.String()),
		slog.String("role", role.String()),
	)
	return updated, nil
}

// Ban deactivates an account. A reason is required and audited; banning is
// idempotent at the storage level but every call appends its own entry.
func (s *Service) Ban(ctx context.Context, accountID uuid.UUID, reason string) (*domain.Account, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("ban: %w", domain.ErrMissingReason)
	}
	if actor.ID == accountID {
		return nil, fmt.Errorf("cannot ban own account: %w", domain.ErrForbidden)
	}

	var banned *domain.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		acc, err := s.accounts.SetBanned(ctx, accountID, true)
		if err != nil {
			return err
		}
		banned = acc

		return s.recordAudit(ctx, actor.ID, domain.ActionBanAccount, accountID, map[string]any{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, domain.Event{
		Type:       domain.EventAccountBanned,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"account_id": accountID.String(),
			"reason":     reason,
		},
	})

	s.log.InfoContext(ctx, "account banned",
		slog.String("account_id", accountID.String()),
		slog.String("admin_id", actor.ID.String()),
	)
	return banned, nil
}

// Unban reactivates a banned account.
func (s *Service) Unban(ctx context.Context, accountID uuid.UUID, reason string) (*domain.Account, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("unban: %w", domain.ErrMissingReason)
	}

	var unbanned *domain.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		acc, err := s.accounts.SetBanned(ctx, accountID, false)
		if err != nil {
			return err
		}
		unbanned = acc

		return s.recordAudit(ctx, actor.ID, domain.ActionUnbanAccount, accountID, map[string]any{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account unbanned",
		slog.String("account_id", accountID.String()),
	)
	return unbanned, nil
}

// Page is one page of accounts with the total count.
type Page struct {
	Accounts []domain.Account
	Total    int
}

// List returns a page of accounts, admin only.
func (s *Service) List(ctx context.Context, limit, offset int) (*Page, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	accounts, err := s.accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Page{Accounts: accounts, Total: total}, nil
}
