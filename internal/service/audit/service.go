// Package audit exposes the admin action trail: querying, counting and CSV
// export. Writes happen at the mutation sites themselves so that an action
// and its trail entry share one transaction; this service only appends
// standalone entries for actions with no other side effect.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

const defaultPageSize = 50

type auditRepo interface {
	Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error)
	List(ctx context.Context, filter domain.AdminActionFilter) ([]domain.AdminAction, error)
	ListBefore(ctx context.Context, filter domain.AdminActionFilter, createdAt time.Time, id uuid.UUID, limit int) ([]domain.AdminAction, error)
	Count(ctx context.Context, filter domain.AdminActionFilter) (int, error)
}

// Service provides read access to the audit trail.
type Service struct {
	repo auditRepo
	log  *slog.Logger
}

// NewService creates a new Audit service.
func NewService(log *slog.Logger, repo auditRepo) *Service {
	return &Service{
		repo: repo,
		log:  log.With("service", "audit"),
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

// Record appends a standalone trail entry for the acting admin. Mutations
// with their own transaction write the trail there instead.
func (s *Service) Record(ctx context.Context, action domain.ActionType, targetType *domain.ContentType, targetID *uuid.UUID, details map[string]any) (*domain.AdminAction, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	entry := domain.AdminAction{
		ID:         uuid.New(),
		AdminID:    actor.ID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	if info := ctxutil.ClientInfoFromCtx(ctx); info.IP != "" {
		entry.IP = &info.IP
		entry.UserAgent = &info.UserAgent
	}

	recorded, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "admin action recorded",
		slog.String("action", string(action)),
		slog.String("admin_id", actor.ID.String()),
	)
	return recorded, nil
}

// Page is one page of the audit trail with the total match count.
type Page struct {
	Entries []domain.AdminAction
	Total   int
}

// List returns a filtered page of the trail, newest first. Admin only.
func (s *Service) List(ctx context.Context, filter domain.AdminActionFilter) (*Page, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page{Entries: entries, Total: total}, nil
}
