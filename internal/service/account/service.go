// Package account implements registration and the admin account management
// surface: role changes, ban/unban and listing. Admin mutations pair their
// state change with an audit entry in one transaction.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

const defaultPageSize = 50

type accountRepo interface {
	Create(ctx context.Context, acc domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.Account, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}

type auditRepo interface {
	Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, e domain.Event)
}

// passwordHasher abstracts bcrypt so tests stay fast.
type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service provides account operations.
type Service struct {
	accounts accountRepo
	audit    auditRepo
	tx       txManager
	events   eventEmitter
	hasher   passwordHasher
	log      *slog.Logger
}

// NewService creates a new Account service.
func NewService(
	log *slog.Logger,
	accounts accountRepo,
	audit auditRepo,
	tx txManager,
	events eventEmitter,
	hasher passwordHasher,
) *Service {
	return &Service{
		accounts: accounts,
		audit:    audit,
		tx:       tx,
		events:   events,
		hasher:   hasher,
		log:      log.With("service", "account"),
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

// Get returns an account. Non-admins can only read their own.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if actor.ID != id && !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.accounts.GetByID(ctx, id)
}
