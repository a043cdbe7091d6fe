// Package compliance implements content flagging and the admin override
// surface. Every override performs its state-machine side effect and
// appends an audit entry in the same database transaction; one without the
// other is a defect.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/adapter/postgres/flag"
	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// DefaultConfidenceThreshold applies when the setting is absent.
const DefaultConfidenceThreshold = 0.7

type flagRepo interface {
	Upsert(ctx context.Context, f domain.ComplianceFlag) (*domain.ComplianceFlag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceFlag, error)
	Resolve(ctx context.Context, id, resolvedBy uuid.UUID, notes *string) (*domain.ComplianceFlag, error)
	List(ctx context.Context, filter flag.Filter) ([]domain.ComplianceFlag, error)
	CountUnresolved(ctx context.Context) (int, error)
}

type questionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.QuestionStatus) (*domain.Question, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error)
}

type answerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	SetConfidenceOverride(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	SetAICheckPassed(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	SetOriginalityPassed(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
}

type auditRepo interface {
	Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error)
}

type settingsRepo interface {
	Get(ctx context.Context, key string) (*domain.SystemSetting, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides flagging and audit-logged overrides.
type Service struct {
	flags     flagRepo
	questions questionRepo
	answers   answerRepo
	audit     auditRepo
	settings  settingsRepo
	tx        txManager
	log       *slog.Logger
}

// NewService creates a new Compliance service.
func NewService(
	log *slog.Logger,
	flags flagRepo,
	questions questionRepo,
	answers answerRepo,
	audit auditRepo,
	settings settingsRepo,
	tx txManager,
) *Service {
	return &Service{
		flags:     flags,
		questions: questions,
		answers:   answers,
		audit:     audit,
		settings:  settings,
		tx:        tx,
		log:       log.With("service", "compliance"),
	}
}

func (s *Service) confidenceThreshold(ctx context.Context) float64 {
	setting, err := s.settings.Get(ctx, domain.SettingConfidenceThreshold)
	if err != nil {
		return DefaultConfidenceThreshold
	}
	v, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || v < 0 || v > 1 {
		return DefaultConfidenceThreshold
	}
	return v
}

// requireAdmin returns the acting admin or ErrForbidden.
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

// recordAudit appends the audit entry paired with an override or flag
// mutation. Details always carry "reason"; override sites add their own
// keys.
func (s *Service) recordAudit(ctx context.Context, adminID uuid.UUID, action domain.ActionType, target domain.ContentType, targetID uuid.UUID, details map[string]any) error {
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
