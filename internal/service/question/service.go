package question

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

const (
	MaxSubjectLen = 200
	MaxTextLen    = 20000

	// DefaultExpertCapacity limits simultaneous review claims per expert
	// when the setting is absent.
	DefaultExpertCapacity = 5

	DefaultListLimit = 20
	MaxListLimit     = 100
)

type questionRepo interface {
	Create(ctx context.Context, q domain.Question) (*domain.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.QuestionStatus) (*domain.Question, error)
	Claim(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error)
	SendBack(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error)
	Escalate(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ResolveEscalation(ctx context.Context, id uuid.UUID, to domain.QuestionStatus) (*domain.Question, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error)
	MarkRated(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ClaimNextForProcessing(ctx context.Context) (*domain.Question, error)
	ListByStatus(ctx context.Context, status domain.QuestionStatus, limit, offset int) ([]domain.Question, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Question, error)
	CountInReviewByExpert(ctx context.Context, expertID uuid.UUID) (int, error)
}

type answerRepo interface {
	UpsertDraft(ctx context.Context, id, questionID uuid.UUID, aiDraft string, confidence float64) (*domain.Answer, error)
	GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)
	SetHumanized(ctx context.Context, id uuid.UUID, draft string) (*domain.Answer, error)
	ApplyReview(ctx context.Context, id uuid.UUID, final *string, status domain.AnswerStatus) (*domain.Answer, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
}

type reviewRepo interface {
	CreateReview(ctx context.Context, rev domain.ExpertReview) (*domain.ExpertReview, error)
	HasApproved(ctx context.Context, answerID uuid.UUID) (bool, error)
	CreateRating(ctx context.Context, rt domain.Rating) (*domain.Rating, error)
	GetRating(ctx context.Context, questionID uuid.UUID) (*domain.Rating, error)
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

// creditLedger is the slice of the ledger service this service drives.
// Charge and GrantEarning join this service's database transaction.
type creditLedger interface {
	Charge(ctx context.Context, accountID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error)
	GrantEarning(ctx context.Context, expertID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error)
	QuestionPrice(ctx context.Context) int64
	ExpertEarning(ctx context.Context) int64
}

// eventEmitter dispatches domain events fire-and-forget after commit.
type eventEmitter interface {
	Emit(ctx context.Context, e domain.Event)
}

// Service drives the question lifecycle from submission to rating.
type Service struct {
	questions questionRepo
	answers   answerRepo
	reviews   reviewRepo
	audit     auditRepo
	settings  settingsRepo
	ledger    creditLedger
	tx        txManager
	events    eventEmitter
	log       *slog.Logger
}

// NewService creates a new Question service.
func NewService(
	log *slog.Logger,
	questions questionRepo,
	answers answerRepo,
	reviews reviewRepo,
	audit auditRepo,
	settings settingsRepo,
	ledger creditLedger,
	tx txManager,
	events eventEmitter,
) *Service {
	return &Service{
		questions: questions,
		answers:   answers,
		reviews:   reviews,
		audit:     audit,
		settings:  settings,
		ledger:    ledger,
		tx:        tx,
		events:    events,
		log:       log.With("service", "question"),
	}
}

// expertCapacity reads the per-expert review claim limit.
func (s *Service) expertCapacity(ctx context.Context) int {
	setting, err := s.settings.Get(ctx, domain.SettingExpertCapacity)
	if err != nil {
		return DefaultExpertCapacity
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil || n <= 0 {
		return DefaultExpertCapacity
	}
	return n
}

// recordAudit appends an audit entry for an admin question mutation.
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

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func validateSubmission(subject, text string) error {
	var fields []domain.FieldError
	if strings.TrimSpace(subject) == "" {
		fields = append(fields, domain.FieldError{Field: "subject", Message: "is required"})
	}
	if len(subject) > MaxSubjectLen {
		fields = append(fields, domain.FieldError{Field: "subject", Message: "too long"})
	}
	if strings.TrimSpace(text) == "" {
		fields = append(fields, domain.FieldError{Field: "text", Message: "is required"})
	}
	if len(text) > MaxTextLen {
		fields = append(fields, domain.FieldError{Field: "text", Message: "too long"})
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}
