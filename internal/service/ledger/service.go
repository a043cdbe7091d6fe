package ledger

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

// Defaults apply when the corresponding system setting is absent.
const (
	DefaultQuestionPrice = int64(10)
	DefaultExpertEarning = int64(6)
	DefaultHistoryLimit  = 50
	MaxHistoryLimit      = 200
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
}

type ledgerRepo interface {
	Insert(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	SumDeltas(ctx context.Context, accountID uuid.UUID) (int64, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.TransactionStatus) (*domain.Transaction, error)
	SetExternalRef(ctx context.Context, id uuid.UUID, ref string) (*domain.Transaction, error)
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error)
	LatestCompletedPurchase(ctx context.Context, accountID uuid.UUID) (*domain.Transaction, error)
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

// paymentGateway authorizes real-money purchases with the external
// payment provider.
type paymentGateway interface {
	Authorize(ctx context.Context, accountID uuid.UUID, amountCents int64) (ref string, err error)
}

// Service provides credit ledger operations. Every balance mutation writes
// the materialized balance and the ledger row in one transaction.
type Service struct {
	accounts accountRepo
	ledger   ledgerRepo
	audit    auditRepo
	settings settingsRepo
	tx       txManager
	gateway  paymentGateway
	log      *slog.Logger
}

// NewService creates a new Ledger service.
func NewService(
	log *slog.Logger,
	accounts accountRepo,
	ledger ledgerRepo,
	audit auditRepo,
	settings settingsRepo,
	tx txManager,
	gateway paymentGateway,
) *Service {
	return &Service{
		accounts: accounts,
		ledger:   ledger,
		audit:    audit,
		settings: settings,
		tx:       tx,
		gateway:  gateway,
		log:      log.With("service", "ledger"),
	}
}

// settingInt64 reads an integer setting, falling back to a default when the
// key is absent or malformed.
func (s *Service) settingInt64(ctx context.Context, key string, fallback int64) int64 {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil {
		s.log.WarnContext(ctx, "malformed setting, using default",
			slog.String("key", key),
			slog.String("value", setting.Value),
		)
		return fallback
	}
	return v
}

// QuestionPrice returns the current credit price of a question.
func (s *Service) QuestionPrice(ctx context.Context) int64 {
	return s.settingInt64(ctx, domain.SettingQuestionPrice, DefaultQuestionPrice)
}

// ExpertEarning returns the credits an expert earns per approved answer.
func (s *Service) ExpertEarning(ctx context.Context) int64 {
	return s.settingInt64(ctx, domain.SettingExpertEarning, DefaultExpertEarning)
}

func validateAmount(credits int64) error {
	if credits <= 0 {
		return domain.NewValidationError("credits", "must be positive")
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
