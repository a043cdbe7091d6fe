// Package setting manages the system settings read by the state machine:
// confidence threshold, question price, expert earning rate, expert
// capacity. Updates are admin only and audit-logged.
package setting

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

type settingsRepo interface {
	Get(ctx context.Context, key string) (*domain.SystemSetting, error)
	Upsert(ctx context.Context, key, value string, updatedBy uuid.UUID) (*domain.SystemSetting, error)
	List(ctx context.Context) ([]domain.SystemSetting, error)
}

type auditRepo interface {
	Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages system settings.
type Service struct {
	settings settingsRepo
	audit    auditRepo
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new Setting service.
func NewService(log *slog.Logger, settings settingsRepo, audit auditRepo, tx txManager) *Service {
	return &Service{
		settings: settings,
		audit:    audit,
		tx:       tx,
		log:      log.With("service", "setting"),
	}
}

// validateValue rejects values the reading sites would silently fall back
// on. Unknown keys are allowed; the store is open for operational use.
func validateValue(key, value string) error {
	switch key {
	case domain.SettingConfidenceThreshold:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || v > 1 {
			return domain.NewValidationError("value", "must be a number between 0 and 1")
		}
	case domain.SettingQuestionPrice, domain.SettingExpertEarning, domain.SettingExpertCapacity:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil || v <= 0 {
			return domain.NewValidationError("value", "must be a positive integer")
		}
	}
	return nil
}

// Update writes a setting and audits the change with the previous value.
func (s *Service) Update(ctx context.Context, key, value string) (*domain.SystemSetting, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if key == "" {
		return nil, domain.NewValidationError("key", "is required")
	}
	if err := validateValue(key, value); err != nil {
		return nil, err
	}

	var previous string
	if current, err := s.settings.Get(ctx, key); err == nil {
		previous = current.Value
	}

	var updated *domain.SystemSetting
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		setting, err := s.settings.Upsert(ctx, key, value, actor.ID)
		if err != nil {
			return err
		}
		updated = setting

		entry := domain.AdminAction{
			ID:      uuid.New(),
			AdminID: actor.ID,
			Action:  domain.ActionUpdateSetting,
			Details: map[string]any{
				"key":      key,
				"value":    value,
				"previous": previous,
			},
			CreatedAt: time.Now().UTC(),
		}
		if info := ctxutil.ClientInfoFromCtx(ctx); info.IP != "" {
			entry.IP = &info.IP
			entry.UserAgent = &info.UserAgent
		}
		if _, err := s.audit.Insert(ctx, entry); err != nil {
			return fmt.Errorf("record audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "setting updated",
		slog.String("key", key),
		slog.String("value", value),
	)
	return updated, nil
}

// List returns all settings, admin only.
func (s *Service) List(ctx context.Context) ([]domain.SystemSetting, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.settings.List(ctx)
}
