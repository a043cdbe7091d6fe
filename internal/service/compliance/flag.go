package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/adapter/postgres/flag"
	"github.com/askwell/askwell-backend/internal/domain"
)

// FlagInput describes content to flag for compliance review.
type FlagInput struct {
	ContentType domain.ContentType
	ContentID   uuid.UUID
	Reason      string
	Severity    domain.FlagSeverity
	// Details keys written here: "detector", "score", "excerpt".
	Details map[string]any
}

// Validate checks the flag shape.
func (in FlagInput) Validate() error {
	var fields []domain.FieldError
	if !in.ContentType.IsValid() {
		fields = append(fields, domain.FieldError{Field: "content_type", Message: "unknown content type"})
	}
	if strings.TrimSpace(in.Reason) == "" {
		fields = append(fields, domain.FieldError{Field: "reason", Message: "is required"})
	}
	if !in.Severity.IsValid() {
		fields = append(fields, domain.FieldError{Field: "severity", Message: "unknown severity"})
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

// Flag marks content for compliance review by administrative decision and
// audits the act. Flagging is idempotent on (content, reason): a repeat
// refreshes severity and details on the existing row.
func (s *Service) Flag(ctx context.Context, in FlagInput) (*domain.ComplianceFlag, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var flagged *domain.ComplianceFlag
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		f, err := s.flags.Upsert(ctx, domain.ComplianceFlag{
			ID:          uuid.New(),
			ContentType: in.ContentType,
			ContentID:   in.ContentID,
			Reason:      in.Reason,
			Severity:    in.Severity,
			Details:     in.Details,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("upsert flag: %w", err)
		}
		flagged = f

		return s.recordAudit(ctx, actor.ID, domain.ActionFlagContent, in.ContentType, in.ContentID, map[string]any{
			"reason":   in.Reason,
			"severity": in.Severity.String(),
			"flag_id":  f.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "content flagged",
		slog.String("flag_id", flagged.ID.String()),
		slog.String("content_type", in.ContentType.String()),
		slog.String("severity", in.Severity.String()),
	)
	return flagged, nil
}

// FlagAuto records a flag raised by an automated detector. No actor, no
// audit entry; detectors are not admins.
func (s *Service) FlagAuto(ctx context.Context, in FlagInput) (*domain.ComplianceFlag, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	f, err := s.flags.Upsert(ctx, domain.ComplianceFlag{
		ID:          uuid.New(),
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		Reason:      in.Reason,
		Severity:    in.Severity,
		Details:     in.Details,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert flag: %w", err)
	}

	s.log.InfoContext(ctx, "content auto-flagged",
		slog.String("flag_id", f.ID.String()),
		slog.String("reason", in.Reason),
	)
	return f, nil
}

// Resolve closes a flag exactly once; a second resolution fails with
// ErrAlreadyResolved. The resolution is audited.
func (s *Service) Resolve(ctx context.Context, flagID uuid.UUID, notes *string) (*domain.ComplianceFlag, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	var resolved *domain.ComplianceFlag
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		f, err := s.flags.Resolve(ctx, flagID, actor.ID, notes)
		if err != nil {
			return err
		}
		resolved = f

		details := map[string]any{"flag_id": flagID.String()}
		if notes != nil {
			details["notes"] = *notes
		}
		return s.recordAudit(ctx, actor.ID, domain.ActionResolveFlag, f.ContentType, f.ContentID, details)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "flag resolved",
		slog.String("flag_id", flagID.String()),
		slog.String("admin_id", actor.ID.String()),
	)
	return resolved, nil
}

// ListFlags returns flags matching the filter, admin only.
func (s *Service) ListFlags(ctx context.Context, filter flag.Filter) ([]domain.ComplianceFlag, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.flags.List(ctx, filter)
}

// OpenFlagCount returns the number of unresolved flags, admin only.
func (s *Service) OpenFlagCount(ctx context.Context) (int, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return 0, err
	}
	return s.flags.CountUnresolved(ctx)
}
