package question

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// ForceDeliver pushes a pre-delivered question straight to delivered by
// administrative decision. The status move and the audit entry are one
// transaction. If an approving review already exists the expert is still
// paid; otherwise no earning is granted.
func (s *Service) ForceDeliver(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok || !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("force deliver: %w", domain.ErrMissingReason)
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !q.Status.IsPreDelivered() {
		return nil, fmt.Errorf("question %s in status %s: %w", q.ID, q.Status, domain.ErrInvalidTransition)
	}

	var delivered *domain.Question
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		moved, err := s.questions.MarkDelivered(ctx, questionID, q.Status)
		if err != nil {
			return err
		}
		delivered = moved

		if err := s.payIfApproved(ctx, moved); err != nil {
			return err
		}

		return s.recordAudit(ctx, actor.ID, domain.ActionForceDeliver, domain.ContentTypeQuestion, questionID, map[string]any{
			"reason":      reason,
			"from_status": q.Status.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, domain.Event{
		Type:       domain.EventQuestionDelivered,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"question_id": q.ID.String(),
			"client_id":   q.ClientID.String(),
			"forced":      true,
		},
	})

	s.log.InfoContext(ctx, "question force delivered",
		slog.String("question_id", questionID.String()),
		slog.String("admin_id", actor.ID.String()),
		slog.String("from_status", q.Status.String()),
	)
	return delivered, nil
}

// payIfApproved grants the expert earning when an approving review exists.
func (s *Service) payIfApproved(ctx context.Context, q *domain.Question) error {
	if q.ExpertID == nil {
		return nil
	}
	answer, err := s.answers.GetByQuestionID(ctx, q.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil // no answer yet, nothing to pay
	}
	if err != nil {
		return fmt.Errorf("get answer: %w", err)
	}
	approved, err := s.reviews.HasApproved(ctx, answer.ID)
	if err != nil {
		return fmt.Errorf("check approval: %w", err)
	}
	if !approved {
		return nil
	}
	questionID := q.ID
	_, err = s.ledger.GrantEarning(ctx, *q.ExpertID, s.ledger.ExpertEarning(ctx), "review approved", &questionID)
	return err
}

// Escalate parks a question for admin attention, remembering the status it
// came from. Reason is mandatory and lands in the audit trail.
func (s *Service) Escalate(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok || !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("escalate: %w", domain.ErrMissingReason)
	}

	var escalated *domain.Question
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		q, err := s.questions.Escalate(ctx, questionID)
		if err != nil {
			return err
		}
		escalated = q

		return s.recordAudit(ctx, actor.ID, domain.ActionEscalate, domain.ContentTypeQuestion, questionID, map[string]any{
			"reason":      reason,
			"from_status": q.EscalatedFrom.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, domain.Event{
		Type:       domain.EventQuestionEscalated,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"question_id": questionID.String(),
			"reason":      reason,
		},
	})

	s.log.InfoContext(ctx, "question escalated",
		slog.String("question_id", questionID.String()),
		slog.String("admin_id", actor.ID.String()),
	)
	return escalated, nil
}

// ResolveEscalation releases an escalated question back to the status it
// was escalated from, or forces it straight to delivered.
func (s *Service) ResolveEscalation(ctx context.Context, questionID uuid.UUID, deliver bool, reason string) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok || !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("resolve escalation: %w", domain.ErrMissingReason)
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.Status != domain.QuestionStatusEscalated {
		return nil, fmt.Errorf("question %s in status %s: %w", q.ID, q.Status, domain.ErrInvalidTransition)
	}

	target := domain.QuestionStatusDelivered
	if !deliver {
		if q.EscalatedFrom == nil {
			return nil, fmt.Errorf("question %s has no escalation origin: %w", q.ID, domain.ErrInvalidTransition)
		}
		target = *q.EscalatedFrom
	}

	var resolved *domain.Question
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		moved, err := s.questions.ResolveEscalation(ctx, questionID, target)
		if err != nil {
			return err
		}
		resolved = moved

		if deliver {
			if err := s.payIfApproved(ctx, moved); err != nil {
				return err
			}
		}

		return s.recordAudit(ctx, actor.ID, domain.ActionResolveEscalation, domain.ContentTypeQuestion, questionID, map[string]any{
			"reason":    reason,
			"to_status": target.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "escalation resolved",
		slog.String("question_id", questionID.String()),
		slog.String("admin_id", actor.ID.String()),
		slog.String("to_status", target.String()),
	)
	return resolved, nil
}
