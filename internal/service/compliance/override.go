package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// Overrides are the only legal way around the normal transition table.
// Each one pairs its state-machine side effect with an audit entry inside
// one transaction.

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("override: %w", domain.ErrMissingReason)
	}
	return nil
}

// SkipHumanization forces a question from processing straight into review,
// without a humanized draft.
func (s *Service) SkipHumanization(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	var moved *domain.Question
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		q, err := s.questions.UpdateStatus(ctx, questionID,
			domain.QuestionStatusProcessing, domain.QuestionStatusReview)
		if err != nil {
			return err
		}
		moved = q

		return s.recordAudit(ctx, actor.ID, domain.ActionSkipHumanization, domain.ContentTypeQuestion, questionID, map[string]any{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logOverride(ctx, actor, "humanization skipped", "question_id", questionID)
	return moved, nil
}

// OverrideConfidence clears an answer for delivery despite a confidence
// score below the threshold.
func (s *Service) OverrideConfidence(ctx context.Context, answerID uuid.UUID, reason string) (*domain.Answer, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	var overridden *domain.Answer
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.answers.SetConfidenceOverride(ctx, answerID)
		if err != nil {
			return err
		}
		overridden = a

		return s.recordAudit(ctx, actor.ID, domain.ActionOverrideConfidence, domain.ContentTypeAnswer, answerID, map[string]any{
			"reason":           reason,
			"confidence_score": a.ConfidenceScore,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logOverride(ctx, actor, "confidence overridden", "answer_id", answerID)
	return overridden, nil
}

// BypassExpertReview delivers a question in review without expert approval.
// Only legal when the answer's confidence clears the threshold or carries a
// confidence override; below-threshold answers must see an expert.
func (s *Service) BypassExpertReview(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	answer, err := s.answers.GetByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	threshold := s.confidenceThreshold(ctx)
	if answer.ConfidenceScore < threshold && !answer.ConfidenceOverride {
		return nil, fmt.Errorf("confidence %.2f below threshold %.2f and no override: %w",
			answer.ConfidenceScore, threshold, domain.ErrInvalidTransition)
	}

	var delivered *domain.Question
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		q, err := s.questions.MarkDelivered(ctx, questionID, domain.QuestionStatusReview)
		if err != nil {
			return err
		}
		delivered = q

		if _, err := s.answers.MarkDelivered(ctx, answer.ID); err != nil {
			return fmt.Errorf("deliver answer: %w", err)
		}

		return s.recordAudit(ctx, actor.ID, domain.ActionBypassExpertReview, domain.ContentTypeQuestion, questionID, map[string]any{
			"reason":           reason,
			"confidence_score": answer.ConfidenceScore,
			"threshold":        threshold,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logOverride(ctx, actor, "expert review bypassed", "question_id", questionID)
	return delivered, nil
}

// BypassAIDetection forces the AI detection gate to passed.
func (s *Service) BypassAIDetection(ctx context.Context, answerID uuid.UUID, reason string) (*domain.Answer, error) {
	return s.answerGateOverride(ctx, answerID, reason, domain.ActionBypassAIDetection, s.answers.SetAICheckPassed)
}

// PassOriginality forces the originality gate to passed.
func (s *Service) PassOriginality(ctx context.Context, answerID uuid.UUID, reason string) (*domain.Answer, error) {
	return s.answerGateOverride(ctx, answerID, reason, domain.ActionPassOriginality, s.answers.SetOriginalityPassed)
}

// answerGateOverride is the shared shape of the two quality-gate overrides.
func (s *Service) answerGateOverride(ctx context.Context, answerID uuid.UUID, reason string, action domain.ActionType, set func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)) (*domain.Answer, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	var overridden *domain.Answer
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := set(ctx, answerID)
		if err != nil {
			return err
		}
		overridden = a

		return s.recordAudit(ctx, actor.ID, action, domain.ContentTypeAnswer, answerID, map[string]any{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logOverride(ctx, actor, string(action), "answer_id", answerID)
	return overridden, nil
}

func (s *Service) logOverride(ctx context.Context, actor ctxutil.Actor, msg, idKey string, id uuid.UUID) {
	s.log.InfoContext(ctx, msg,
		slog.String("admin_id", actor.ID.String()),
		slog.String(idKey, id.String()),
	)
}
