package question

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

// ClaimNextForProcessing atomically picks the oldest question waiting for a
// draft (fresh submissions and revision rounds alike) and moves it to
// processing. Returns ErrNotFound when the queue is empty.
func (s *Service) ClaimNextForProcessing(ctx context.Context) (*domain.Question, error) {
	return s.questions.ClaimNextForProcessing(ctx)
}

// AttachDraft stores the AI pipeline's draft for a question in processing.
// The answer row, the humanized text and the status move to humanized land
// in one transaction. Any other question status fails with
// ErrInvalidTransition and changes nothing.
func (s *Service) AttachDraft(ctx context.Context, questionID uuid.UUID, aiDraft, humanized string, confidence float64) (*domain.Answer, error) {
	if strings.TrimSpace(aiDraft) == "" {
		return nil, domain.NewValidationError("ai_draft", "is required")
	}
	if strings.TrimSpace(humanized) == "" {
		return nil, domain.NewValidationError("humanized", "is required")
	}
	if confidence < 0 || confidence > 1 {
		return nil, domain.NewValidationError("confidence_score", "must be in [0, 1]")
	}

	var attached *domain.Answer
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// The status guard runs first so a draft for a question outside
		// processing never touches the answers table.
		if _, err := s.questions.UpdateStatus(ctx, questionID,
			domain.QuestionStatusProcessing, domain.QuestionStatusHumanized); err != nil {
			return err
		}

		a, err := s.answers.UpsertDraft(ctx, uuid.New(), questionID, aiDraft, confidence)
		if err != nil {
			return fmt.Errorf("upsert draft: %w", err)
		}
		a, err = s.answers.SetHumanized(ctx, a.ID, humanized)
		if err != nil {
			return fmt.Errorf("set humanized: %w", err)
		}
		attached = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "draft attached",
		slog.String("question_id", questionID.String()),
		slog.Float64("confidence", confidence),
	)
	return attached, nil
}
