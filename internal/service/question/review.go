package question

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// SubmitReviewInput carries the expert's verdict.
type SubmitReviewInput struct {
	QuestionID      uuid.UUID
	Approved        bool
	RejectionReason *string
	// Corrections replaces the humanized draft as the final text when set.
	Corrections *string
	TimeSpent   time.Duration
}

// Validate checks the verdict shape. A rejection without a reason is the
// classic defect this guards against.
func (in SubmitReviewInput) Validate() error {
	if !in.Approved {
		if in.RejectionReason == nil || strings.TrimSpace(*in.RejectionReason) == "" {
			return fmt.Errorf("rejection: %w", domain.ErrMissingReason)
		}
	}
	if in.TimeSpent < 0 {
		return domain.NewValidationError("time_spent", "must not be negative")
	}
	return nil
}

// SubmitReview records the claiming expert's verdict. Approval delivers the
// question and pays the expert; rejection sends it back to the pipeline and
// releases the claim. Review row, answer update, status move and earning
// are one database transaction.
func (s *Service) SubmitReview(ctx context.Context, in SubmitReviewInput) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	q, err := s.questions.GetByID(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.Status != domain.QuestionStatusReview {
		return nil, fmt.Errorf("question %s in status %s: %w", q.ID, q.Status, domain.ErrInvalidTransition)
	}
	if q.ExpertID == nil || *q.ExpertID != actor.ID {
		return nil, domain.ErrForbidden
	}

	answer, err := s.answers.GetByQuestionID(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Question
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.reviews.CreateReview(ctx, domain.ExpertReview{
			ID:              uuid.New(),
			AnswerID:        answer.ID,
			ExpertID:        actor.ID,
			Approved:        in.Approved,
			RejectionReason: in.RejectionReason,
			Corrections:     in.Corrections,
			TimeSpent:       in.TimeSpent,
			CreatedAt:       time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		if in.Approved {
			return s.deliverApproved(ctx, q, answer, in.Corrections, &updated)
		}
		return s.sendBackRejected(ctx, q, answer, actor.ID, &updated)
	})
	if err != nil {
		return nil, err
	}

	if in.Approved {
		s.events.Emit(ctx, domain.Event{
			Type:       domain.EventQuestionDelivered,
			OccurredAt: time.Now().UTC(),
			Payload: map[string]any{
				"question_id": q.ID.String(),
				"client_id":   q.ClientID.String(),
			},
		})
	}

	s.log.InfoContext(ctx, "review submitted",
		slog.String("question_id", q.ID.String()),
		slog.String("expert_id", actor.ID.String()),
		slog.Bool("approved", in.Approved),
	)
	return updated, nil
}

// deliverApproved finalizes the answer, delivers the question and credits
// the expert's earnings.
func (s *Service) deliverApproved(ctx context.Context, q *domain.Question, answer *domain.Answer, corrections *string, out **domain.Question) error {
	final := corrections
	if final == nil {
		final = answer.HumanizedDraft
	}
	if _, err := s.answers.ApplyReview(ctx, answer.ID, final, domain.AnswerStatusApproved); err != nil {
		return fmt.Errorf("apply review: %w", err)
	}
	if _, err := s.answers.MarkDelivered(ctx, answer.ID); err != nil {
		return fmt.Errorf("deliver answer: %w", err)
	}

	delivered, err := s.questions.MarkDelivered(ctx, q.ID, domain.QuestionStatusReview)
	if err != nil {
		return err
	}
	*out = delivered

	earning := s.ledger.ExpertEarning(ctx)
	questionID := q.ID
	if _, err := s.ledger.GrantEarning(ctx, *q.ExpertID, earning, "review approved", &questionID); err != nil {
		return err
	}
	return nil
}

// sendBackRejected marks the answer rejected and returns the question to
// the pipeline with the claim released.
func (s *Service) sendBackRejected(ctx context.Context, q *domain.Question, answer *domain.Answer, expertID uuid.UUID, out **domain.Question) error {
	if _, err := s.answers.ApplyReview(ctx, answer.ID, nil, domain.AnswerStatusRejected); err != nil {
		return fmt.Errorf("apply review: %w", err)
	}
	sentBack, err := s.questions.SendBack(ctx, q.ID, expertID)
	if err != nil {
		return err
	}
	// needs_revision drains back into processing through the drafter queue.
	*out = sentBack
	return nil
}

// Rate records the client's score on a delivered question and closes it.
// One rating per question; a second attempt fails with ErrAlreadyExists.
func (s *Service) Rate(ctx context.Context, questionID uuid.UUID, score int, comment *string) (*domain.Rating, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if score < 1 || score > 5 {
		return nil, domain.NewValidationError("score", "must be between 1 and 5")
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.ClientID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if q.Status != domain.QuestionStatusDelivered {
		return nil, fmt.Errorf("question %s in status %s: %w", q.ID, q.Status, domain.ErrInvalidTransition)
	}

	var rating *domain.Rating
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		rt, err := s.reviews.CreateRating(ctx, domain.Rating{
			ID:         uuid.New(),
			QuestionID: questionID,
			ClientID:   actor.ID,
			Score:      score,
			Comment:    comment,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		rating = rt

		if _, err := s.questions.MarkRated(ctx, questionID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "question rated",
		slog.String("question_id", questionID.String()),
		slog.Int("score", score),
	)
	return rating, nil
}
