package question

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// ClaimForReview assigns a humanized question to the calling expert. The
// claim is one conditional update: when another expert got there first the
// caller receives ErrAlreadyAssigned and nothing changes. Experts at their
// configured claim capacity are turned away before the claim is attempted.
func (s *Service) ClaimForReview(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if actor.Role != domain.UserRoleExpert {
		return nil, domain.ErrForbidden
	}

	held, err := s.questions.CountInReviewByExpert(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}
	if capacity := s.expertCapacity(ctx); held >= capacity {
		return nil, domain.NewValidationError("capacity", fmt.Sprintf("expert already holds %d questions", held))
	}

	q, err := s.questions.Claim(ctx, questionID, actor.ID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "question claimed for review",
		slog.String("question_id", q.ID.String()),
		slog.String("expert_id", actor.ID.String()),
	)
	return q, nil
}

// ReviewQueue lists humanized questions waiting for an expert claim.
func (s *Service) ReviewQueue(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if actor.Role != domain.UserRoleExpert && !actor.Role.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.questions.ListByStatus(ctx, domain.QuestionStatusHumanized, clampLimit(limit), offset)
}
