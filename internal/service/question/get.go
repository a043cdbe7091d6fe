package question

import (
	"context"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// Get returns a question visible to the caller: the owning client, the
// claiming expert, or any admin.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, q) {
		return nil, domain.ErrForbidden
	}
	return q, nil
}

// GetAnswer returns the question's answer with the same visibility rule.
// Clients only see the answer once the question is delivered or rated.
func (s *Service) GetAnswer(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, q) {
		return nil, domain.ErrForbidden
	}
	if actor.ID == q.ClientID && !actor.Role.IsAdmin() {
		if q.Status != domain.QuestionStatusDelivered && q.Status != domain.QuestionStatusRated {
			return nil, domain.ErrNotFound
		}
	}
	return s.answers.GetByQuestionID(ctx, questionID)
}

// ListMine returns the calling client's questions, newest first.
func (s *Service) ListMine(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.questions.ListByClient(ctx, actor.ID, clampLimit(limit), offset)
}

// ListByStatus returns questions in a status, admin only.
func (s *Service) ListByStatus(ctx context.Context, status domain.QuestionStatus, limit, offset int) ([]domain.Question, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}
	return s.questions.ListByStatus(ctx, status, clampLimit(limit), offset)
}

func canSee(actor ctxutil.Actor, q *domain.Question) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	if actor.ID == q.ClientID {
		return true
	}
	return q.ExpertID != nil && *q.ExpertID == actor.ID
}
