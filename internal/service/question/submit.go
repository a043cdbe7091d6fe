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

// Submit creates a question and charges the client's ledger up front, both
// in one database transaction. A balance too small for the question price
// leaves no question behind.
func (s *Service) Submit(ctx context.Context, subject, text string) (*domain.Question, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validateSubmission(subject, text); err != nil {
		return nil, err
	}

	price := s.ledger.QuestionPrice(ctx)
	questionID := uuid.New()

	var created *domain.Question
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		q, err := s.questions.Create(ctx, domain.Question{
			ID:        questionID,
			ClientID:  actor.ID,
			Subject:   strings.TrimSpace(subject),
			Text:      strings.TrimSpace(text),
			Status:    domain.QuestionStatusSubmitted,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		created = q

		if _, err := s.ledger.Charge(ctx, actor.ID, price, "question submission", &questionID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, domain.Event{
		Type:       domain.EventQuestionSubmitted,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"question_id": created.ID.String(),
			"client_id":   actor.ID.String(),
		},
	})

	s.log.InfoContext(ctx, "question submitted",
		slog.String("question_id", created.ID.String()),
		slog.String("client_id", actor.ID.String()),
		slog.Int64("price", price),
	)
	return created, nil
}
