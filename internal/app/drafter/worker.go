package drafter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/config"
	"github.com/askwell/askwell-backend/internal/domain"
)

// questionDrafts is the slice of the question service the worker drives.
type questionDrafts interface {
	ClaimNextForProcessing(ctx context.Context) (*domain.Question, error)
	AttachDraft(ctx context.Context, questionID uuid.UUID, aiDraft, humanized string, confidence float64) (*domain.Answer, error)
}

// llmClient produces the two pipeline stages for one question.
type llmClient interface {
	Draft(ctx context.Context, subject, text string) (draft string, confidence float64, err error)
	Humanize(ctx context.Context, draft string) (string, error)
}

// Worker polls for submitted questions and runs each through the draft and
// humanize stages. One question at a time; the claim is an atomic status
// transition so multiple workers never draft the same question.
type Worker struct {
	questions    questionDrafts
	llm          llmClient
	pollInterval time.Duration
	draftTimeout time.Duration
	log          *slog.Logger
}

// New creates a drafting Worker.
func New(log *slog.Logger, questions questionDrafts, llm llmClient, cfg config.DrafterConfig) *Worker {
	return &Worker{
		questions:    questions,
		llm:          llm,
		pollInterval: cfg.PollInterval,
		draftTimeout: cfg.DraftTimeout,
		log:          log.With("worker", "drafter"),
	}
}

// Run drives the poll loop until ctx is cancelled. An empty queue waits one
// poll interval; a drafting failure is logged and the loop continues, leaving
// the question in processing for admin escalation.
func (w *Worker) Run(ctx context.Context) error {
	w.log.InfoContext(ctx, "drafter started",
		slog.Duration("poll_interval", w.pollInterval),
	)

	for {
		if err := ctx.Err(); err != nil {
			w.log.InfoContext(ctx, "drafter stopping")
			return nil
		}

		processed, err := w.ProcessOne(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			w.log.InfoContext(ctx, "drafter stopping")
			return nil
		case err != nil:
			w.log.ErrorContext(ctx, "drafting failed", slog.String("error", err.Error()))
		}

		if processed && err == nil {
			continue // Drain the queue before sleeping.
		}

		select {
		case <-ctx.Done():
			w.log.InfoContext(ctx, "drafter stopping")
			return nil
		case <-time.After(w.pollInterval):
		}
	}
}

// ProcessOne claims and drafts a single question. Returns false when the
// queue is empty.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	q, err := w.questions.ClaimNextForProcessing(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log := w.log.With(slog.String("question_id", q.ID.String()))
	log.InfoContext(ctx, "question claimed for drafting")

	draftCtx, cancel := context.WithTimeout(ctx, w.draftTimeout)
	defer cancel()

	draft, confidence, err := w.llm.Draft(draftCtx, q.Subject, q.Text)
	if err != nil {
		return true, err
	}

	humanized, err := w.llm.Humanize(draftCtx, draft)
	if err != nil {
		return true, err
	}

	if _, err := w.questions.AttachDraft(ctx, q.ID, draft, humanized, confidence); err != nil {
		return true, err
	}

	log.InfoContext(ctx, "draft attached", slog.Float64("confidence", confidence))
	return true, nil
}
