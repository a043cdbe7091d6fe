// Package answer implements the Answer repository using PostgreSQL.
package answer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const answerColumns = `
    id, question_id, ai_draft, humanized_draft, expert_final, confidence_score, status,
    confidence_override, ai_check_passed, originality_passed, created_at, updated_at`

const createSQL = `
INSERT INTO answers (id, question_id, ai_draft, confidence_score, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING` + answerColumns

// A redraft after rejection reuses the row: gates and intermediate drafts
// reset so the new draft walks the full pipeline again.
const upsertDraftSQL = `
INSERT INTO answers (id, question_id, ai_draft, confidence_score, status)
VALUES ($1, $2, $3, $4, 'draft')
ON CONFLICT (question_id)
DO UPDATE SET ai_draft = EXCLUDED.ai_draft, confidence_score = EXCLUDED.confidence_score,
    humanized_draft = NULL, expert_final = NULL, status = 'draft',
    confidence_override = false, ai_check_passed = false, originality_passed = false,
    updated_at = now()
RETURNING` + answerColumns

const getByIDSQL = `
SELECT` + answerColumns + `
FROM answers
WHERE id = $1`

const getByQuestionIDSQL = `
SELECT` + answerColumns + `
FROM answers
WHERE question_id = $1
ORDER BY created_at DESC
LIMIT 1`

const setHumanizedSQL = `
UPDATE answers
SET humanized_draft = $2, status = 'humanized', updated_at = now()
WHERE id = $1
RETURNING` + answerColumns

const applyReviewSQL = `
UPDATE answers
SET expert_final = $2, status = $3, updated_at = now()
WHERE id = $1
RETURNING` + answerColumns

const markDeliveredSQL = `
UPDATE answers
SET status = 'delivered', updated_at = now()
WHERE id = $1
RETURNING` + answerColumns

const setConfidenceOverrideSQL = `
UPDATE answers
SET confidence_override = true, updated_at = now()
WHERE id = $1
RETURNING` + answerColumns

const setAICheckPassedSQL = `
UPDATE answers
SET ai_check_passed = true, updated_at = now()
WHERE id = $1
RETURNING` + answerColumns

const setOriginalityPassedSQL = `
UPDATE answers
SET originality_passed = true, updated_at = now()
WHERE id = $1
RETURNING` + answerColumns

// Repo provides answer persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new answer repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a new draft answer. At most one answer exists per question;
// a second insert trips the unique index and maps to ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, a domain.Answer) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, createSQL, a.ID, a.QuestionID, a.AIDraft, a.ConfidenceScore, a.Status.String())
	created, err := scanAnswer(row)
	if err != nil {
		return nil, postgres.MapError(err, "answer", a.ID)
	}
	return created, nil
}

// UpsertDraft writes a fresh AI draft for the question, replacing any
// previous round's draft and resetting its gates.
func (r *Repo) UpsertDraft(ctx context.Context, id, questionID uuid.UUID, aiDraft string, confidence float64) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, upsertDraftSQL, id, questionID, aiDraft, confidence))
	if err != nil {
		return nil, postgres.MapError(err, "answer", questionID)
	}
	return a, nil
}

// GetByID returns an answer by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

// GetByQuestionID returns the answer attached to a question.
func (r *Repo) GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, getByQuestionIDSQL, questionID))
	if err != nil {
		return nil, postgres.MapError(err, "answer", questionID)
	}
	return a, nil
}

// SetHumanized stores the humanized draft and advances the answer.
func (r *Repo) SetHumanized(ctx context.Context, id uuid.UUID, draft string) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, setHumanizedSQL, id, draft))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

// ApplyReview stores the expert's final text and resulting status. The final
// text is nil on rejection, where only the status moves.
func (r *Repo) ApplyReview(ctx context.Context, id uuid.UUID, final *string, status domain.AnswerStatus) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, applyReviewSQL, id, final, status.String()))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

// MarkDelivered moves the answer to its delivered status.
func (r *Repo) MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, markDeliveredSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

// SetConfidenceOverride marks the answer as manually cleared for delivery
// despite a low confidence score.
func (r *Repo) SetConfidenceOverride(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, setConfidenceOverrideSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

// SetAICheckPassed marks the AI detection gate as passed.
func (r *Repo) SetAICheckPassed(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, setAICheckPassedSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

// SetOriginalityPassed marks the originality gate as passed.
func (r *Repo) SetOriginalityPassed(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAnswer(q.QueryRow(ctx, setOriginalityPassedSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "answer", id)
	}
	return a, nil
}

func scanAnswer(row pgx.Row) (*domain.Answer, error) {
	var a domain.Answer
	var status string
	err := row.Scan(
		&a.ID, &a.QuestionID, &a.AIDraft, &a.HumanizedDraft, &a.ExpertFinal,
		&a.ConfidenceScore, &status, &a.ConfidenceOverride, &a.AICheckPassed,
		&a.OriginalityPassed, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AnswerStatus(status)
	return &a, nil
}
