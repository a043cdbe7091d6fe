// Package question implements the Question repository using PostgreSQL.
// Status moves are conditional updates guarded by the expected source
// status, so a concurrent writer loses cleanly instead of clobbering.
package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const questionColumns = `
    id, client_id, expert_id, subject, text, status, escalated_from, created_at, updated_at, delivered_at`

const createSQL = `
INSERT INTO questions (id, client_id, subject, text, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING` + questionColumns

const getByIDSQL = `
SELECT` + questionColumns + `
FROM questions
WHERE id = $1`

const updateStatusSQL = `
UPDATE questions
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING` + questionColumns

const claimSQL = `
UPDATE questions
SET expert_id = $2, status = 'review', updated_at = now()
WHERE id = $1 AND status = 'humanized' AND expert_id IS NULL
RETURNING` + questionColumns

const releaseSQL = `
UPDATE questions
SET expert_id = NULL, status = 'humanized', updated_at = now()
WHERE id = $1 AND expert_id = $2 AND status = 'review'
RETURNING` + questionColumns

// Rejection clears the claim so a fresh expert can pick up the next round.
const sendBackSQL = `
UPDATE questions
SET status = 'needs_revision', expert_id = NULL, updated_at = now()
WHERE id = $1 AND status = 'review' AND expert_id = $2
RETURNING` + questionColumns

const escalateSQL = `
UPDATE questions
SET escalated_from = status, status = 'escalated', updated_at = now()
WHERE id = $1 AND status <> 'escalated' AND delivered_at IS NULL
RETURNING` + questionColumns

const resolveEscalationSQL = `
UPDATE questions
SET status = $2, escalated_from = NULL, updated_at = now(),
    delivered_at = CASE WHEN $2 = 'delivered' THEN now() ELSE delivered_at END
WHERE id = $1 AND status = 'escalated'
RETURNING` + questionColumns

const markDeliveredSQL = `
UPDATE questions
SET status = 'delivered', delivered_at = now(), updated_at = now()
WHERE id = $1 AND status = $2
RETURNING` + questionColumns

const markRatedSQL = `
UPDATE questions
SET status = 'rated', updated_at = now()
WHERE id = $1 AND status = 'delivered'
RETURNING` + questionColumns

// Claims the oldest question waiting for an AI draft. SKIP LOCKED keeps
// concurrent drafter workers off each other's rows.
const claimNextForProcessingSQL = `
UPDATE questions
SET status = 'processing', updated_at = now()
WHERE id = (
    SELECT id
    FROM questions
    WHERE status IN ('submitted', 'needs_revision')
    ORDER BY updated_at
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING` + questionColumns

const listByStatusSQL = `
SELECT` + questionColumns + `
FROM questions
WHERE status = $1
ORDER BY updated_at
LIMIT $2 OFFSET $3`

const listByClientSQL = `
SELECT` + questionColumns + `
FROM questions
WHERE client_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

const countByExpertInReviewSQL = `
SELECT count(*) FROM questions WHERE expert_id = $1 AND status = 'review'`

const countByStatusSQL = `
SELECT status, count(*) FROM questions GROUP BY status`

// Repo provides question persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new question repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a question in its initial status and returns the row.
func (r *Repo) Create(ctx context.Context, q domain.Question) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, createSQL, q.ID, q.ClientID, q.Subject, q.Text, q.Status.String())
	created, err := scanQuestion(row)
	if err != nil {
		return nil, postgres.MapError(err, "question", q.ID)
	}
	return created, nil
}

// GetByID returns a question by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "question", id)
	}
	return q, nil
}

// UpdateStatus moves a question from an expected status to the next one.
// When the row is no longer in the expected status the update matches
// nothing and ErrInvalidTransition is returned.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.QuestionStatus) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, updateStatusSQL, id, from.String(), to.String()))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// Claim assigns a reviewing expert. The guard only matches an unassigned
// question in humanized status; a question already taken by another expert
// yields ErrAlreadyAssigned.
func (r *Repo) Claim(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, claimSQL, id, expertID))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrAlreadyAssigned)
	}
	return q, nil
}

// Release puts a claimed question back in the review pool. Only the expert
// holding the claim may release it.
func (r *Repo) Release(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, releaseSQL, id, expertID))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// SendBack rejects a question out of review into needs_revision and drops
// the expert claim. Only the claiming expert may send it back.
func (r *Repo) SendBack(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, sendBackSQL, id, expertID))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// Escalate parks a pre-delivery question in escalated status, remembering
// where it came from so it can later resume.
func (r *Repo) Escalate(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, escalateSQL, id))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// ResolveEscalation moves an escalated question to the given status and
// clears the stored origin.
func (r *Repo) ResolveEscalation(ctx context.Context, id uuid.UUID, to domain.QuestionStatus) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, resolveEscalationSQL, id, to.String()))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// MarkDelivered stamps delivered_at and moves the question to delivered.
// The expected source status is passed in because both the review flow and
// an admin force-delivery end here from different statuses.
func (r *Repo) MarkDelivered(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, markDeliveredSQL, id, from.String()))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// MarkRated moves a delivered question to its terminal rated status.
func (r *Repo) MarkRated(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, markRatedSQL, id))
	if err != nil {
		return nil, r.mapConditionalErr(ctx, err, id, domain.ErrInvalidTransition)
	}
	return q, nil
}

// ClaimNextForProcessing atomically picks the oldest question waiting for a
// draft and moves it to processing. Returns ErrNotFound when the queue is
// empty.
func (r *Repo) ClaimNextForProcessing(ctx context.Context) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	q, err := scanQuestion(querier.QueryRow(ctx, claimNextForProcessingSQL))
	if err != nil {
		return nil, postgres.MapError(err, "question", uuid.Nil)
	}
	return q, nil
}

// ListByStatus returns a page of questions in the given status, oldest
// activity first so queues drain in order.
func (r *Repo) ListByStatus(ctx context.Context, status domain.QuestionStatus, limit, offset int) ([]domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listByStatusSQL, status.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list questions by status: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// ListByClient returns a page of the client's questions, newest first.
func (r *Repo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listByClientSQL, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list questions by client: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// CountInReviewByExpert returns how many questions the expert currently
// holds in review.
func (r *Repo) CountInReviewByExpert(ctx context.Context, expertID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	var total int
	if err := querier.QueryRow(ctx, countByExpertInReviewSQL, expertID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count questions in review: %w", err)
	}
	return total, nil
}

// CountByStatus returns the number of questions per status.
func (r *Repo) CountByStatus(ctx context.Context) (map[domain.QuestionStatus]int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, countByStatusSQL)
	if err != nil {
		return nil, fmt.Errorf("count questions by status: %w", err)
	}
	defer rows.Close()

	counts := map[domain.QuestionStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[domain.QuestionStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

// mapConditionalErr resolves a no-row result on a guarded update: a missing
// question maps to ErrNotFound, an existing one failed the guard.
func (r *Repo) mapConditionalErr(ctx context.Context, err error, id uuid.UUID, guardErr error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return postgres.MapError(err, "question", id)
	}

	querier := postgres.QuerierFromCtx(ctx, r.db)
	current, scanErr := scanQuestion(querier.QueryRow(ctx, getByIDSQL, id))
	if scanErr != nil {
		return postgres.MapError(scanErr, "question", id)
	}
	return fmt.Errorf("question %s in status %s: %w", id, current.Status, guardErr)
}

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	var status string
	var escalatedFrom *string
	err := row.Scan(
		&q.ID, &q.ClientID, &q.ExpertID, &q.Subject, &q.Text, &status,
		&escalatedFrom, &q.CreatedAt, &q.UpdatedAt, &q.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	q.Status = domain.QuestionStatus(status)
	if escalatedFrom != nil {
		from := domain.QuestionStatus(*escalatedFrom)
		q.EscalatedFrom = &from
	}
	return &q, nil
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	questions := []domain.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
