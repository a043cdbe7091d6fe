// Package review implements the ExpertReview and Rating repositories.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/domain"
)

const reviewColumns = `
    id, answer_id, expert_id, approved, rejection_reason, corrections, time_spent_seconds, created_at`

const createReviewSQL = `
INSERT INTO expert_reviews (id, answer_id, expert_id, approved, rejection_reason, corrections, time_spent_seconds)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING` + reviewColumns

const listByAnswerSQL = `
SELECT` + reviewColumns + `
FROM expert_reviews
WHERE answer_id = $1
ORDER BY created_at`

const hasApprovedSQL = `
SELECT EXISTS (SELECT 1 FROM expert_reviews WHERE answer_id = $1 AND approved)`

const ratingColumns = `
    id, question_id, client_id, score, comment, created_at`

const createRatingSQL = `
INSERT INTO ratings (id, question_id, client_id, score, comment)
VALUES ($1, $2, $3, $4, $5)
RETURNING` + ratingColumns

const getRatingSQL = `
SELECT` + ratingColumns + `
FROM ratings
WHERE question_id = $1`

const avgScoreSQL = `
SELECT coalesce(avg(score), 0) FROM ratings`

// Repo provides review and rating persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new review repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// CreateReview records an expert's verdict on an answer.
func (r *Repo) CreateReview(ctx context.Context, rev domain.ExpertReview) (*domain.ExpertReview, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, createReviewSQL,
		rev.ID, rev.AnswerID, rev.ExpertID, rev.Approved,
		rev.RejectionReason, rev.Corrections, int64(rev.TimeSpent.Seconds()),
	)
	created, err := scanReview(row)
	if err != nil {
		return nil, postgres.MapError(err, "review", rev.ID)
	}
	return created, nil
}

// ListByAnswer returns every review recorded for an answer, oldest first.
// Rejected rounds keep their reviews, so an answer can carry several.
func (r *Repo) ListByAnswer(ctx context.Context, answerID uuid.UUID) ([]domain.ExpertReview, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByAnswerSQL, answerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.ExpertReview{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// HasApproved reports whether the answer has at least one approving review.
func (r *Repo) HasApproved(ctx context.Context, answerID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var approved bool
	if err := q.QueryRow(ctx, hasApprovedSQL, answerID).Scan(&approved); err != nil {
		return false, fmt.Errorf("check approval: %w", err)
	}
	return approved, nil
}

// CreateRating records the client's score. One rating per question; a second
// attempt trips the unique index and maps to ErrAlreadyExists.
func (r *Repo) CreateRating(ctx context.Context, rt domain.Rating) (*domain.Rating, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, createRatingSQL, rt.ID, rt.QuestionID, rt.ClientID, rt.Score, rt.Comment)
	created, err := scanRating(row)
	if err != nil {
		return nil, postgres.MapError(err, "rating", rt.ID)
	}
	return created, nil
}

// GetRating returns the rating attached to a question.
func (r *Repo) GetRating(ctx context.Context, questionID uuid.UUID) (*domain.Rating, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rt, err := scanRating(q.QueryRow(ctx, getRatingSQL, questionID))
	if err != nil {
		return nil, postgres.MapError(err, "rating", questionID)
	}
	return rt, nil
}

// AverageScore returns the mean rating across all questions.
func (r *Repo) AverageScore(ctx context.Context) (float64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var avg float64
	if err := q.QueryRow(ctx, avgScoreSQL).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average score: %w", err)
	}
	return avg, nil
}

func scanReview(row pgx.Row) (*domain.ExpertReview, error) {
	var rev domain.ExpertReview
	var seconds int64
	err := row.Scan(
		&rev.ID, &rev.AnswerID, &rev.ExpertID, &rev.Approved,
		&rev.RejectionReason, &rev.Corrections, &seconds, &rev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rev.TimeSpent = time.Duration(seconds) * time.Second
	return &rev, nil
}

func scanRating(row pgx.Row) (*domain.Rating, error) {
	var rt domain.Rating
	err := row.Scan(&rt.ID, &rt.QuestionID, &rt.ClientID, &rt.Score, &rt.Comment, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}
