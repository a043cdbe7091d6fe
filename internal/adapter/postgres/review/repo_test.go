package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/askwell/askwell-backend/internal/domain"
)

var reviewCols = []string{
	"id", "answer_id", "expert_id", "approved", "rejection_reason",
	"corrections", "time_spent_seconds", "created_at",
}

var ratingCols = []string{"id", "question_id", "client_id", "score", "comment", "created_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestRepo_CreateReview(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	id := uuid.New()
	answerID := uuid.New()
	expertID := uuid.New()
	reason := "factual error in step 2"

	rows := pgxmock.NewRows(reviewCols).
		AddRow(id, answerID, expertID, false, &reason, nil, int64(420), time.Now())
	mock.ExpectQuery(`INSERT INTO expert_reviews`).
		WithArgs(id, answerID, expertID, false, &reason, (*string)(nil), int64(420)).
		WillReturnRows(rows)

	rev, err := repo.CreateReview(context.Background(), domain.ExpertReview{
		ID: id, AnswerID: answerID, ExpertID: expertID,
		Approved: false, RejectionReason: &reason, TimeSpent: 7 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev.TimeSpent != 7*time.Minute {
		t.Errorf("time_spent: got %v, want 7m", rev.TimeSpent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_HasApproved(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	answerID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(answerID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasApproved(context.Background(), answerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected approval to be reported")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_CreateRating_Duplicate(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	id := uuid.New()
	questionID := uuid.New()
	clientID := uuid.New()

	mock.ExpectQuery(`INSERT INTO ratings`).
		WithArgs(id, questionID, clientID, 5, (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.CreateRating(context.Background(), domain.Rating{
		ID: id, QuestionID: questionID, ClientID: clientID, Score: 5,
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_GetRating(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	questionID := uuid.New()
	comment := "great answer"

	rows := pgxmock.NewRows(ratingCols).
		AddRow(uuid.New(), questionID, uuid.New(), 4, &comment, time.Now())
	mock.ExpectQuery(`SELECT(.|\n)+FROM ratings`).
		WithArgs(questionID).
		WillReturnRows(rows)

	rt, err := repo.GetRating(context.Background(), questionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.Score != 4 {
		t.Errorf("score: got %d, want 4", rt.Score)
	}
	if rt.Comment == nil || *rt.Comment != comment {
		t.Errorf("comment: got %v, want %q", rt.Comment, comment)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
