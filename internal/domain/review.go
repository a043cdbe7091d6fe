package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpertReview records one review decision. Created exactly once per review
// submission; append-only.
type ExpertReview struct {
	ID       uuid.UUID
	AnswerID uuid.UUID
	ExpertID uuid.UUID
	Approved bool
	// RejectionReason is required when Approved is false.
	RejectionReason *string
	Corrections     *string
	TimeSpent       time.Duration
	CreatedAt       time.Time
}

// Rating is the client's score on a delivered question.
// Created once per question, immutable.
type Rating struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	ClientID   uuid.UUID
	Score      int // 1..5
	Comment    *string
	CreatedAt  time.Time
}
