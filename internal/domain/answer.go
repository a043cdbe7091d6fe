package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnswerStatus mirrors the review outcome of an answer.
type AnswerStatus string

const (
	AnswerStatusDraft     AnswerStatus = "draft"
	AnswerStatusHumanized AnswerStatus = "humanized"
	AnswerStatusApproved  AnswerStatus = "approved"
	AnswerStatusRejected  AnswerStatus = "rejected"
	AnswerStatusDelivered AnswerStatus = "delivered"
)

func (s AnswerStatus) String() string { return string(s) }

func (s AnswerStatus) IsValid() bool {
	switch s {
	case AnswerStatusDraft, AnswerStatusHumanized, AnswerStatusApproved,
		AnswerStatusRejected, AnswerStatusDelivered:
		return true
	}
	return false
}

// Answer belongs to exactly one question. Created when the AI pipeline
// produces a draft; mutated by expert review; immutable once delivered except
// through an audit-logged admin override.
type Answer struct {
	ID             uuid.UUID
	QuestionID     uuid.UUID
	AIDraft        string
	HumanizedDraft *string
	ExpertFinal    *string
	// ConfidenceScore is the pipeline's self-assessment in [0,1]. Below the
	// configured threshold, expert review is mandatory.
	ConfidenceScore float64
	Status          AnswerStatus
	// ConfidenceOverride marks an admin override of the confidence threshold
	// check. Always paired with an audit record.
	ConfidenceOverride bool
	// AICheckPassed and OriginalityPassed record pipeline quality gates.
	// Admin overrides can force them to true.
	AICheckPassed     bool
	OriginalityPassed bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
