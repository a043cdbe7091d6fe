package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionStatus is the lifecycle state of a question.
type QuestionStatus string

const (
	QuestionStatusSubmitted     QuestionStatus = "submitted"
	QuestionStatusProcessing    QuestionStatus = "processing"
	QuestionStatusHumanized     QuestionStatus = "humanized"
	QuestionStatusReview        QuestionStatus = "review"
	QuestionStatusDelivered     QuestionStatus = "delivered"
	QuestionStatusRated         QuestionStatus = "rated"
	QuestionStatusNeedsRevision QuestionStatus = "needs_revision"
	QuestionStatusEscalated     QuestionStatus = "escalated"
)

func (s QuestionStatus) String() string { return string(s) }

func (s QuestionStatus) IsValid() bool {
	switch s {
	case QuestionStatusSubmitted, QuestionStatusProcessing, QuestionStatusHumanized,
		QuestionStatusReview, QuestionStatusDelivered, QuestionStatusRated,
		QuestionStatusNeedsRevision, QuestionStatusEscalated:
		return true
	}
	return false
}

// IsPreDelivered reports whether the status precedes delivery. Admin
// force-deliver is only legal from these states.
func (s QuestionStatus) IsPreDelivered() bool {
	switch s {
	case QuestionStatusSubmitted, QuestionStatusProcessing, QuestionStatusHumanized,
		QuestionStatusReview, QuestionStatusNeedsRevision, QuestionStatusEscalated:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions exist.
func (s QuestionStatus) IsTerminal() bool {
	return s == QuestionStatusRated
}

// questionTransitions is the legal transition table for the normal
// (non-override) path. Escalation entry and exit are admin-only and handled
// separately; admin overrides are the only other legal way around this table.
var questionTransitions = map[QuestionStatus][]QuestionStatus{
	QuestionStatusSubmitted:     {QuestionStatusProcessing},
	QuestionStatusProcessing:    {QuestionStatusHumanized},
	QuestionStatusHumanized:     {QuestionStatusReview},
	QuestionStatusReview:        {QuestionStatusDelivered, QuestionStatusNeedsRevision},
	QuestionStatusNeedsRevision: {QuestionStatusProcessing},
	QuestionStatusDelivered:     {QuestionStatusRated},
}

// CanTransition reports whether from -> to is allowed on the normal path.
func CanTransition(from, to QuestionStatus) bool {
	for _, next := range questionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Question is a client-submitted question moving through the AI and expert
// review pipeline. Questions are never deleted; terminal states are retained
// for audit.
type Question struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	// ExpertID is set by a single atomic claim; two experts can never hold
	// the same question.
	ExpertID *uuid.UUID
	Subject  string
	Text     string
	Status   QuestionStatus
	// EscalatedFrom remembers the status before admin escalation so that
	// resolution can restore it.
	EscalatedFrom *QuestionStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeliveredAt   *time.Time
}
