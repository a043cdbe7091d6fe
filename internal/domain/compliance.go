package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentType identifies the kind of entity a compliance flag targets.
type ContentType string

const (
	ContentTypeQuestion ContentType = "question"
	ContentTypeAnswer   ContentType = "answer"
	ContentTypeAccount  ContentType = "account"
)

func (c ContentType) String() string { return string(c) }

func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeQuestion, ContentTypeAnswer, ContentTypeAccount:
		return true
	}
	return false
}

// FlagSeverity grades a compliance flag.
type FlagSeverity string

const (
	FlagSeverityLow      FlagSeverity = "low"
	FlagSeverityMedium   FlagSeverity = "medium"
	FlagSeverityHigh     FlagSeverity = "high"
	FlagSeverityCritical FlagSeverity = "critical"
)

func (s FlagSeverity) String() string { return string(s) }

func (s FlagSeverity) IsValid() bool {
	switch s {
	case FlagSeverityLow, FlagSeverityMedium, FlagSeverityHigh, FlagSeverityCritical:
		return true
	}
	return false
}

// ComplianceFlag marks content or an account for compliance review.
// Flags are idempotent on (content type, content id, reason): repeated
// identical flags refresh details and timestamp instead of duplicating.
type ComplianceFlag struct {
	ID          uuid.UUID
	ContentType ContentType
	ContentID   uuid.UUID
	Reason      string
	Severity    FlagSeverity
	// Details is a schema-less payload from the detector or admin.
	// Known keys: "detector" (string), "score" (float64), "excerpt" (string).
	Details       map[string]any
	Resolved      bool
	ResolvedBy    *uuid.UUID
	ResolvedNotes *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
}
