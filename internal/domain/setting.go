package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known system setting keys.
const (
	// SettingConfidenceThreshold is the minimum confidence score below which
	// expert review cannot be bypassed. Float in [0,1], stored as text.
	SettingConfidenceThreshold = "confidence_threshold"
	// SettingQuestionPrice is the credit price charged at submission.
	SettingQuestionPrice = "question_price_credits"
	// SettingExpertEarning is the credit amount granted per approved review.
	SettingExpertEarning = "expert_earning_credits"
	// SettingExpertCapacity is the max simultaneous reviews per expert.
	SettingExpertCapacity = "expert_review_capacity"
)

// SystemSetting is one admin-managed configuration value. Updates are
// audit-logged.
type SystemSetting struct {
	Key       string
	Value     string
	UpdatedBy *uuid.UUID
	UpdatedAt time.Time
}
