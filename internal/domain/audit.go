package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionType names an admin-attributable mutation in the audit trail.
type ActionType string

const (
	ActionGrantCredits       ActionType = "grant_credits"
	ActionRevokeCredits      ActionType = "revoke_credits"
	ActionSetRole            ActionType = "set_role"
	ActionBanAccount         ActionType = "ban_account"
	ActionUnbanAccount       ActionType = "unban_account"
	ActionForceDeliver       ActionType = "force_deliver"
	ActionEscalate           ActionType = "escalate"
	ActionResolveEscalation  ActionType = "resolve_escalation"
	ActionFlagContent        ActionType = "flag_content"
	ActionResolveFlag        ActionType = "resolve_flag"
	ActionOverrideConfidence ActionType = "override_confidence"
	ActionSkipHumanization   ActionType = "skip_humanization"
	ActionBypassExpertReview ActionType = "bypass_expert_review"
	ActionBypassAIDetection  ActionType = "bypass_ai_detection"
	ActionPassOriginality    ActionType = "pass_originality"
	ActionUpdateSetting      ActionType = "update_setting"
	ActionMarkPayable        ActionType = "mark_payable"
	ActionMarkPaid           ActionType = "mark_paid"
)

func (a ActionType) String() string { return string(a) }

func (a ActionType) IsValid() bool {
	switch a {
	case ActionGrantCredits, ActionRevokeCredits, ActionSetRole, ActionBanAccount,
		ActionUnbanAccount, ActionForceDeliver, ActionEscalate, ActionResolveEscalation,
		ActionFlagContent, ActionResolveFlag, ActionOverrideConfidence,
		ActionSkipHumanization, ActionBypassExpertReview, ActionBypassAIDetection,
		ActionPassOriginality, ActionUpdateSetting, ActionMarkPayable, ActionMarkPaid:
		return true
	}
	return false
}

// AdminAction is one append-only audit trail entry. Every admin-attributable
// mutation produces exactly one entry in the same database transaction as the
// mutation itself; an entry is never mutated or deleted.
type AdminAction struct {
	ID      uuid.UUID
	AdminID uuid.UUID
	Action  ActionType
	// TargetType and TargetID identify the mutated entity when one exists.
	TargetType *ContentType
	TargetID   *uuid.UUID
	// Details is a schema-less payload. Every recording site documents the
	// keys it writes; readers must not pattern-match on arbitrary keys.
	Details   map[string]any
	IP        *string
	UserAgent *string
	CreatedAt time.Time
}

// AdminActionFilter narrows audit trail queries.
type AdminActionFilter struct {
	AdminID    *uuid.UUID
	Action     *ActionType
	TargetType *ContentType
	TargetID   *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
