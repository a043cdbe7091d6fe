package domain

import "testing"

func TestUserRole_IsValid(t *testing.T) {
	t.Parallel()

	valid := []UserRole{UserRoleClient, UserRoleExpert, UserRoleAdminEditor, UserRoleSuperAdmin}
	for _, r := range valid {
		if !r.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", r)
		}
	}

	if UserRole("moderator").IsValid() {
		t.Error("unknown role must be invalid")
	}
	if UserRole("").IsValid() {
		t.Error("empty role must be invalid")
	}
}

func TestUserRole_IsAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role UserRole
		want bool
	}{
		{UserRoleClient, false},
		{UserRoleExpert, false},
		{UserRoleAdminEditor, true},
		{UserRoleSuperAdmin, true},
	}

	for _, tt := range tests {
		if got := tt.role.IsAdmin(); got != tt.want {
			t.Errorf("%s.IsAdmin() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestTransactionType_IsValid(t *testing.T) {
	t.Parallel()

	valid := []TransactionType{
		TransactionTypePurchase, TransactionTypeGrant, TransactionTypeRevoke,
		TransactionTypeRefund, TransactionTypeExpertEarning, TransactionTypeCharge,
	}
	for _, typ := range valid {
		if !typ.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", typ)
		}
	}

	if TransactionType("donation").IsValid() {
		t.Error("unknown transaction type must be invalid")
	}
}

func TestTransactionStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []TransactionStatus{TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", s)
		}
	}
	if TransactionStatus("reversed").IsValid() {
		t.Error("unknown transaction status must be invalid")
	}
}

func TestPayoutState_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []PayoutState{PayoutStateEarned, PayoutStatePayable, PayoutStatePaid} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", s)
		}
	}
	if PayoutState("settled").IsValid() {
		t.Error("unknown payout state must be invalid")
	}
}

func TestFlagSeverity_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []FlagSeverity{FlagSeverityLow, FlagSeverityMedium, FlagSeverityHigh, FlagSeverityCritical} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", s)
		}
	}
	if FlagSeverity("urgent").IsValid() {
		t.Error("unknown severity must be invalid")
	}
}

func TestContentType_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []ContentType{ContentTypeQuestion, ContentTypeAnswer, ContentTypeAccount} {
		if !c.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", c)
		}
	}
	if ContentType("comment").IsValid() {
		t.Error("unknown content type must be invalid")
	}
}

func TestActionType_IsValid(t *testing.T) {
	t.Parallel()

	for _, a := range []ActionType{
		ActionGrantCredits, ActionRevokeCredits, ActionSetRole, ActionBanAccount,
		ActionUnbanAccount, ActionForceDeliver, ActionEscalate, ActionResolveEscalation,
		ActionFlagContent, ActionResolveFlag, ActionOverrideConfidence,
		ActionSkipHumanization, ActionBypassExpertReview, ActionBypassAIDetection,
		ActionPassOriginality, ActionUpdateSetting, ActionMarkPayable, ActionMarkPaid,
	} {
		if !a.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", a)
		}
	}
	if ActionType("delete_everything").IsValid() {
		t.Error("unknown action type must be invalid")
	}
}

func TestAnswerStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []AnswerStatus{
		AnswerStatusDraft, AnswerStatusHumanized, AnswerStatusApproved,
		AnswerStatusRejected, AnswerStatusDelivered,
	} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", s)
		}
	}
	if AnswerStatus("published").IsValid() {
		t.Error("unknown answer status must be invalid")
	}
}
