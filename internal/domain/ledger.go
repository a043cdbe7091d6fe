package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the business reason for a ledger entry.
type TransactionType string

const (
	TransactionTypePurchase      TransactionType = "purchase"
	TransactionTypeGrant         TransactionType = "grant"
	TransactionTypeRevoke        TransactionType = "revoke"
	TransactionTypeRefund        TransactionType = "refund"
	TransactionTypeExpertEarning TransactionType = "expert_earning"
	TransactionTypeCharge        TransactionType = "charge"
)

func (t TransactionType) String() string { return string(t) }

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeGrant, TransactionTypeRevoke,
		TransactionTypeRefund, TransactionTypeExpertEarning, TransactionTypeCharge:
		return true
	}
	return false
}

// TransactionStatus is the settlement state of a ledger entry. Only completed
// entries contribute to the materialized balance.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) String() string { return string(s) }

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// PayoutState tracks the settlement of an expert earning entry.
type PayoutState string

const (
	PayoutStateEarned  PayoutState = "earned"
	PayoutStatePayable PayoutState = "payable"
	PayoutStatePaid    PayoutState = "paid"
)

func (s PayoutState) String() string { return string(s) }

func (s PayoutState) IsValid() bool {
	switch s {
	case PayoutStateEarned, PayoutStatePayable, PayoutStatePaid:
		return true
	}
	return false
}

// Transaction is one append-only ledger entry. The account balance is the sum
// of Credits over all completed entries; the materialized accounts.credits
// column is updated in the same database transaction as each insert and the
// two must never diverge.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      TransactionType
	// Credits is the signed balance delta. Negative for charge/revoke,
	// positive for grant/purchase/earning, zero for monetary-only refunds.
	Credits int64
	// AmountCents is the monetary amount for purchase/refund entries,
	// nil for non-monetary types.
	AmountCents *int64
	Status      TransactionStatus
	// PayoutState is set only on expert_earning entries.
	PayoutState *PayoutState
	Reason      string
	// CreatedBy is the admin who issued a grant or revoke, nil for
	// system-initiated entries.
	CreatedBy *uuid.UUID
	// RelatedTxID links a refund to the purchase it reverses.
	RelatedTxID *uuid.UUID
	// ExternalRef is the payment gateway reference for purchases.
	ExternalRef *string
	// ExpiresAt marks a grant as time-limited. Expiry is informational;
	// reclaiming expired credits is an explicit admin revoke.
	ExpiresAt *time.Time
	CreatedAt time.Time
}
