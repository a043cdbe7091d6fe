package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/askwell/askwell-backend/internal/domain"
)

var txCols = []string{
	"id", "account_id", "type", "credits", "amount_cents", "status",
	"payout_state", "reason", "created_by", "related_tx_id", "external_ref", "expires_at", "created_at",
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func txRow(id, accountID uuid.UUID, txType string, credits int64, status string) *pgxmock.Rows {
	return pgxmock.NewRows(txCols).
		AddRow(id, accountID, txType, credits, nil, status, nil, "reason", nil, nil, nil, nil, time.Now())
}

func TestRepo_Insert(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	id := uuid.New()
	accountID := uuid.New()

	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(id, accountID, "charge", int64(-10), (*int64)(nil), "completed", (*string)(nil), "question submission", (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*string)(nil), (*time.Time)(nil)).
		WillReturnRows(txRow(id, accountID, "charge", -10, "completed"))

	tx, err := repo.Insert(context.Background(), domain.Transaction{
		ID: id, AccountID: accountID, Type: domain.TransactionTypeCharge,
		Credits: -10, Status: domain.TransactionStatusCompleted, Reason: "question submission",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Credits != -10 {
		t.Errorf("credits: got %d, want -10", tx.Credits)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_SumDeltas(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	accountID := uuid.New()

	mock.ExpectQuery(`SELECT coalesce\(sum\(credits\), 0\)`).
		WithArgs(accountID).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(37)))

	sum, err := repo.SumDeltas(context.Background(), accountID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 37 {
		t.Errorf("sum: got %d, want 37", sum)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_UpdateStatus_Settles(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	id := uuid.New()
	accountID := uuid.New()

	mock.ExpectQuery(`UPDATE transactions`).
		WithArgs(id, "completed").
		WillReturnRows(txRow(id, accountID, "purchase", 100, "completed"))

	tx, err := repo.UpdateStatus(context.Background(), id, domain.TransactionStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != domain.TransactionStatusCompleted {
		t.Errorf("status: got %s, want completed", tx.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_UpdateStatus_AlreadySettled(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	id := uuid.New()
	accountID := uuid.New()

	mock.ExpectQuery(`UPDATE transactions`).
		WithArgs(id, "failed").
		WillReturnRows(pgxmock.NewRows(txCols))
	mock.ExpectQuery(`SELECT(.|\n)+FROM transactions`).
		WithArgs(id).
		WillReturnRows(txRow(id, accountID, "purchase", 100, "completed"))

	_, err := repo.UpdateStatus(context.Background(), id, domain.TransactionStatusFailed)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_SetPayoutState(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	id := uuid.New()
	accountID := uuid.New()
	payable := "payable"

	rows := pgxmock.NewRows(txCols).
		AddRow(id, accountID, "expert_earning", int64(8), nil, "completed", &payable, "review approved", nil, nil, nil, nil, time.Now())
	mock.ExpectQuery(`UPDATE transactions`).
		WithArgs(id, "earned", "payable").
		WillReturnRows(rows)

	tx, err := repo.SetPayoutState(context.Background(), id, domain.PayoutStateEarned, domain.PayoutStatePayable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.PayoutState == nil || *tx.PayoutState != domain.PayoutStatePayable {
		t.Errorf("payout_state: got %v, want payable", tx.PayoutState)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_MarkAllPayable(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	accountID := uuid.New()

	mock.ExpectExec(`UPDATE transactions`).
		WithArgs(accountID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	moved, err := repo.MarkAllPayable(context.Background(), accountID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved != 3 {
		t.Errorf("moved: got %d, want 3", moved)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_ListStalePending(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	cutoff := time.Now().Add(-time.Hour)

	rows := pgxmock.NewRows(txCols).
		AddRow(uuid.New(), uuid.New(), "purchase", int64(50), nil, "pending", nil, "credit purchase", nil, nil, nil, nil, time.Now().Add(-2*time.Hour))
	mock.ExpectQuery(`SELECT(.|\n)+FROM transactions`).
		WithArgs(cutoff, 100).
		WillReturnRows(rows)

	txs, err := repo.ListStalePending(context.Background(), cutoff, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len: got %d, want 1", len(txs))
	}
	if txs[0].Status != domain.TransactionStatusPending {
		t.Errorf("status: got %s, want pending", txs[0].Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
