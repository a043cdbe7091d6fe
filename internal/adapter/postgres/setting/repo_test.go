package setting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/askwell/askwell-backend/internal/domain"
)

var settingCols = []string{"key", "value", "updated_by", "updated_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestRepo_Get(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT(.|\n)+FROM system_settings`).
		WithArgs(domain.SettingConfidenceThreshold).
		WillReturnRows(pgxmock.NewRows(settingCols).
			AddRow(domain.SettingConfidenceThreshold, "0.85", nil, time.Now()))

	s, err := repo.Get(context.Background(), domain.SettingConfidenceThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Value != "0.85" {
		t.Errorf("value: got %q, want 0.85", s.Value)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Get_Unknown(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT(.|\n)+FROM system_settings`).
		WithArgs("no_such_key").
		WillReturnRows(pgxmock.NewRows(settingCols))

	_, err := repo.Get(context.Background(), "no_such_key")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Upsert(t *testing.T) {
	t.Parallel()

	mock, repo := newMock(t)
	adminID := uuid.New()

	mock.ExpectQuery(`INSERT INTO system_settings`).
		WithArgs(domain.SettingQuestionPrice, "12", adminID).
		WillReturnRows(pgxmock.NewRows(settingCols).
			AddRow(domain.SettingQuestionPrice, "12", &adminID, time.Now()))

	s, err := repo.Upsert(context.Background(), domain.SettingQuestionPrice, "12", adminID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Value != "12" {
		t.Errorf("value: got %q, want 12", s.Value)
	}
	if s.UpdatedBy == nil || *s.UpdatedBy != adminID {
		t.Errorf("updated_by: got %v, want %s", s.UpdatedBy, adminID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
