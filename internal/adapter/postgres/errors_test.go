package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/askwell/askwell-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if err := MapError(nil, "account", uuid.New()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	err := MapError(pgx.ErrNoRows, "question", uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapError_PgCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique violation", "23505", domain.ErrAlreadyExists},
		{"foreign key violation", "23503", domain.ErrNotFound},
		{"check violation", "23514", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := MapError(&pgconn.PgError{Code: tt.code}, "rating", uuid.New())
			if !errors.Is(err, tt.want) {
				t.Fatalf("code %s: expected %v, got %v", tt.code, tt.want, err)
			}
		})
	}
}

func TestMapError_ContextErrorsPassThrough(t *testing.T) {
	t.Parallel()

	err := MapError(context.DeadlineExceeded, "flag", uuid.New())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded to pass through, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("context errors must not map to domain errors")
	}

	err = MapError(context.Canceled, "flag", uuid.New())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected Canceled to pass through, got %v", err)
	}
}

func TestMapError_UnknownWrapped(t *testing.T) {
	t.Parallel()

	base := errors.New("connection refused")
	err := MapError(base, "transaction", uuid.New())
	if !errors.Is(err, base) {
		t.Fatalf("expected original error preserved, got %v", err)
	}
}
