package account

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

const minPasswordLength = 8

// RegisterInput is the self-registration payload. New accounts always start
// as clients with a zero balance; roles are granted by an admin afterwards.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Validate checks the registration shape.
func (in RegisterInput) Validate() error {
	var fields []domain.FieldError
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields = append(fields, domain.FieldError{Field: "email", Message: "is not a valid address"})
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "is required"})
	}
	if len(in.Password) < minPasswordLength {
		fields = append(fields, domain.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

// Register creates a client account. Duplicate emails fail with
// ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.accounts.Create(ctx, domain.Account{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         domain.UserRoleClient,
		Credits:      0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account registered",
		slog.String("account_id", created.ID.String()),
	)
	return created, nil
}
