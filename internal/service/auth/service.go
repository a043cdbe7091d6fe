// Package auth implements password login. Token validation lives in the
// transport middleware; this service only authenticates credentials and
// issues access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

type accountRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type passwordHasher interface {
	Compare(hash, password string) error
}

type tokenIssuer interface {
	GenerateAccessToken(accountID uuid.UUID, role domain.UserRole) (string, error)
}

// Service authenticates accounts and issues tokens.
type Service struct {
	accounts accountRepo
	hasher   passwordHasher
	tokens   tokenIssuer
	log      *slog.Logger
}

// NewService creates a new Auth service.
func NewService(log *slog.Logger, accounts accountRepo, hasher passwordHasher, tokens tokenIssuer) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		log:      log.With("service", "auth"),
	}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	AccessToken string
	Account     *domain.Account
}

// LoginWithPassword authenticates by email and password. Unknown emails and
// wrong passwords both fail with ErrUnauthorized so callers cannot probe for
// registered addresses. Banned and deactivated accounts cannot log in.
func (s *Service) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("credentials required: %w", domain.ErrUnauthorized)
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("bad credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if err := s.hasher.Compare(acc.PasswordHash, password); err != nil {
		s.log.WarnContext(ctx, "failed login attempt",
			slog.String("account_id", acc.ID.String()),
		)
		return nil, fmt.Errorf("bad credentials: %w", domain.ErrUnauthorized)
	}

	if acc.IsBanned || !acc.IsActive {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}

	token, err := s.tokens.GenerateAccessToken(acc.ID, acc.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.InfoContext(ctx, "login",
		slog.String("account_id", acc.ID.String()),
		slog.String("role", acc.Role.String()),
	)
	return &LoginResult{AccessToken: token, Account: acc}, nil
}
