package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/internal/service/account"
	"github.com/askwell/askwell-backend/internal/service/auth"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	LoginWithPassword(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// registrationService defines the account-creation surface of AuthHandler.
type registrationService interface {
	Register(ctx context.Context, in account.RegisterInput) (*domain.Account, error)
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	auth     authService
	accounts registrationService
	log      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth authService, accounts registrationService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		accounts: accounts,
		log:      logger.With("handler", "auth"),
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"accessToken"`
	Account     accountResponse `json:"account"`
}

type accountResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Credits int64  `json:"credits"`
}

func toAccountResponse(acc *domain.Account) accountResponse {
	return accountResponse{
		ID:      acc.ID.String(),
		Email:   acc.Email,
		Name:    acc.Name,
		Role:    acc.Role.String(),
		Credits: acc.Credits,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.accounts.Register(r.Context(), account.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		Account:     toAccountResponse(result.Account),
	})
}
