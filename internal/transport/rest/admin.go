package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/internal/service/account"
)

// adminLedgerService covers the credit operations reserved for admins.
type adminLedgerService interface {
	Grant(ctx context.Context, accountID uuid.UUID, credits int64, reason string, expiresAt *time.Time) (*domain.Transaction, error)
	Revoke(ctx context.Context, accountID uuid.UUID, credits int64, reason string, refund bool) (*domain.Transaction, error)
	Reconcile(ctx context.Context, accountID uuid.UUID) (materialized, ledgerSum int64, err error)
}

// adminQuestionService covers question operations reserved for admins.
type adminQuestionService interface {
	ListByStatus(ctx context.Context, status domain.QuestionStatus, limit, offset int) ([]domain.Question, error)
	ForceDeliver(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error)
	Escalate(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error)
	ResolveEscalation(ctx context.Context, questionID uuid.UUID, deliver bool, reason string) (*domain.Question, error)
}

// adminAccountService covers account administration.
type adminAccountService interface {
	List(ctx context.Context, limit, offset int) (*account.Page, error)
	SetRole(ctx context.Context, accountID uuid.UUID, role domain.UserRole) (*domain.Account, error)
	Ban(ctx context.Context, accountID uuid.UUID, reason string) (*domain.Account, error)
	Unban(ctx context.Context, accountID uuid.UUID, reason string) (*domain.Account, error)
}

// settingService covers system setting administration.
type settingService interface {
	Update(ctx context.Context, key, value string) (*domain.SystemSetting, error)
	List(ctx context.Context) ([]domain.SystemSetting, error)
}

// adminPayoutService covers expert payout administration.
type adminPayoutService interface {
	MarkPayable(ctx context.Context, expertID uuid.UUID) (int64, error)
	MarkPaid(ctx context.Context, earningID uuid.UUID, payoutRef string) (*domain.Transaction, error)
}

// AdminHandler serves the admin REST surface. Routes mounting it must sit
// behind the RequireAdmin middleware; handlers still rely on the service
// layer's own role checks.
type AdminHandler struct {
	ledger     adminLedgerService
	questions  adminQuestionService
	accounts   adminAccountService
	settings   settingService
	payouts    adminPayoutService
	compliance complianceService
	audit      auditService
	log        *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	ledger adminLedgerService,
	questions adminQuestionService,
	accounts adminAccountService,
	settings settingService,
	payouts adminPayoutService,
	compliance complianceService,
	audit auditService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		ledger:     ledger,
		questions:  questions,
		accounts:   accounts,
		settings:   settings,
		payouts:    payouts,
		compliance: compliance,
		audit:      audit,
		log:        logger.With("handler", "admin"),
	}
}

type creditsRequest struct {
	Credits   int64      `json:"credits"`
	Reason    string     `json:"reason"`
	Refund    bool       `json:"refund,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// GrantCredits handles POST /admin/accounts/{id}/credits/grant.
func (h *AdminHandler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req creditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.ledger.Grant(r.Context(), id, req.Credits, req.Reason, req.ExpiresAt)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// RevokeCredits handles POST /admin/accounts/{id}/credits/revoke.
func (h *AdminHandler) RevokeCredits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req creditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.ledger.Revoke(r.Context(), id, req.Credits, req.Reason, req.Refund)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// Reconcile handles GET /admin/accounts/{id}/reconcile.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	materialized, ledgerSum, err := h.ledger.Reconcile(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId":    id.String(),
		"materialized": materialized,
		"ledgerSum":    ledgerSum,
		"consistent":   materialized == ledgerSum,
	})
}

// ListQuestions handles GET /admin/questions?status=.
func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	status := domain.QuestionStatus(r.URL.Query().Get("status"))
	if !status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	limit, offset := pagination(r)

	qs, err := h.questions.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionList(qs))
}

// ForceDeliver handles POST /admin/questions/{id}/force-deliver.
func (h *AdminHandler) ForceDeliver(w http.ResponseWriter, r *http.Request) {
	h.questionOverride(w, r, h.questions.ForceDeliver)
}

// Escalate handles POST /admin/questions/{id}/escalate.
func (h *AdminHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	h.questionOverride(w, r, h.questions.Escalate)
}

// ResolveEscalation handles POST /admin/questions/{id}/resolve-escalation.
func (h *AdminHandler) ResolveEscalation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Deliver bool   `json:"deliver"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questions.ResolveEscalation(r.Context(), id, req.Deliver, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

func (h *AdminHandler) questionOverride(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID, reason string) (*domain.Question, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := op(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// ListAccounts handles GET /admin/accounts.
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	page, err := h.accounts.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]accountResponse, 0, len(page.Accounts))
	for i := range page.Accounts {
		out = append(out, toAccountResponse(&page.Accounts[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": out,
		"total":    page.Total,
	})
}

// SetRole handles POST /admin/accounts/{id}/role.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.accounts.SetRole(r.Context(), id, domain.UserRole(req.Role))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

// Ban handles POST /admin/accounts/{id}/ban.
func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.accountModeration(w, r, h.accounts.Ban)
}

// Unban handles POST /admin/accounts/{id}/unban.
func (h *AdminHandler) Unban(w http.ResponseWriter, r *http.Request) {
	h.accountModeration(w, r, h.accounts.Unban)
}

func (h *AdminHandler) accountModeration(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID, reason string) (*domain.Account, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := op(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

type settingResponse struct {
	Key       string  `json:"key"`
	Value     string  `json:"value"`
	UpdatedBy *string `json:"updatedBy,omitempty"`
}

func toSettingResponse(s *domain.SystemSetting) settingResponse {
	resp := settingResponse{Key: s.Key, Value: s.Value}
	if s.UpdatedBy != nil {
		id := s.UpdatedBy.String()
		resp.UpdatedBy = &id
	}
	return resp
}

// ListSettings handles GET /admin/settings.
func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]settingResponse, 0, len(settings))
	for i := range settings {
		out = append(out, toSettingResponse(&settings[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateSetting handles PUT /admin/settings/{key}.
func (h *AdminHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing setting key")
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	setting, err := h.settings.Update(r.Context(), key, req.Value)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingResponse(setting))
}

// MarkPayable handles POST /admin/experts/{id}/payouts/mark-payable.
func (h *AdminHandler) MarkPayable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	promoted, err := h.payouts.MarkPayable(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expertId": id.String(),
		"promoted": promoted,
	})
}

// MarkPaid handles POST /admin/payouts/{id}/mark-paid.
func (h *AdminHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		PayoutRef string `json:"payoutRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.payouts.MarkPaid(r.Context(), id, req.PayoutRef)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}
