package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/internal/service/payout"
)

// ledgerService defines the credit surface of LedgerHandler.
type ledgerService interface {
	Balance(ctx context.Context, accountID uuid.UUID) (int64, error)
	History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	Purchase(ctx context.Context, accountID uuid.UUID, credits, amountCents int64) (*domain.Transaction, error)
}

// payoutService defines the earnings surface of LedgerHandler.
type payoutService interface {
	Summarize(ctx context.Context, expertID uuid.UUID) (*payout.Summary, error)
}

// LedgerHandler serves balance, history, purchase and earnings endpoints.
type LedgerHandler struct {
	ledger  ledgerService
	payouts payoutService
	log     *slog.Logger
}

// NewLedgerHandler creates a LedgerHandler.
func NewLedgerHandler(ledger ledgerService, payouts payoutService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:  ledger,
		payouts: payouts,
		log:     logger.With("handler", "ledger"),
	}
}

type transactionResponse struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"accountId"`
	Type        string     `json:"type"`
	Credits     int64      `json:"credits"`
	AmountCents *int64     `json:"amountCents,omitempty"`
	Status      string     `json:"status"`
	PayoutState *string    `json:"payoutState,omitempty"`
	Reason      string     `json:"reason"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Type:        tx.Type.String(),
		Credits:     tx.Credits,
		AmountCents: tx.AmountCents,
		Status:      tx.Status.String(),
		Reason:      tx.Reason,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.PayoutState != nil {
		s := tx.PayoutState.String()
		resp.PayoutState = &s
	}
	return resp
}

type purchaseRequest struct {
	Credits     int64 `json:"credits"`
	AmountCents int64 `json:"amountCents"`
}

// Balance handles GET /accounts/{id}/balance.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	balance, err := h.ledger.Balance(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": id.String(),
		"credits":   balance,
	})
}

// History handles GET /accounts/{id}/transactions.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	limit, offset := pagination(r)

	txs, err := h.ledger.History(r.Context(), id, limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Purchase handles POST /accounts/{id}/purchases.
func (h *LedgerHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.ledger.Purchase(r.Context(), id, req.Credits, req.AmountCents)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// Earnings handles GET /accounts/{id}/earnings.
func (h *LedgerHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	sum, err := h.payouts.Summarize(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"earned":  sum.Earned,
		"payable": sum.Payable,
		"paid":    sum.Paid,
	})
}
