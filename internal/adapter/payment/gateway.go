// Package payment is the HTTP client for the external payment provider.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/config"
)

// Gateway authorizes card payments against the provider's REST API.
type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewGateway creates a Gateway from PaymentConfig.
func NewGateway(cfg config.PaymentConfig, logger *slog.Logger) *Gateway {
	return &Gateway{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "payment"),
	}
}

type authorizeRequest struct {
	AccountID   string `json:"account_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type authorizeResponse struct {
	Reference string `json:"reference"`
	Declined  bool   `json:"declined"`
	Message   string `json:"message"`
}

// Authorize charges the account's stored payment method. Returns the
// provider's reference on success.
func (g *Gateway) Authorize(ctx context.Context, accountID uuid.UUID, amountCents int64) (string, error) {
	payload, err := json.Marshal(authorizeRequest{
		AccountID:   accountID.String(),
		AmountCents: amountCents,
		Currency:    "USD",
	})
	if err != nil {
		return "", fmt.Errorf("payment: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/authorize", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("payment: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	g.log.DebugContext(ctx, "authorize request",
		slog.String("account_id", accountID.String()),
		slog.Int64("amount_cents", amountCents),
	)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("payment: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment: unexpected status %d", resp.StatusCode)
	}

	var result authorizeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("payment: decode json: %w", err)
	}
	if result.Declined {
		return "", fmt.Errorf("payment: declined: %s", result.Message)
	}
	if result.Reference == "" {
		return "", fmt.Errorf("payment: response missing reference")
	}

	return result.Reference, nil
}
