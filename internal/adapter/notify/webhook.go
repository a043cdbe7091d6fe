// Package notify delivers domain events to an external webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/askwell/askwell-backend/internal/config"
	"github.com/askwell/askwell-backend/internal/domain"
)

// Webhook POSTs each event to the configured URL. Delivery is fire-and-forget:
// failures are logged and never reach the caller, so a dead webhook cannot
// break a committed mutation.
type Webhook struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWebhook creates a Webhook dispatcher. An empty URL disables delivery.
func NewWebhook(cfg config.NotifyConfig, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:        cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "notify"),
	}
}

type eventEnvelope struct {
	Type       string         `json:"type"`
	OccurredAt string         `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Emit sends one event. Never returns an error; the caller has already
// committed.
func (w *Webhook) Emit(ctx context.Context, e domain.Event) {
	if w.url == "" {
		return
	}

	body, err := json.Marshal(eventEnvelope{
		Type:       string(e.Type),
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		Payload:    e.Payload,
	})
	if err != nil {
		w.log.ErrorContext(ctx, "marshal event", slog.String("type", string(e.Type)), slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.log.ErrorContext(ctx, "create webhook request", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.log.WarnContext(ctx, "webhook delivery failed",
			slog.String("type", string(e.Type)),
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		w.log.WarnContext(ctx, "webhook rejected event",
			slog.String("type", string(e.Type)),
			slog.Int("status", resp.StatusCode),
		)
		return
	}

	w.log.DebugContext(ctx, "event delivered", slog.String("type", string(e.Type)))
}
