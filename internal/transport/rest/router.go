package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/config"
	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/internal/transport/middleware"
)

// Handlers bundles the REST handlers mounted by the router.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Question *QuestionHandler
	Ledger   *LedgerHandler
	Admin    *AdminHandler
}

// tokenValidator matches the middleware auth dependency so the app wires
// the router in one call.
type tokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, domain.UserRole, error)
}

// NewRouter builds the full HTTP handler: routes plus the middleware stack.
func NewRouter(
	h Handlers,
	validator tokenValidator,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Probes stay outside the auth chain.
	mux.HandleFunc("GET /livez", h.Health.Live)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)

	mux.HandleFunc("POST /questions", h.Question.Submit)
	mux.HandleFunc("GET /questions", h.Question.ListMine)
	mux.HandleFunc("GET /questions/{id}", h.Question.Get)
	mux.HandleFunc("GET /questions/{id}/answer", h.Question.GetAnswer)
	mux.HandleFunc("POST /questions/{id}/rating", h.Question.Rate)

	mux.HandleFunc("GET /review/queue", h.Question.ReviewQueue)
	mux.HandleFunc("POST /questions/{id}/claim", h.Question.Claim)
	mux.HandleFunc("POST /questions/{id}/review", h.Question.Review)

	mux.HandleFunc("GET /accounts/{id}/balance", h.Ledger.Balance)
	mux.HandleFunc("GET /accounts/{id}/transactions", h.Ledger.History)
	mux.HandleFunc("POST /accounts/{id}/purchases", h.Ledger.Purchase)
	mux.HandleFunc("GET /accounts/{id}/earnings", h.Ledger.Earnings)

	mux.Handle("/admin/", http.StripPrefix("/admin", middleware.RequireAdmin(adminMux(h.Admin))))

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		mws = append(mws, limiter.Limit(cfg.RateLimit.MaxPerMinute))
	}
	mws = append(mws, middleware.Auth(validator))

	return middleware.Chain(mws...)(mux)
}

func adminMux(h *AdminHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /accounts", h.ListAccounts)
	mux.HandleFunc("POST /accounts/{id}/role", h.SetRole)
	mux.HandleFunc("POST /accounts/{id}/ban", h.Ban)
	mux.HandleFunc("POST /accounts/{id}/unban", h.Unban)
	mux.HandleFunc("POST /accounts/{id}/credits/grant", h.GrantCredits)
	mux.HandleFunc("POST /accounts/{id}/credits/revoke", h.RevokeCredits)
	mux.HandleFunc("GET /accounts/{id}/reconcile", h.Reconcile)

	mux.HandleFunc("GET /questions", h.ListQuestions)
	mux.HandleFunc("POST /questions/{id}/force-deliver", h.ForceDeliver)
	mux.HandleFunc("POST /questions/{id}/escalate", h.Escalate)
	mux.HandleFunc("POST /questions/{id}/resolve-escalation", h.ResolveEscalation)
	mux.HandleFunc("POST /questions/{id}/skip-humanization", h.SkipHumanization)
	mux.HandleFunc("POST /questions/{id}/bypass-expert-review", h.BypassExpertReview)

	mux.HandleFunc("POST /answers/{id}/override-confidence", h.OverrideConfidence)
	mux.HandleFunc("POST /answers/{id}/bypass-ai-detection", h.BypassAIDetection)
	mux.HandleFunc("POST /answers/{id}/pass-originality", h.PassOriginality)

	mux.HandleFunc("POST /flags", h.CreateFlag)
	mux.HandleFunc("GET /flags", h.ListFlags)
	mux.HandleFunc("GET /flags/open-count", h.OpenFlagCount)
	mux.HandleFunc("POST /flags/{id}/resolve", h.ResolveFlag)

	mux.HandleFunc("GET /audit", h.ListAuditTrail)
	mux.HandleFunc("GET /audit/export", h.ExportAuditTrail)

	mux.HandleFunc("GET /settings", h.ListSettings)
	mux.HandleFunc("PUT /settings/{key}", h.UpdateSetting)

	mux.HandleFunc("POST /experts/{id}/payouts/mark-payable", h.MarkPayable)
	mux.HandleFunc("POST /payouts/{id}/mark-paid", h.MarkPaid)

	return mux
}
