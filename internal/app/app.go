package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/askwell/askwell-backend/internal/adapter/notify"
	"github.com/askwell/askwell-backend/internal/adapter/payment"
	"github.com/askwell/askwell-backend/internal/adapter/postgres"
	accountrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/account"
	answerrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/answer"
	auditrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/audit"
	flagrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/flag"
	ledgerrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/ledger"
	questionrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/question"
	reviewrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/review"
	settingrepo "github.com/askwell/askwell-backend/internal/adapter/postgres/setting"
	"github.com/askwell/askwell-backend/internal/auth"
	"github.com/askwell/askwell-backend/internal/config"
	accountsvc "github.com/askwell/askwell-backend/internal/service/account"
	auditsvc "github.com/askwell/askwell-backend/internal/service/audit"
	authsvc "github.com/askwell/askwell-backend/internal/service/auth"
	compliancesvc "github.com/askwell/askwell-backend/internal/service/compliance"
	ledgersvc "github.com/askwell/askwell-backend/internal/service/ledger"
	payoutsvc "github.com/askwell/askwell-backend/internal/service/payout"
	questionsvc "github.com/askwell/askwell-backend/internal/service/question"
	settingsvc "github.com/askwell/askwell-backend/internal/service/setting"
	"github.com/askwell/askwell-backend/internal/transport/rest"
)

// Services is the fully wired service layer, shared by the API server and the
// worker binaries.
type Services struct {
	Account    *accountsvc.Service
	Auth       *authsvc.Service
	Question   *questionsvc.Service
	Ledger     *ledgersvc.Service
	Compliance *compliancesvc.Service
	Audit      *auditsvc.Service
	Setting    *settingsvc.Service
	Payout     *payoutsvc.Service

	JWT *auth.JWTManager
}

// BuildServices wires repositories, adapters and services on top of a pool.
func BuildServices(pool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) *Services {
	txm := postgres.NewTxManager(pool)

	accounts := accountrepo.New(pool)
	questions := questionrepo.New(pool)
	answers := answerrepo.New(pool)
	reviews := reviewrepo.New(pool)
	ledger := ledgerrepo.New(pool)
	audit := auditrepo.New(pool)
	flags := flagrepo.New(pool)
	settings := settingrepo.New(pool)

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	emitter := notify.NewWebhook(cfg.Notify, logger)
	gateway := payment.NewGateway(cfg.Payment, logger)

	ledgerService := ledgersvc.NewService(logger, accounts, ledger, audit, settings, txm, gateway)

	return &Services{
		Account:    accountsvc.NewService(logger, accounts, audit, txm, emitter, hasher),
		Auth:       authsvc.NewService(logger, accounts, hasher, jwt),
		Question:   questionsvc.NewService(logger, questions, answers, reviews, audit, settings, ledgerService, txm, emitter),
		Ledger:     ledgerService,
		Compliance: compliancesvc.NewService(logger, flags, questions, answers, audit, settings, txm),
		Audit:      auditsvc.NewService(logger, audit),
		Setting:    settingsvc.NewService(logger, settings, audit, txm),
		Payout:     payoutsvc.NewService(logger, ledger, audit, txm),
		JWT:        jwt,
	}
}

// Run is the API server entry point. It loads configuration, connects to the
// database, wires the service layer and serves HTTP until ctx is cancelled,
// then drains in-flight requests within the shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	services := BuildServices(pool, cfg, logger)

	handlers := rest.Handlers{
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
		Auth:     rest.NewAuthHandler(services.Auth, services.Account, logger),
		Question: rest.NewQuestionHandler(services.Question, logger),
		Ledger:   rest.NewLedgerHandler(services.Ledger, services.Payout, logger),
		Admin: rest.NewAdminHandler(
			services.Ledger,
			services.Question,
			services.Account,
			services.Setting,
			services.Payout,
			services.Compliance,
			services.Audit,
			logger,
		),
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      rest.NewRouter(handlers, services.JWT, cfg, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
