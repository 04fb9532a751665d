package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/appointments"
	"orcamento_backend/internal/audit"
	"orcamento_backend/internal/auth"
	"orcamento_backend/internal/catalog"
	"orcamento_backend/internal/email"
	"orcamento_backend/internal/events"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/internal/http/router"
	"orcamento_backend/internal/pdf"
	"orcamento_backend/internal/quotes"
	quotesvc "orcamento_backend/internal/quotes/service"
	"orcamento_backend/internal/sales"
	"orcamento_backend/internal/storage"
	"orcamento_backend/platform/config"
	"orcamento_backend/platform/db"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var sender quotesvc.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email delivery disabled; quote emailing unavailable")
	}

	renderer := pdf.NewGenerator(cfg)

	// ========================================================================
	// Domain modules
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, val, log)
	catalogModule := catalog.NewModule(pool, eventBus, val, log)
	quotesModule := quotes.NewModule(pool, eventBus, catalogModule.Gateway(), renderer, sender, val, log)
	appointmentsModule := appointments.NewModule(pool, eventBus, catalogModule.AppointmentGateway(), val, log)
	salesModule := sales.NewModule(pool, eventBus, log)
	auditModule := audit.NewModule(pool, eventBus, log)

	// PDF archiving is optional; the app runs fine without object storage.
	if cfg.IsMinIOEnabled() {
		archiver, err := storage.NewMinIOArchiver(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize storage archiver", "error", err)
			panic("failed to initialize storage archiver: " + err.Error())
		}
		quotesModule.Documents().SetArchiver(archiver)
		log.Info("quote pdf archiving enabled", "bucket", cfg.GetMinioBucketQuotePDFs())
	}

	// ========================================================================
	// HTTP layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			quotesModule,
			appointmentsModule,
			salesModule,
			auditModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
