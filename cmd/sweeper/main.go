// The sweeper process runs the background side of the marketplace: the asynq
// worker for clearing runs and feature scoring, and the periodic deadline
// sweep that expires lapsed engagements.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wex_backend/internal/adapters"
	"wex_backend/internal/agent"
	"wex_backend/internal/auth"
	"wex_backend/internal/email"
	"wex_backend/internal/engagements"
	"wex_backend/internal/events"
	"wex_backend/internal/geocode"
	"wex_backend/internal/matching"
	matchingsvc "wex_backend/internal/matching/service"
	"wex_backend/internal/needs"
	"wex_backend/internal/notification"
	"wex_backend/internal/scheduler"
	"wex_backend/internal/sms"
	"wex_backend/platform/config"
	"wex_backend/platform/db"
	"wex_backend/platform/logger"
	"wex_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting sweeper", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	geocoder := geocode.NewClient(log)

	// Notifications fire from this process too: expiry and rescore events
	// published here must still reach the parties.
	authModule := auth.NewModule(pool, cfg, val, log)
	var emailSender email.Sender
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
	}
	notification.NewModule(eventBus, authModule.Service, emailSender, sms.NewClient(cfg, log), log)

	var evaluator matchingsvc.FeatureEvaluator
	if cfg.GetGeminiAPIKey() != "" {
		agentClient, err := agent.NewClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize agent client", "error", err)
			panic("failed to initialize agent client: " + err.Error())
		}
		evaluator = adapters.NewFeatureEvaluatorAdapter(agentClient)
	}

	var featureScorer matchingsvc.FeatureScorer
	if cfg.GetRedisURL() != "" {
		schedClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Warn("scheduler client unavailable; clearing runs will not enqueue feature scoring", "error", err)
		} else {
			defer schedClient.Close()
			featureScorer = schedClient
		}
	}

	needsModule := needs.NewModule(pool, val, geocoder, nil, eventBus, log)
	holdChecker := adapters.NewHoldCheckerAdapter()
	matchingModule := matching.NewModule(pool,
		adapters.NewNeedProviderAdapter(needsModule.Service),
		holdChecker, featureScorer, evaluator, eventBus, log)
	engagementsModule := engagements.NewModule(pool, val,
		adapters.NewMatchLookupAdapter(matchingModule.Service), eventBus, log)
	holdChecker.Bind(engagementsModule.Service)

	if cfg.GetRedisURL() != "" {
		worker, err := scheduler.NewWorker(cfg,
			adapters.NewClearingPipeline(matchingModule.Service, needsModule.Service),
			matchingModule.Service, log)
		if err != nil {
			log.Error("failed to initialize worker", "error", err)
			panic("failed to initialize worker: " + err.Error())
		}
		go worker.Run(ctx)
	} else {
		log.Warn("REDIS_URL not configured; task worker disabled, deadline sweep only")
	}

	interval := cfg.GetSweepInterval()
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	log.Info("deadline sweep scheduled", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			expired, err := engagementsModule.Service.ExpireLapsed(ctx)
			if err != nil {
				log.Error("deadline sweep failed", "error", err)
				continue
			}
			if expired > 0 {
				log.Info("deadline sweep complete", "expired", expired)
			}
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
