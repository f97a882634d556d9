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
	apphttp "wex_backend/internal/http"
	"wex_backend/internal/http/router"
	"wex_backend/internal/matching"
	matchingsvc "wex_backend/internal/matching/service"
	"wex_backend/internal/needs"
	needssvc "wex_backend/internal/needs/service"
	"wex_backend/internal/notification"
	"wex_backend/internal/scheduler"
	"wex_backend/internal/sms"
	"wex_backend/internal/storage"
	"wex_backend/internal/warehouses"
	warehousessvc "wex_backend/internal/warehouses/service"
	"wex_backend/platform/config"
	"wex_backend/platform/db"
	"wex_backend/platform/logger"
	"wex_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	schedClient, closeScheduler := initScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for listing photos (MinIO)
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure listing-photos bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketListingPhotos())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "listingPhotosBucket", cfg.GetMinioBucketListingPhotos())

	geocoder := geocode.NewClient(log)

	// LLM agent for feature evaluation and listing descriptions; optional.
	var describer warehousessvc.Describer
	var evaluator matchingsvc.FeatureEvaluator
	if cfg.GetGeminiAPIKey() != "" {
		agentClient, err := agent.NewClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize agent client", "error", err)
			panic("failed to initialize agent client: " + err.Error())
		}
		describer = adapters.NewListingDescriberAdapter(agentClient)
		evaluator = adapters.NewFeatureEvaluatorAdapter(agentClient)
		log.Info("agent client initialized", "model", cfg.GetAgentModel())
	} else {
		log.Warn("GEMINI_API_KEY not configured; feature scoring and descriptions disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, val, log)

	var clearScheduler needssvc.ClearScheduler
	var featureScorer matchingsvc.FeatureScorer
	if schedClient != nil {
		clearScheduler = schedClient
		featureScorer = schedClient
	}

	needsModule := needs.NewModule(pool, val, geocoder, clearScheduler, eventBus, log)

	// The matching and engagements modules reference each other; the hold
	// checker is bound after both exist.
	holdChecker := adapters.NewHoldCheckerAdapter()
	matchingModule := matching.NewModule(pool,
		adapters.NewNeedProviderAdapter(needsModule.Service),
		holdChecker, featureScorer, evaluator, eventBus, log)

	engagementsModule := engagements.NewModule(pool, val,
		adapters.NewMatchLookupAdapter(matchingModule.Service), eventBus, log)
	holdChecker.Bind(engagementsModule.Service)

	warehousesModule := warehouses.NewModule(pool, val, storageSvc,
		cfg.GetMinioBucketListingPhotos(), geocoder, describer, eventBus, log)

	smsModule, dedupCache := initSMSModule(cfg, authModule, needsModule, log)
	if dedupCache != nil {
		defer dedupCache.Close()
	}

	// Notification fan-out: email + SMS on lifecycle events
	var emailSender email.Sender
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email disabled; transactional notices will be dropped")
	}
	notification.NewModule(eventBus, authModule.Service, emailSender, sms.NewClient(cfg, log), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	modules := []apphttp.Module{
		authModule,
		needsModule,
		warehousesModule,
		matchingModule,
		engagementsModule,
	}
	if smsModule != nil {
		modules = append(modules, smsModule)
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
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

func initScheduler(cfg config.RedisConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background clearing and feature scoring disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initSMSModule(cfg *config.Config, authModule *auth.Module, needsModule *needs.Module, log *logger.Logger) (*sms.Module, *sms.DedupCache) {
	var dedup *sms.DedupCache
	if cfg.GetRedisURL() != "" {
		cache, err := sms.NewDedupCache(cfg.GetRedisURL())
		if err != nil {
			log.Error("failed to initialize sms dedup cache", "error", err)
		} else {
			dedup = cache
		}
	}

	module, err := sms.NewModule(cfg, dedup, authModule.Service, needsModule.Service, log)
	if err != nil {
		log.Error("failed to initialize sms module", "error", err)
		return nil, dedup
	}

	return module, dedup
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
