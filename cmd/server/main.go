package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	deductionapp "github.com/halmarket/backend/internal/application/deduction"
	depositapp "github.com/halmarket/backend/internal/application/deposit"
	inventoryapp "github.com/halmarket/backend/internal/application/inventory"
	notificationapp "github.com/halmarket/backend/internal/application/notification"
	partnerapp "github.com/halmarket/backend/internal/application/partner"
	riskapp "github.com/halmarket/backend/internal/application/risk"
	settlementapp "github.com/halmarket/backend/internal/application/settlement"
	"github.com/halmarket/backend/internal/infrastructure/config"
	"github.com/halmarket/backend/internal/infrastructure/locking"
	"github.com/halmarket/backend/internal/infrastructure/logger"
	"github.com/halmarket/backend/internal/infrastructure/notification"
	"github.com/halmarket/backend/internal/infrastructure/persistence"
	"github.com/halmarket/backend/internal/interfaces/http/handler"
	"github.com/halmarket/backend/internal/interfaces/http/middleware"
	"github.com/halmarket/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting settlement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	accountRepo := persistence.NewGormPartyAccountRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	batchLineRepo := persistence.NewGormBatchLineRepository(db.DB)
	definitionRepo := persistence.NewGormDefinitionRepository(db.DB)
	documentRepo := persistence.NewGormSaleDocumentRepository(db.DB)
	holdingRepo := persistence.NewGormCrateHoldingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Initialize transaction scopes
	settlementScope := persistence.NewGormSettlementTransactionScope(db.DB)
	depositScope := persistence.NewGormDepositTransactionScope(db.DB)
	partnerScope := persistence.NewGormPartnerTransactionScope(db.DB)

	// Per-entity lock manager, shared by all services that post to the
	// ledger or touch crate holdings
	locks := locking.NewEntityLockManager()

	// Initialize notification dispatcher
	transport := notification.NewHTTPTransport(
		cfg.Notification.EndpointURL,
		cfg.Notification.RequestTimeout,
		log,
	)
	dispatcher := notification.NewDispatcher(notificationRepo, transport, notification.DispatcherConfig{
		BatchSize:    cfg.Notification.BatchSize,
		PollInterval: cfg.Notification.PollInterval,
	}, log)

	// Initialize application services
	syncService := notificationapp.NewSyncService(notificationRepo, dispatcher, cfg.Notification.MaxAttempts, log)
	accountService := partnerapp.NewAccountService(accountRepo, entryRepo, log)
	ledgerService := partnerapp.NewLedgerService(partnerScope, locks, log)
	deliveryService := inventoryapp.NewDeliveryService(batchLineRepo, accountRepo, log)
	definitionService := deductionapp.NewDefinitionService(definitionRepo, log)
	documentService := settlementapp.NewDocumentService(documentRepo, accountRepo)
	finalizeService := settlementapp.NewFinalizeService(settlementScope, locks, log)
	finalizeService.SetNotificationEnqueuer(syncService)
	depositService := depositapp.NewDepositService(depositScope, locks, log)
	riskService := riskapp.NewRiskService(accountRepo, holdingRepo, log)

	// Initialize HTTP handlers
	middleware.SetupValidator()
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(db),
		Partner:      handler.NewPartnerHandler(accountService, ledgerService),
		Inventory:    handler.NewInventoryHandler(deliveryService),
		Settlement:   handler.NewSettlementHandler(documentService, finalizeService),
		Deduction:    handler.NewDeductionHandler(definitionService),
		Deposit:      handler.NewDepositHandler(depositService),
		Risk:         handler.NewRiskHandler(riskService),
		Notification: handler.NewNotificationHandler(syncService),
	}
	engine := router.Setup(handlers, log)

	// Start the background notification dispatcher
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	if cfg.Notification.DispatcherEnabled {
		if err := dispatcher.Start(dispatcherCtx); err != nil {
			log.Fatal("Failed to start notification dispatcher", zap.Error(err))
		}
	} else {
		log.Warn("Notification dispatcher disabled; queued notifications will not be delivered")
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if cfg.Notification.DispatcherEnabled {
		if err := dispatcher.Stop(ctx); err != nil {
			log.Error("Dispatcher forced to shutdown", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
