package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-insights/internal/api"
	"ai-insights/internal/api/handlers"
	"ai-insights/internal/repository"
	"ai-insights/internal/service"
	"ai-insights/pkg/auth"
	"ai-insights/pkg/config"
	"ai-insights/pkg/logger"
	"ai-insights/pkg/postgres"

	"go.uber.org/zap"
)

// @title AI Insights API
// @version 1.0
// @description Natural-language spending questions, daily insights and alerts over the bank ledger.

// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT issued by the user service.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting AI insights service", zap.String("version", cfg.App.Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize databases
	accountsDB, err := postgres.NewPool(ctx, "accounts", &cfg.AccountsDB, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to accounts database", zap.Error(err))
	}
	defer accountsDB.Close()

	ledgerDB, err := postgres.NewPool(ctx, "ledger", &cfg.LedgerDB, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to ledger database", zap.Error(err))
	}
	defer ledgerDB.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(accountsDB, appLogger)
	prefRepo := repository.NewPreferenceRepository(accountsDB, appLogger)
	insightRepo := repository.NewInsightRepository(accountsDB, appLogger)
	interactionRepo := repository.NewInteractionRepository(accountsDB, appLogger)
	alertConfigRepo := repository.NewAlertConfigRepository(accountsDB, appLogger)
	ledgerRepo := repository.NewLedgerRepository(ledgerDB, cfg.App.LocalRoutingNum, appLogger)
	accountsRunner := repository.NewQueryRunner(accountsDB, "accounts", appLogger)
	ledgerRunner := repository.NewQueryRunner(ledgerDB, "ledger", appLogger)

	// Token verification against the user service public key
	verifier, err := auth.LoadVerifier(cfg.JWT.PublicKeyPath)
	if err != nil {
		appLogger.Fatal("Failed to load JWT public key", zap.Error(err))
	}

	// Initialize services
	completer, err := service.NewCompleter(ctx, &cfg.AI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	llmService := service.NewLLMService(completer, cfg.AI.MaxRetries, appLogger)
	defer llmService.Close()

	understanding := service.NewQueryUnderstandingService(llmService, appLogger)
	preferences := service.NewPreferenceService(llmService, prefRepo, interactionRepo, insightRepo, alertConfigRepo, appLogger)
	analyst := service.NewDataAnalystService(llmService, userRepo, ledgerRepo, accountsRunner, ledgerRunner, appLogger)
	insights := service.NewInsightService(llmService, appLogger)
	alerts := service.NewAlertService(llmService, alertConfigRepo, analyst, appLogger)
	visualization := service.NewVisualizationService(llmService, appLogger)

	orchestrator := service.NewOrchestratorService(
		understanding,
		preferences,
		analyst,
		insights,
		alerts,
		visualization,
		insightRepo,
		&cfg.Insights,
		appLogger,
	)

	if cfg.Scheduler.Enabled {
		scheduler := service.NewSchedulerService(userRepo, service.DailyInsightsFor(orchestrator), appLogger)
		if err := scheduler.Start(cfg.Scheduler.DailyInsightsSpec); err != nil {
			appLogger.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	// Initialize handlers
	h := api.Handlers{
		Health: handlers.NewHealthHandler([]handlers.Store{
			{Name: "accounts", DB: accountsDB},
			{Name: "ledger", DB: ledgerDB},
		}, cfg.App.Version, appLogger),
		Query:      handlers.NewQueryHandler(orchestrator, understanding, visualization, appLogger),
		Insight:    handlers.NewInsightHandler(orchestrator, appLogger),
		Preference: handlers.NewPreferenceHandler(preferences, appLogger),
		Alert:      handlers.NewAlertHandler(alerts, orchestrator, appLogger),
		Spending:   handlers.NewSpendingHandler(analyst, appLogger),
	}

	// Setup router
	app := api.SetupRouter(h, cfg.Server, verifier, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
