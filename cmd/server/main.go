package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/adapter"
	"github.com/campusflow/approval-engine/internal/application/definition"
	"github.com/campusflow/approval-engine/internal/application/dispatcher"
	"github.com/campusflow/approval-engine/internal/application/engine"
	"github.com/campusflow/approval-engine/internal/application/service"
	"github.com/campusflow/approval-engine/internal/config"
	"github.com/campusflow/approval-engine/internal/infrastructure/persistence/repository"
	"github.com/campusflow/approval-engine/internal/infrastructure/persistence/sqlite"
	httpapi "github.com/campusflow/approval-engine/internal/interfaces/http"
	"github.com/campusflow/approval-engine/internal/notification"
	"github.com/campusflow/approval-engine/pkg/database"
	"github.com/campusflow/approval-engine/pkg/logging"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting approval engine",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.NewMigrator(sqlDB, logger).Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(sqlDB, logger)

	requestRepo := repository.NewRequestRepository(sqlDB, logger)
	eventRepo := repository.NewApprovalEventRepository(sqlDB, logger)
	definitionRepo := repository.NewDefinitionRepository(sqlDB, logger)
	ruleRepo := repository.NewRuleRepository(sqlDB, logger)
	notificationRepo := repository.NewNotificationRepository(sqlDB, logger)

	disp := dispatcher.New(logger)
	defer disp.Close()

	notification.NewRecorder(notificationRepo, logger).Register(disp)

	definitions := definition.NewStore(definitionRepo, logger)
	eng := engine.New(requestRepo, eventRepo, ruleRepo, definitions, txManager, disp, logger)
	requestService := service.NewRequestService(
		adapter.NewRegistry(), eng, requestRepo, eventRepo, definitions, logger)

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JWTSecret:    cfg.Auth.JWTSecret,
		Issuer:       cfg.Auth.Issuer,
	}, requestService, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}
