// Package main initializes and starts the Life CEO API server, wiring
// configuration, logging, the database connection, repositories, services
// and HTTP handlers.
package main

import (
	"cmp"
	"fmt"
	stdlog "log"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/lifeceo/backend/internal/auth"
	"github.com/lifeceo/backend/internal/config"
	"github.com/lifeceo/backend/internal/db"
	"github.com/lifeceo/backend/internal/logger"
	"github.com/lifeceo/backend/internal/repository"
	"github.com/lifeceo/backend/internal/server/handler/http"
	"github.com/lifeceo/backend/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse flag and environment configuration.
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("cannot load config: %v", err)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("cannot init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Initialize PostgreSQL connection and bootstrap the schema.
	postgresDB, err := db.InitPostgres(cfg.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	catalogRepo := repository.NewPostgresCatalogRepository(postgresDB)
	dayLogRepo := repository.NewPostgresDayLogRepository(postgresDB)
	backupRepo := repository.NewPostgresBackupRepository(postgresDB)

	// Token manager for login sessions.
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo, tokens)
	catalogService := service.NewCatalogService(catalogRepo)
	dayLogService := service.NewDayLogService(dayLogRepo, catalogRepo, authRepo)
	backupService := service.NewBackupService(backupRepo)
	reportService := service.NewReportService(dayLogRepo, catalogRepo, authRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Catalog: catalogService}
	catalogHandler := &http.CatalogHandler{CatalogService: catalogService}
	dayLogHandler := &http.DayLogHandler{DayLogService: dayLogService, ReportService: reportService}
	backupHandler := &http.BackupHandler{BackupService: backupService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, catalogHandler, dayLogHandler, backupHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    cfg.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", cfg.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
