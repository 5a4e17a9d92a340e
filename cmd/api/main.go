package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harborline/slopchest-backend/api/routes"
	"github.com/harborline/slopchest-backend/internal/auditlog"
	"github.com/harborline/slopchest-backend/internal/backup"
	"github.com/harborline/slopchest-backend/internal/cart"
	"github.com/harborline/slopchest-backend/internal/catalog"
	"github.com/harborline/slopchest-backend/internal/directory"
	"github.com/harborline/slopchest-backend/internal/orders"
	"github.com/harborline/slopchest-backend/internal/users"
	"github.com/harborline/slopchest-backend/pkg/config"
	"github.com/harborline/slopchest-backend/pkg/db"
	"github.com/harborline/slopchest-backend/pkg/logger"
	"github.com/harborline/slopchest-backend/pkg/metrics"
	"github.com/harborline/slopchest-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	directoryRepo := directory.NewRepository(dbClient.DB())
	auditRepo := auditlog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	backupRepo := backup.NewRepository(dbClient.DB())

	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	directorySvc, err := directory.NewService(directoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	auditSvc, err := auditlog.NewService(auditRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit log service", err)
		os.Exit(1)
	}

	cartSvc, err := cart.NewService(cartRepo, catalogRepo, directoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(
		ordersRepo,
		dbClient,
		catalog.NewStockDebiter(),
		directory.NewBalanceAdjuster(),
		directoryRepo,
		cart.NewClearer(cartRepo),
		auditSvc,
		orderMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	usersSvc, err := users.NewService(usersRepo, cfg.JWT, cfg.PIN)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	if cfg.Bootstrap.AdminPIN != "" {
		if err := usersSvc.SeedAdmin(context.Background(), cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminPIN); err != nil {
			logg.Error(context.Background(), "failed to seed admin account", err)
			os.Exit(1)
		}
	}

	backupSvc, err := backup.NewService(backupRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create backup service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, routes.Services{
			Users:     usersSvc,
			Catalog:   catalogSvc,
			Directory: directorySvc,
			Cart:      cartSvc,
			Orders:    ordersSvc,
			AuditLog:  auditSvc,
			Backup:    backupSvc,
		}, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
