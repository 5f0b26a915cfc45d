package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-api/internal/auth"
	"fleet-api/internal/config"
	"fleet-api/internal/db"
	httphandler "fleet-api/internal/http"
	"fleet-api/internal/http/middleware"
	"fleet-api/internal/logger"
	"fleet-api/internal/realtime"
	"fleet-api/internal/repository"
	"fleet-api/internal/service"
	"fleet-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	orgRepo := repository.NewOrgRepository(database)
	userRepo := repository.NewUserRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	driverRepo := repository.NewDriverRepository(database)
	jobRepo := repository.NewJobRepository(database)
	tripRepo := repository.NewTripRepository(database)
	maintenanceRepo := repository.NewMaintenanceRepository(database)
	documentRepo := repository.NewDocumentRepository(database)
	positionRepo := repository.NewPositionRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	hub := realtime.NewHub(appLogger)

	// With a broker configured, fixes go out via NATS and come back through
	// the bridge's own subscription, so every instance's hub sees them.
	// Without one, fixes fan out to this instance's subscribers only.
	var publisher service.PositionPublisher = hub
	var bridge *realtime.Bridge
	if cfg.Realtime.NATSURL != "" {
		bridge, err = realtime.NewBridge(cfg.Realtime.NATSURL, hub, appLogger)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect broker")
		}
		if err := bridge.Start(); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to start position bridge")
		}
		defer bridge.Close()
		publisher = bridge
	}

	var blobs *storage.CloudinaryStore
	if cfg.Cloudinary.CloudName != "" {
		blobs, err = storage.NewCloudinaryStore(
			cfg.Cloudinary.CloudName,
			cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret,
			cfg.Cloudinary.Folder,
		)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to configure blob storage")
		}
	} else {
		appLogger.Warn().Msg("blob storage not configured, document uploads disabled")
	}

	var blobStore storage.BlobStore
	if blobs != nil {
		blobStore = blobs
	}

	authService := service.NewAuthService(orgRepo, userRepo, tokens)
	vehicleService := service.NewVehicleService(vehicleRepo)
	driverService := service.NewDriverService(driverRepo)
	jobService := service.NewJobService(jobRepo)
	tripService := service.NewTripService(tripRepo)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo)
	documentService := service.NewDocumentService(documentRepo, blobStore, appLogger)
	positionService := service.NewPositionService(positionRepo, vehicleRepo, publisher, appLogger)
	ingestService := service.NewIngestService(ledgerRepo, positionRepo, vehicleRepo, publisher, appLogger)
	dashboardService := service.NewDashboardService(vehicleRepo, jobRepo, tripRepo, positionRepo)

	handler := httphandler.NewHandler(
		authService,
		vehicleService,
		driverService,
		jobService,
		tripService,
		maintenanceService,
		documentService,
		positionService,
		ingestService,
		dashboardService,
		blobs,
		database,
		cfg,
		appLogger,
	)

	authMiddleware := middleware.Auth(tokens)
	ingestLimiter := middleware.NewRateLimit(cfg.Ingest.RateLimitPerMin)
	wsHandler := realtime.Handler(hub, tokens, appLogger)
	router := httphandler.NewRouter(handler, authMiddleware, ingestLimiter.Middleware(), wsHandler, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go positionService.RunRetentionSweeper(ctx, time.Hour, cfg.Ingest.RetentionDays)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info().Str("addr", addr).Msg("starting fleet api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("forced shutdown")
	}
}
