package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/api"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/cache"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/drive"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/informes"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/infoserve"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository/postgres"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/session"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/storage"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Infoserve.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid infoserve schema")
	}
	if err := cfg.Informes.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid informes contract")
	}

	ctx := context.Background()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Result cache unavailable, continuing without it")
		resultCache = cache.NewNoopResultCache()
	}

	var archive storage.ObjectStorage = storage.NoopStorage{}
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(ctx, cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, uploads will not be archived")
		} else {
			archive = client
		}
	}

	salesCriteria := postgres.DefaultSalesCriteria(cfg.Purchase.BranchCode)
	catalogRepo := postgres.NewCatalogRepository(db, salesCriteria, cfg.Purchase.ExcludedCustomerFilter)

	sessions := session.NewStoreWithTTL(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Duration(cfg.App.SessionSweepMinutes)*time.Minute)

	purchaseService := service.NewPurchaseService(
		catalogRepo,
		resultCache,
		sessions,
		informes.NewNormalizer(cfg.Informes, cfg.Purchase.ReorderFactor),
		archive,
		service.PurchaseOptions{
			ReorderFactor:    cfg.Purchase.ReorderFactor,
			ReverseTaxFactor: cfg.Purchase.ReverseTaxFactor,
			KeyColumn:        cfg.Informes.CodeColumn,
		},
	)

	syncer, folderID := setupDriveSync(ctx, cfg.Drive)
	infoserveService := service.NewInfoserveService(
		infoserve.NewSource(cfg.Infoserve),
		resultCache,
		cfg.Infoserve,
		syncer,
		folderID,
	)

	adjustments := repository.NewFileAdjustmentStore(cfg.App.AdjustmentFile)
	settingsService := service.NewSettingsService(adjustments, resultCache)
	reportService := service.NewReportService(
		postgres.NewReportRepository(db, salesCriteria, cfg.Reports.FreightFieldCode, cfg.Reports.ControlledGroupCode),
		resultCache,
		adjustments,
	)

	router := api.NewRouter(&api.Services{
		PurchaseService:  purchaseService,
		InfoserveService: infoserveService,
		SettingsService:  settingsService,
		ReportService:    reportService,
	}, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadMB:    cfg.Server.MaxUploadMB,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// setupDriveSync returns a nil syncer when Drive is not configured or cannot
// be reached; the sync endpoint then answers 503.
func setupDriveSync(ctx context.Context, cfg config.DriveConfig) (service.ExportSyncer, string) {
	if cfg.CredentialsFile == "" || cfg.InfoserveFolder == "" {
		return nil, ""
	}

	svc, err := drive.NewServiceFromFile(ctx, cfg.CredentialsFile)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Google Drive unavailable, infoserve sync disabled")
		return nil, ""
	}
	folderID, err := svc.ResolveFolder(ctx, cfg.InfoserveFolder)
	if err != nil {
		logger.Log.Warn().Err(err).Str("folder", cfg.InfoserveFolder).Msg("Infoserve folder not found, sync disabled")
		return nil, ""
	}
	return drive.NewSyncer(svc), folderID
}
