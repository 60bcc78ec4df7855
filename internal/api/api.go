package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/api/handlers"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/api/middleware"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
)

type Services struct {
	PurchaseService  *service.PurchaseService
	InfoserveService *service.InfoserveService
	SettingsService  *service.SettingsService
	ReportService    *service.ReportService
}

type Options struct {
	AllowedOrigins []string
	MaxUploadMB    int64
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))
	router.MaxMultipartMemory = max(opts.MaxUploadMB, 1) << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.PurchaseService != nil {
			informesHandler := handlers.NewInformesHandler(services.PurchaseService, opts.MaxUploadMB)
			informesGroup := apiGroup.Group("/informes")
			{
				informesGroup.POST("", informesHandler.Upload)
				informesGroup.POST("/restore", informesHandler.Restore)
				informesGroup.GET("", informesHandler.Status)
				informesGroup.DELETE("", informesHandler.Clear)
			}

			purchaseHandler := handlers.NewPurchaseHandler(services.PurchaseService)
			purchaseGroup := apiGroup.Group("/purchases")
			{
				purchaseGroup.GET("/domestic", purchaseHandler.GetDomestic)
				purchaseGroup.GET("/foreign", purchaseHandler.GetForeign)
				purchaseGroup.GET("/combined", purchaseHandler.GetCombined)
			}

			catalogGroup := apiGroup.Group("/catalog")
			{
				catalogGroup.GET("/brands", purchaseHandler.GetBrands)
				catalogGroup.GET("/categories", purchaseHandler.GetCategories)
			}
		}

		if services.InfoserveService != nil {
			infoserveHandler := handlers.NewInfoserveHandler(services.InfoserveService)
			infoserveGroup := apiGroup.Group("/infoserve")
			{
				infoserveGroup.GET("/movements", infoserveHandler.GetMovements)
				infoserveGroup.GET("/options", infoserveHandler.GetOptions)
				infoserveGroup.POST("/sync", infoserveHandler.Sync)
			}
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("/freight", reportHandler.GetFreight)
				reportGroup.GET("/controlled", reportHandler.GetControlled)
			}
		}

		if services.SettingsService != nil {
			settingsHandler := handlers.NewSettingsHandler(services.SettingsService)
			apiGroup.GET("/settings/adjustment", settingsHandler.GetAdjustment)
			apiGroup.PUT("/settings/adjustment", settingsHandler.PutAdjustment)
			apiGroup.DELETE("/settings/cache", settingsHandler.FlushCache)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
