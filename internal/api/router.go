package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soaringlab/flightlog-backend-go/internal/archive"
	"github.com/soaringlab/flightlog-backend-go/internal/config"
	"github.com/soaringlab/flightlog-backend-go/internal/database"
	"github.com/soaringlab/flightlog-backend-go/internal/flightstats"
	"github.com/soaringlab/flightlog-backend-go/internal/geo"
	"github.com/soaringlab/flightlog-backend-go/internal/handler"
	"github.com/soaringlab/flightlog-backend-go/internal/importer"
	"github.com/soaringlab/flightlog-backend-go/internal/middleware"
	"github.com/soaringlab/flightlog-backend-go/internal/repository"
	"github.com/soaringlab/flightlog-backend-go/internal/scoring"
	"github.com/soaringlab/flightlog-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers onto the HTTP routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Use(middleware.RateLimit(300, time.Minute))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Flightlog Backend API is running",
		})
	})

	db := database.GetDB()
	activityRepo := repository.NewActivityRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	storageService := service.NewStorageService(cfg.StorageDir, cfg.BaseURL, uploadRepo)
	importService := service.NewImportService(
		scoring.NewHTTPSolver(cfg.SolverURL),
		flightstats.NewEngine(geo.NewTagger()),
		activityRepo,
		storageService,
		archive.Limits{MaxEntries: cfg.MaxZipEntries, MaxUncompressedBytes: cfg.MaxZipBytes},
		importer.ChunkLimits{MaxItems: cfg.ChunkMaxItems, MaxPayloadBytes: cfg.ChunkMaxPayloadBytes},
	)
	activityService := service.NewActivityService(activityRepo)

	importHandler := handler.NewImportHandler(importService)
	activityHandler := handler.NewActivityHandler(activityService)
	uploadHandler := handler.NewUploadHandler(storageService)

	// stored track files
	r.Static("/files", cfg.StorageDir)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		imports := api.Group("/import")
		{
			imports.POST("/files", importHandler.ParseFiles)
			imports.POST("/preview", importHandler.Preview)
			imports.POST("/commit", importHandler.Commit)
		}

		api.GET("/activities", activityHandler.List)
		api.GET("/activities/:id", activityHandler.Get)

		uploads := api.Group("/uploads")
		{
			uploads.POST("", uploadHandler.Upload)
			uploads.GET("/:id", uploadHandler.Get)
		}
	}

	return r
}
