package main

import (
	"go.uber.org/zap"

	"github.com/soaringlab/flightlog-backend-go/internal/api"
	"github.com/soaringlab/flightlog-backend-go/internal/config"
	"github.com/soaringlab/flightlog-backend-go/internal/database"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	router := api.SetupRouter(cfg)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
