package main

import (
	"github.com/sirupsen/logrus"

	"github.com/fieldmile/fieldmile-backend-go/internal/api"
	"github.com/fieldmile/fieldmile-backend-go/internal/config"
	"github.com/fieldmile/fieldmile-backend-go/internal/database"
	"github.com/fieldmile/fieldmile-backend-go/internal/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.LogPath)

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close()

	router := api.SetupRouter(cfg)

	logrus.Infof("Server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
