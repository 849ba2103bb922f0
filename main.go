package main

import (
	"log"

	"github.com/joho/godotenv"

	"sickstat/adapters/excel"
	"sickstat/adapters/stats/senses"
	"sickstat/app"
	"sickstat/internal"
	"sickstat/internal/config"
	"sickstat/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(appConfig.Logging.Level)
	reader := excel.NewDataReader(appConfig.ReaderConfig()).WithLogger(logger)
	service := app.NewAnalysisService(reader, senses.NewWelchTTestSense(), appConfig.Analysis).WithLogger(logger)

	server := ui.NewServer(service, appConfig, logger)
	if appConfig.Metrics.Enabled {
		logger.Info("Prometheus metrics exposed at /metrics")
	}

	// Start the server
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
