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
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(appConfig.Logging.Level)
	reader := excel.NewDataReader(appConfig.ReaderConfig()).WithLogger(logger)
	service := app.NewAnalysisService(reader, senses.NewWelchTTestSense(), appConfig.Analysis).WithLogger(logger)

	uiApp, err := ui.NewApp(service, appConfig, logger)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	// A configured data file is analysed whenever the form carries no upload
	if appConfig.Data.File != "" {
		dataset, err := service.LoadFile(appConfig.Data.File)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", appConfig.Data.File, err)
		}
		uiApp.WithDataset(dataset)
		logger.Info("Preloaded %d records from %s", dataset.Len(), appConfig.Data.File)
	}

	log.Fatal(uiApp.Start(":" + appConfig.UI.Port))
}
