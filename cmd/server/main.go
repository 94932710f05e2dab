package main

import (
	"fmt"
	"log"

	"github.com/sibusisodev/statement-processor-service/internal/config"
	"github.com/sibusisodev/statement-processor-service/internal/database"
	_ "github.com/sibusisodev/statement-processor-service/internal/docs"
	"github.com/sibusisodev/statement-processor-service/internal/handler"
	"github.com/sibusisodev/statement-processor-service/internal/logger"
	"github.com/sibusisodev/statement-processor-service/internal/ocr"
	"github.com/sibusisodev/statement-processor-service/internal/parser"
	"github.com/sibusisodev/statement-processor-service/internal/repository"
	"github.com/sibusisodev/statement-processor-service/internal/server"
	"github.com/sibusisodev/statement-processor-service/internal/service"
	"github.com/sibusisodev/statement-processor-service/internal/storage"
	"github.com/sibusisodev/statement-processor-service/internal/whisperer"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.LogFormat, cfg.LogLevel)

	// Initialize the cloud extraction client
	whispererClient := whisperer.NewClient(&whisperer.Config{
		APIKey:        cfg.WhispererAPIKey,
		BaseURL:       cfg.WhispererBaseURL,
		SubmitTimeout: cfg.WhispererTimeout,
		Logger:        appLog,
	})

	// Initialize the local recognition engine
	engine := ocr.NewEngine(
		ocr.NewFitzRasterizer(),
		func() (ocr.Recognizer, error) {
			return ocr.NewTesseractRecognizer(cfg.OCRLanguage)
		},
		appLog,
	)

	// Create the statement extraction service
	log.Println("Creating statement extraction service...")
	statementParser := parser.NewStatementParser(appLog)
	processorService := service.NewExtractionService(whispererClient, engine, statementParser, cfg.MaxWorkers, appLog)

	// Initialize the database and repository
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	repo := repository.NewPostgresStatementRepository(db.GetPool())
	processorService.SetRepository(repo)

	// Initialize the PDF archiver; archiving is best-effort
	archiver, err := storage.NewS3Archiver(&storage.Config{
		Region: cfg.S3Region,
		Bucket: cfg.S3Bucket,
	})
	if err != nil {
		log.Printf("Archiver disabled: %v", err)
	} else {
		processorService.SetArchiver(archiver)
	}

	// Create handler
	statementHandler := handler.NewStatementHandler(processorService, repo, appLog)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)
	appServer.SetStatementHandler(statementHandler)

	// Set processor service in the server for clean shutdown
	appServer.SetProcessor(processorService)
	appServer.AddCleanup(engine.Terminate)
	appServer.AddCleanup(func() error {
		db.Close()
		return nil
	})

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
