// Package main provides the entry point for the one-shot dataset ingestion job.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
	"github.com/Rampex1/FootballMatchPredictor/internal/logger"
	"github.com/Rampex1/FootballMatchPredictor/internal/repository"
	"github.com/Rampex1/FootballMatchPredictor/internal/service"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"source":      cfg.Dataset.Source,
		"competition": cfg.Dataset.Competition,
	}).Info("Dataset ingestion starting")

	stdLog := log.New(appLog.Writer(), "", 0)

	// Initialize optional persistence
	var matchRepo repository.MatchRepository
	if cfg.Database.Enabled {
		db, err := database.Initialize(context.Background(), cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize repositories")
		}
		matchRepo = repos.Match

		appLog.Info("Database connection established")
	}

	source, err := datasource.NewFactory(cfg, stdLog).Create()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create data source")
	}

	matchStore := store.NewMatchStore()
	ingestion := service.NewIngestionService(
		[]datasource.DataSource{source},
		matchStore,
		matchRepo,
		cfg.Dataset.Competition,
		stdLog,
	)

	// Cancel the run on interrupt so partial progress still gets reported
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	result, err := ingestion.IngestAll(ctx)
	if err != nil {
		appLog.WithError(err).Fatal("Ingestion failed")
	}

	appLog.WithFields(logrus.Fields{
		"fetched":    result.Fetched,
		"ingested":   result.Ingested,
		"duplicates": result.Duplicates,
		"filtered":   result.Filtered,
		"failed":     result.Failed,
		"duration":   result.Duration.String(),
	}).Info("Ingestion completed")

	fmt.Println("\n=== Ingestion Report ===")
	fmt.Printf("Source: %s\n", source.Name())
	fmt.Printf("Fetched: %d\n", result.Fetched)
	fmt.Printf("Ingested: %d\n", result.Ingested)
	fmt.Printf("Duplicates: %d\n", result.Duplicates)
	fmt.Printf("Filtered: %d\n", result.Filtered)
	fmt.Printf("Failed: %d\n", result.Failed)
	fmt.Printf("Store size: %d matches across %d teams\n", matchStore.Len(), len(matchStore.Teams()))
	fmt.Printf("Duration: %s\n", result.Duration)
}
