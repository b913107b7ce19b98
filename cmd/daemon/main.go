// Package main provides the entry point for the match prediction daemon.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
	"github.com/Rampex1/FootballMatchPredictor/internal/daemon"
	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/logger"
	"github.com/Rampex1/FootballMatchPredictor/internal/repository"
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

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Match prediction daemon starting")

	// Initialize optional persistence
	var (
		db    *database.DB
		repos *repository.Repositories
	)
	if cfg.Database.Enabled {
		db, err = database.Initialize(context.Background(), cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		repos, err = repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize repositories")
		}

		appLog.Info("Database connection established")
	} else {
		appLog.Info("Database persistence disabled; matches are kept in memory only")
	}

	// Create daemon orchestrator
	orchestrator, err := daemon.NewOrchestrator(cfg, db, repos, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create orchestrator")
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start orchestrator
	if err := orchestrator.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start orchestrator")
	}

	// Print status information
	status := orchestrator.GetStatus()
	appLog.WithFields(logrus.Fields{
		"store_matches": status.StoreMatches,
		"model_id":      status.ModelID,
		"precision":     status.Precision,
		"accuracy":      status.Accuracy,
		"scheduler":     cfg.Scheduler.Enabled,
	}).Info("Daemon is running")

	// Wait for shutdown signal
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	// Graceful shutdown
	appLog.Info("Initiating graceful shutdown...")

	// Cancel context to stop all goroutines
	cancel()

	// Stop orchestrator
	if err := orchestrator.Stop(); err != nil {
		appLog.WithError(err).Error("Error during orchestrator shutdown")
	}

	// Give components time to cleanup
	time.Sleep(2 * time.Second)

	appLog.Info("Match prediction daemon shut down successfully")
}
