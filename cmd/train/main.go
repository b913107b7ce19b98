// Package main provides the training pipeline CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
	"github.com/Rampex1/FootballMatchPredictor/internal/features"
	"github.com/Rampex1/FootballMatchPredictor/internal/logger"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/repository"
	"github.com/Rampex1/FootballMatchPredictor/internal/service"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
	"github.com/Rampex1/FootballMatchPredictor/internal/training"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	csvExport   string
	cutoffFlag  string
	windowFlag  int
	datasetFlag string
	appLog      *logrus.Logger
	cfg         *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&csvExport, "csv-export", "", "Write evaluation metrics to this CSV path")
	rootCmd.Flags().StringVar(&cutoffFlag, "cutoff", "", "Override the train/test cutoff date (2006-01-02)")
	rootCmd.Flags().IntVar(&windowFlag, "window", 0, "Override the rolling window size")
	rootCmd.Flags().StringVar(&datasetFlag, "dataset", "", "Override the dataset CSV path")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a match outcome model on the configured dataset",
	Long: `Ingests the configured match dataset, builds rolling feature rows, fits a
random forest on the rows dated before the cutoff, and reports precision and
accuracy on the later rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := applyOverrides(); err != nil {
			return err
		}
		return runTraining()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		fmt.Printf("Configuration %s is valid\n", configFile)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("train %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}

// applyOverrides lets run flags take precedence over the configuration file.
// The merged configuration is re-validated so a bad flag value fails the same
// way a bad file value would.
func applyOverrides() error {
	if cutoffFlag == "" && windowFlag == 0 && datasetFlag == "" {
		return nil
	}

	if cutoffFlag != "" {
		cfg.Training.CutoffDate = cutoffFlag
	}
	if windowFlag != 0 {
		cfg.Features.Window = windowFlag
	}
	if datasetFlag != "" {
		cfg.Dataset.Path = datasetFlag
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration after flag overrides: %w", err)
	}
	return nil
}

func runTraining() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	stdLog := log.New(appLog.Writer(), "", 0)

	// Optional persistence for ingested matches and the run's metadata
	var (
		matchRepo    repository.MatchRepository
		modelRunRepo repository.ModelRunRepository
	)
	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		matchRepo = repos.Match
		modelRunRepo = repos.ModelRun
	}

	source, err := datasource.NewFactory(cfg, stdLog).Create()
	if err != nil {
		return fmt.Errorf("creating data source: %w", err)
	}

	matchStore := store.NewMatchStore()
	ingestion := service.NewIngestionService(
		[]datasource.DataSource{source},
		matchStore,
		matchRepo,
		cfg.Dataset.Competition,
		stdLog,
	)

	result, err := ingestion.IngestAll(ctx)
	if err != nil {
		return fmt.Errorf("ingesting dataset: %w", err)
	}
	appLog.WithFields(logrus.Fields{
		"ingested": result.Ingested,
		"filtered": result.Filtered,
		"failed":   result.Failed,
	}).Info("Dataset ingested")

	engine, err := features.NewEngine(matchStore, cfg.Features.Window, appLog)
	if err != nil {
		return err
	}

	cutoff, err := cfg.CutoffTime()
	if err != nil {
		return err
	}
	pipeline, err := training.NewPipeline(training.Config{
		Cutoff:          cutoff,
		Window:          cfg.Features.Window,
		Trees:           cfg.Training.Trees,
		MinSamplesSplit: cfg.Training.MinSamplesSplit,
		Seed:            cfg.Training.Seed,
	}, appLog)
	if err != nil {
		return err
	}

	model, report, err := pipeline.Run(engine.Rows())
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Println()
	fmt.Print(training.GenerateConsoleReport(report))

	if csvExport != "" {
		if err := training.GenerateCSVExport(report, csvExport); err != nil {
			return fmt.Errorf("writing CSV export: %w", err)
		}
		fmt.Printf("Metrics exported to %s\n", csvExport)
	}

	if modelRunRepo != nil {
		run := &models.ModelRun{
			ID:              model.ID(),
			TrainedAt:       model.TrainedAt(),
			CutoffDate:      report.CutoffDate,
			Window:          report.Window,
			FeatureNames:    model.FeatureNames(),
			Trees:           cfg.Training.Trees,
			MinSamplesSplit: cfg.Training.MinSamplesSplit,
			Seed:            cfg.Training.Seed,
			Precision:       report.Precision,
			Accuracy:        report.Accuracy,
			TrainRows:       report.TrainRows,
			TestRows:        report.TestRows,
		}
		if err := modelRunRepo.SaveModelRun(ctx, run); err != nil {
			appLog.WithError(err).Warn("Failed to persist model run")
		} else {
			fmt.Printf("Model run %s persisted\n", run.ID)
		}
	}

	return nil
}
