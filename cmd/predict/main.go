// Package main provides the fixture prediction CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
	"github.com/Rampex1/FootballMatchPredictor/internal/features"
	"github.com/Rampex1/FootballMatchPredictor/internal/logger"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/service"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
	"github.com/Rampex1/FootballMatchPredictor/internal/training"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		homeTeam   = flag.String("home", "", "Home team name")
		awayTeam   = flag.String("away", "", "Away team name")
		date       = flag.String("date", "", "Fixture date (YYYY-MM-DD), defaults to tomorrow")
		hour       = flag.Int("hour", 15, "Kickoff hour (0-23)")
	)
	flag.Parse()

	if *homeTeam == "" || *awayTeam == "" {
		log.Fatalf("Both -home and -away must be provided")
	}

	fixtureDate := time.Now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("Invalid fixture date: %v", err)
		}
		fixtureDate = parsed.UTC()
	}

	fixture := models.Fixture{
		HomeTeam:    *homeTeam,
		AwayTeam:    *awayTeam,
		Date:        fixtureDate,
		KickoffHour: *hour,
	}
	if err := fixture.Validate(); err != nil {
		log.Fatalf("Invalid fixture: %v", err)
	}

	cfg := loadConfigWithSecrets(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	ctx := context.Background()

	model, engine := trainModel(ctx, cfg, appLog)

	predictions, err := service.NewPredictionService(engine, nil, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create prediction service: %v", err)
	}

	prediction, err := predictions.PredictFixture(model, fixture)
	if err != nil {
		appLog.Fatalf("Failed to score fixture: %v", err)
	}

	fmt.Println("\n=== Fixture Prediction ===")
	fmt.Printf("%s vs %s on %s\n\n", fixture.HomeTeam, fixture.AwayTeam, fixture.Date.Format("2006-01-02"))
	printSide("Home", prediction.Home)
	printSide("Away", prediction.Away)

	if pick, ok := prediction.ConfidentPick(); ok {
		fmt.Printf("\nConfident pick: %s (probability %.1f%%, fair odds %s)\n",
			pick.Team, pick.Probability*100, pick.FairOdds)
	} else {
		fmt.Println("\nNo confident pick: the two sides do not agree on a single winner")
	}
}

func printSide(label string, p models.Prediction) {
	verdict := "not to win"
	if p.IsWin() {
		verdict = "to win"
	}
	fmt.Printf("%-5s %s %s (probability %.1f%%, fair odds %s)\n",
		label+":", p.Team, verdict, p.Probability*100, p.FairOdds)
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
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
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// trainModel ingests the dataset and fits a fresh model. Models are
// recomputable artifacts, so the CLI trains on every invocation rather than
// loading a serialized forest.
func trainModel(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) (*models.TrainedModel, *features.Engine) {
	stdLog := log.New(appLog.Writer(), "", 0)

	source, err := datasource.NewFactory(cfg, stdLog).Create()
	if err != nil {
		appLog.Fatalf("Failed to create data source: %v", err)
	}

	matchStore := store.NewMatchStore()
	ingestion := service.NewIngestionService(
		[]datasource.DataSource{source},
		matchStore,
		nil,
		cfg.Dataset.Competition,
		stdLog,
	)
	if _, err := ingestion.IngestAll(ctx); err != nil {
		appLog.Fatalf("Failed to ingest dataset: %v", err)
	}

	engine, err := features.NewEngine(matchStore, cfg.Features.Window, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create feature engine: %v", err)
	}

	cutoff, err := cfg.CutoffTime()
	if err != nil {
		appLog.Fatalf("Invalid cutoff date: %v", err)
	}
	pipeline, err := training.NewPipeline(training.Config{
		Cutoff:          cutoff,
		Window:          cfg.Features.Window,
		Trees:           cfg.Training.Trees,
		MinSamplesSplit: cfg.Training.MinSamplesSplit,
		Seed:            cfg.Training.Seed,
	}, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create training pipeline: %v", err)
	}

	model, report, err := pipeline.Run(engine.Rows())
	if err != nil {
		appLog.Fatalf("Training failed: %v", err)
	}

	appLog.WithFields(logrus.Fields{
		"model_id":  model.ID(),
		"precision": report.Precision,
		"accuracy":  report.Accuracy,
		"test_rows": report.TestRows,
	}).Info("Model trained")

	return model, engine
}
