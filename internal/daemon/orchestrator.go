// Package daemon coordinates the long-running prediction service: dataset
// ingestion, training, scheduled refreshes, and the health server.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
	"github.com/Rampex1/FootballMatchPredictor/internal/features"
	"github.com/Rampex1/FootballMatchPredictor/internal/health"
	"github.com/Rampex1/FootballMatchPredictor/internal/logger"
	"github.com/Rampex1/FootballMatchPredictor/internal/ml"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/repository"
	"github.com/Rampex1/FootballMatchPredictor/internal/scheduler"
	"github.com/Rampex1/FootballMatchPredictor/internal/service"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
	"github.com/Rampex1/FootballMatchPredictor/internal/training"
)

// ErrModelNotReady is returned by Predict before the first training run has
// produced a model.
var ErrModelNotReady = errors.New("no trained model available yet")

// OrchestratorStatus represents the daemon's current state
type OrchestratorStatus struct {
	Running          bool                    `json:"running"`
	StoreMatches     int                     `json:"store_matches"`
	ModelID          string                  `json:"model_id,omitempty"`
	ModelTrainedAt   time.Time               `json:"model_trained_at"`
	Precision        float64                 `json:"precision"`
	Accuracy         float64                 `json:"accuracy"`
	LastIngestion    service.IngestionResult `json:"last_ingestion"`
	NextScheduledRun time.Time               `json:"next_scheduled_run"`
	LastUpdate       time.Time               `json:"last_update"`
}

// Orchestrator wires the ingestion, training and prediction components
// together and keeps the served model fresh.
type Orchestrator struct {
	config       *config.Config
	db           *database.DB
	repos        *repository.Repositories
	store        *store.MatchStore
	ingestion    *service.IngestionService
	engine       *features.Engine
	pipeline     *training.Pipeline
	predictions  *service.PredictionService
	healthServer *health.Server
	sched        *scheduler.Scheduler
	trainingLog  *logger.TrainingLogger
	logger       *logrus.Logger

	mu            sync.RWMutex
	running       bool
	current       *models.TrainedModel
	lastReport    models.EvaluationReport
	lastIngestion service.IngestionResult
}

// NewOrchestrator creates the daemon orchestrator. The database and
// repositories are optional; without them the daemon runs purely in memory.
func NewOrchestrator(
	cfg *config.Config,
	db *database.DB,
	repos *repository.Repositories,
	baseLogger *logrus.Logger,
) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	// Bridge for the components that log through the standard library.
	stdLog := log.New(baseLogger.Writer(), "", 0)

	matchStore := store.NewMatchStore()

	source, err := datasource.NewFactory(cfg, stdLog).Create()
	if err != nil {
		return nil, fmt.Errorf("creating data source: %w", err)
	}

	var matchRepo repository.MatchRepository
	if repos != nil {
		matchRepo = repos.Match
	}
	ingestion := service.NewIngestionService(
		[]datasource.DataSource{source},
		matchStore,
		matchRepo,
		cfg.Dataset.Competition,
		stdLog,
	)

	engine, err := features.NewEngine(matchStore, cfg.Features.Window, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("creating feature engine: %w", err)
	}

	cutoff, err := cfg.CutoffTime()
	if err != nil {
		return nil, fmt.Errorf("parsing cutoff date: %w", err)
	}
	pipeline, err := training.NewPipeline(training.Config{
		Cutoff:          cutoff,
		Window:          cfg.Features.Window,
		Trees:           cfg.Training.Trees,
		MinSamplesSplit: cfg.Training.MinSamplesSplit,
		Seed:            cfg.Training.Seed,
	}, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("creating training pipeline: %w", err)
	}

	cache := ml.NewPredictionCache(cfg.CacheTTL(), cfg.CacheCleanupInterval())
	predictions, err := service.NewPredictionService(engine, cache, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("creating prediction service: %w", err)
	}

	o := &Orchestrator{
		config:      cfg,
		db:          db,
		repos:       repos,
		store:       matchStore,
		ingestion:   ingestion,
		engine:      engine,
		pipeline:    pipeline,
		predictions: predictions,
		sched:       scheduler.NewScheduler(stdLog),
		trainingLog: logger.NewTrainingLogger(baseLogger),
		logger:      baseLogger,
	}

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Logger:      baseLogger,
		StatusFunc:  o.healthStatus,
	}
	if cfg.Health.Port > 0 {
		healthCfg.Port = strconv.Itoa(cfg.Health.Port)
	}
	if db != nil {
		healthCfg.DB = db
	}
	o.healthServer = health.NewServer(healthCfg)

	baseLogger.Info("Daemon orchestrator initialized")

	return o, nil
}

// Start brings the daemon up: health server first, then a warm start from the
// database when configured, the initial ingestion and training run, and
// finally the cron schedule. The daemon only reports ready once it holds a
// servable model.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator is already running")
	}
	o.running = true
	o.mu.Unlock()

	if err := o.healthServer.Start(ctx); err != nil {
		return fmt.Errorf("starting health server: %w", err)
	}

	if o.repos != nil {
		if err := o.hydrateFromDatabase(ctx); err != nil {
			o.logger.WithError(err).Warn("Failed to hydrate store from database")
		}
	}

	if _, err := o.IngestNow(ctx); err != nil {
		return fmt.Errorf("initial ingestion: %w", err)
	}
	if err := o.RetrainNow(ctx); err != nil {
		return fmt.Errorf("initial training: %w", err)
	}

	o.healthServer.SetReady(true)

	if o.config.Scheduler.Enabled {
		if err := o.scheduleJobs(); err != nil {
			return err
		}
		if err := o.sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
	}

	o.logger.WithFields(logrus.Fields{
		"store_matches":     o.store.Len(),
		"scheduler_enabled": o.config.Scheduler.Enabled,
	}).Info("Daemon orchestrator started")

	return nil
}

// Stop gracefully stops the scheduler and the health server
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	o.running = false
	o.mu.Unlock()

	o.logger.Info("Stopping daemon orchestrator")

	if err := o.sched.Stop(); err != nil {
		o.logger.WithError(err).Error("Failed to stop scheduler")
	}
	if err := o.healthServer.Shutdown(); err != nil {
		o.logger.WithError(err).Error("Failed to stop health server")
	}

	o.logger.Info("Daemon orchestrator stopped")

	return nil
}

// IngestNow runs one ingestion pass over the configured sources
func (o *Orchestrator) IngestNow(ctx context.Context) (service.IngestionResult, error) {
	result, err := o.ingestion.IngestAll(ctx)

	o.mu.Lock()
	o.lastIngestion = result
	o.mu.Unlock()

	if err != nil {
		return result, err
	}

	o.trainingLog.LogIngestionCompleted(
		result.Fetched, result.Ingested, result.Duplicates, result.Filtered, result.Failed,
		float64(result.Duration.Microseconds())/1000.0,
	)
	return result, nil
}

// RetrainNow rebuilds the feature rows and fits a fresh model, swapping it in
// for subsequent predictions. The previous model keeps serving until the new
// one is ready.
func (o *Orchestrator) RetrainNow(ctx context.Context) error {
	o.trainingLog.LogTrainingStarted(
		o.config.Training.CutoffDate, o.config.Features.Window, o.config.Training.Trees, o.store.Len(),
	)

	rows := o.engine.Rows()
	model, report, err := o.pipeline.Run(rows)
	if err != nil {
		o.trainingLog.LogTrainingError("pipeline", err.Error())
		return err
	}

	o.mu.Lock()
	previous := o.current
	o.current = model
	o.lastReport = report
	o.mu.Unlock()

	o.trainingLog.LogTrainingCompleted(
		model.ID().String(), report.Precision, report.Accuracy,
		report.TrainRows, report.TestRows,
		float64(report.Duration.Microseconds())/1000.0,
	)
	if report.AgreementFixtures > 0 {
		o.trainingLog.LogAgreementSupplement(report.AgreementFixtures, report.AgreementWins, report.AgreementPrecision)
	}

	previousID := ""
	if previous != nil {
		previousID = previous.ID().String()
	}
	o.trainingLog.LogModelActivated(model.ID().String(), previousID, report.Precision)

	if o.repos != nil {
		o.persistModelRun(ctx, model, report)
	}

	return nil
}

// Predict scores both sides of a fixture with the current model
func (o *Orchestrator) Predict(fixture models.Fixture) (*service.FixturePrediction, error) {
	o.mu.RLock()
	model := o.current
	o.mu.RUnlock()

	if model == nil {
		return nil, ErrModelNotReady
	}
	return o.predictions.PredictFixture(model, fixture)
}

// CurrentModel returns the model serving predictions, or nil before the
// first training run.
func (o *Orchestrator) CurrentModel() *models.TrainedModel {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// GetStatus returns the daemon's current status
func (o *Orchestrator) GetStatus() *OrchestratorStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := &OrchestratorStatus{
		Running:       o.running,
		StoreMatches:  o.store.Len(),
		Precision:     o.lastReport.Precision,
		Accuracy:      o.lastReport.Accuracy,
		LastIngestion: o.lastIngestion,
		LastUpdate:    time.Now().UTC(),
	}
	if o.current != nil {
		status.ModelID = o.current.ID().String()
		status.ModelTrainedAt = o.current.TrainedAt()
	}
	if o.sched.IsRunning() {
		status.NextScheduledRun = o.sched.GetNextRun()
	}
	return status
}

// hydrateFromDatabase appends persisted matches to the in-memory store.
// Records already ingested this run dedupe through the store's append key.
func (o *Orchestrator) hydrateFromDatabase(ctx context.Context) error {
	matches, err := o.repos.Match.GetAllMatches(ctx)
	if err != nil {
		return err
	}

	loaded := 0
	for _, match := range matches {
		if err := o.store.Append(*match); err != nil {
			if errors.Is(err, models.ErrDuplicateRecord) {
				continue
			}
			o.logger.WithError(err).WithField("team", match.Team).Warn("Skipping persisted match")
			continue
		}
		loaded++
	}

	o.logger.WithFields(logrus.Fields{
		"persisted": len(matches),
		"loaded":    loaded,
	}).Info("Hydrated store from database")

	return nil
}

func (o *Orchestrator) persistModelRun(ctx context.Context, model *models.TrainedModel, report models.EvaluationReport) {
	run := &models.ModelRun{
		ID:              model.ID(),
		TrainedAt:       model.TrainedAt(),
		CutoffDate:      report.CutoffDate,
		Window:          report.Window,
		FeatureNames:    model.FeatureNames(),
		Trees:           o.config.Training.Trees,
		MinSamplesSplit: o.config.Training.MinSamplesSplit,
		Seed:            o.config.Training.Seed,
		Precision:       report.Precision,
		Accuracy:        report.Accuracy,
		TrainRows:       report.TrainRows,
		TestRows:        report.TestRows,
	}

	if err := o.repos.ModelRun.SaveModelRun(ctx, run); err != nil {
		o.logger.WithError(err).Warn("Failed to persist model run")
	}
}

func (o *Orchestrator) scheduleJobs() error {
	err := o.sched.ScheduleDatasetSync(o.config.Scheduler.IngestCron, func(ctx context.Context) error {
		_, err := o.IngestNow(ctx)
		return err
	})
	if err != nil {
		return err
	}

	return o.sched.ScheduleRetrain(o.config.Scheduler.RetrainCron, func(ctx context.Context) error {
		return o.RetrainNow(ctx)
	})
}

// healthStatus feeds the readiness endpoint
func (o *Orchestrator) healthStatus() map[string]string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	checks := make(map[string]string, 2)
	if o.current != nil {
		checks["model"] = "ok"
	} else {
		checks["model"] = "not_trained"
	}
	if o.store.Len() > 0 {
		checks["store"] = "ok"
	} else {
		checks["store"] = "empty"
	}
	return checks
}
