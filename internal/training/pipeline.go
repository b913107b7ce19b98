// Package training fits and evaluates match outcome models on rolling feature
// rows. The split between training and evaluation data is always by date, so
// the model is only ever scored on matches later than everything it saw.
package training

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/features"
	"github.com/Rampex1/FootballMatchPredictor/internal/metrics"
	"github.com/Rampex1/FootballMatchPredictor/internal/ml"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// Config holds the training pipeline parameters
type Config struct {
	Cutoff          time.Time
	Window          int
	Trees           int
	MinSamplesSplit int
	Seed            int64
}

// Pipeline trains a random forest on feature rows dated before the cutoff and
// evaluates it on the rows dated on or after it.
type Pipeline struct {
	config Config
	logger *logrus.Logger
}

// NewPipeline creates a training pipeline
func NewPipeline(cfg Config, logger *logrus.Logger) (*Pipeline, error) {
	if cfg.Cutoff.IsZero() {
		return nil, models.NewConfigurationError("cutoff_date", "", "cutoff date is required")
	}
	if cfg.Window < 1 {
		return nil, models.NewConfigurationError("window", strconv.Itoa(cfg.Window), "rolling window must be at least 1")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{config: cfg, logger: logger}, nil
}

// Run splits the rows around the cutoff date, fits the forest on the earlier
// partition, and scores it on the later one. Returns InsufficientDataError
// when the training partition is empty or single-class, and
// ConfigurationError when the cutoff leaves no test rows.
func (p *Pipeline) Run(rows []models.FeatureRow) (*models.TrainedModel, models.EvaluationReport, error) {
	start := time.Now()

	train, test := splitByDate(rows, p.config.Cutoff)

	p.logger.WithFields(logrus.Fields{
		"rows":       len(rows),
		"train_rows": len(train),
		"test_rows":  len(test),
		"cutoff":     p.config.Cutoff.Format("2006-01-02"),
	}).Info("Starting training run")

	if err := p.checkPartitions(train, test); err != nil {
		metrics.RecordTrainingRun("failure", time.Since(start).Seconds())
		return nil, models.EvaluationReport{}, err
	}

	names := features.FeatureNames()
	vectors, labels, err := buildMatrix(train, names)
	if err != nil {
		metrics.RecordTrainingRun("failure", time.Since(start).Seconds())
		return nil, models.EvaluationReport{}, err
	}

	forest, err := ml.TrainForest(vectors, labels, ml.ForestConfig{
		Trees:           p.config.Trees,
		MinSamplesSplit: p.config.MinSamplesSplit,
		Seed:            p.config.Seed,
	})
	if err != nil {
		metrics.RecordTrainingRun("failure", time.Since(start).Seconds())
		return nil, models.EvaluationReport{}, fmt.Errorf("fitting forest: %w", err)
	}

	model := models.NewTrainedModel(forest, names, p.config.Window, p.config.Cutoff)

	report, err := evaluate(model, test)
	if err != nil {
		metrics.RecordTrainingRun("failure", time.Since(start).Seconds())
		return nil, models.EvaluationReport{}, err
	}
	report.TrainRows = len(train)
	report.CutoffDate = p.config.Cutoff
	report.Window = p.config.Window
	report.Duration = time.Since(start)

	metrics.RecordTrainingRun("success", report.Duration.Seconds())
	metrics.UpdateModelEvaluation(report.Precision, report.Accuracy, report.TestRows)

	p.logger.WithFields(logrus.Fields{
		"model_id":   model.ID(),
		"train_rows": report.TrainRows,
		"test_rows":  report.TestRows,
		"precision":  report.Precision,
		"accuracy":   report.Accuracy,
	}).Info("Training run completed")

	return model, report, nil
}

func (p *Pipeline) checkPartitions(train, test []models.FeatureRow) error {
	cutoff := p.config.Cutoff.Format("2006-01-02")

	if len(train) == 0 {
		return models.NewInsufficientDataError("", 0, 1,
			fmt.Sprintf("no feature rows dated before the cutoff %s", cutoff))
	}

	positives := 0
	for _, row := range train {
		if row.Label {
			positives++
		}
	}
	if positives == 0 || positives == len(train) {
		return models.NewInsufficientDataError("", 1, 2,
			"training partition holds a single outcome class")
	}

	if len(test) == 0 {
		return models.NewConfigurationError("cutoff_date", cutoff,
			"no feature rows dated on or after the cutoff")
	}
	return nil
}

// splitByDate partitions rows into train (before cutoff) and test (on or
// after cutoff).
func splitByDate(rows []models.FeatureRow, cutoff time.Time) ([]models.FeatureRow, []models.FeatureRow) {
	var train, test []models.FeatureRow
	for _, row := range rows {
		if row.Date.Before(cutoff) {
			train = append(train, row)
		} else {
			test = append(test, row)
		}
	}
	return train, test
}

func buildMatrix(rows []models.FeatureRow, names []string) ([][]float64, []bool, error) {
	vectors := make([][]float64, len(rows))
	labels := make([]bool, len(rows))
	for i, row := range rows {
		vector, err := row.Vector(names)
		if err != nil {
			return nil, nil, fmt.Errorf("aligning features for %s on %s: %w",
				row.Team, row.Date.Format("2006-01-02"), err)
		}
		vectors[i] = vector
		labels[i] = row.Label
	}
	return vectors, labels, nil
}

// evaluate scores the model on the test rows. Precision covers predicted
// wins only; the agreement metrics cover fixtures where one side was
// predicted to win and the opposing side's row was predicted not to win.
func evaluate(model *models.TrainedModel, test []models.FeatureRow) (models.EvaluationReport, error) {
	type sideResult struct {
		predictedWin bool
		actualWin    bool
	}
	sides := make(map[string]sideResult, len(test))

	names := model.FeatureNames()
	report := models.EvaluationReport{TestRows: len(test)}
	correct := 0
	truePositives := 0

	for _, row := range test {
		vector, err := row.Vector(names)
		if err != nil {
			return models.EvaluationReport{}, fmt.Errorf("aligning features for %s on %s: %w",
				row.Team, row.Date.Format("2006-01-02"), err)
		}

		outcome, _ := model.Classify(vector)
		predictedWin := outcome == models.OutcomeWin

		if predictedWin {
			report.PredictedWins++
			if row.Label {
				truePositives++
			}
		}
		if predictedWin == row.Label {
			correct++
		}
		if row.Label {
			report.ActualWins++
		}

		sides[sideKey(row.Date, row.Team, row.Opponent)] = sideResult{predictedWin, row.Label}
	}

	if report.PredictedWins > 0 {
		report.Precision = float64(truePositives) / float64(report.PredictedWins)
	}
	if report.TestRows > 0 {
		report.Accuracy = float64(correct) / float64(report.TestRows)
	}

	for _, row := range test {
		side := sides[sideKey(row.Date, row.Team, row.Opponent)]
		if !side.predictedWin {
			continue
		}
		counterpart, ok := sides[sideKey(row.Date, row.Opponent, row.Team)]
		if !ok || counterpart.predictedWin {
			continue
		}
		report.AgreementFixtures++
		if side.actualWin {
			report.AgreementWins++
		}
	}
	if report.AgreementFixtures > 0 {
		report.AgreementPrecision = float64(report.AgreementWins) / float64(report.AgreementFixtures)
	}

	return report, nil
}

func sideKey(date time.Time, team, opponent string) string {
	return fmt.Sprintf("%s|%s|%s", date.Format("2006-01-02"), team, opponent)
}
