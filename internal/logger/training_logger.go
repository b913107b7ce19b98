// Package logger provides training-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// TrainingLogger provides dedicated logging for training runs.
type TrainingLogger struct {
	*logrus.Entry
}

// NewTrainingLogger creates a new training logger.
func NewTrainingLogger(baseLogger *logrus.Logger) *TrainingLogger {
	return &TrainingLogger{
		Entry: baseLogger.WithField("component", "training"),
	}
}

// LogIngestionCompleted logs the result of one ingestion pass.
func (tl *TrainingLogger) LogIngestionCompleted(fetched, ingested, duplicates, filtered, failed int, durationMs float64) {
	tl.WithFields(logrus.Fields{
		"fetched":     fetched,
		"ingested":    ingested,
		"duplicates":  duplicates,
		"filtered":    filtered,
		"failed":      failed,
		"duration_ms": durationMs,
	}).Info("Ingestion completed")
}

// LogTrainingStarted logs the start of a training run.
func (tl *TrainingLogger) LogTrainingStarted(cutoffDate string, window, trees, storedMatches int) {
	tl.WithFields(logrus.Fields{
		"cutoff_date":    cutoffDate,
		"window":         window,
		"trees":          trees,
		"stored_matches": storedMatches,
	}).Info("Training started")
}

// LogTrainingCompleted logs a finished training run with its test metrics.
func (tl *TrainingLogger) LogTrainingCompleted(modelID string, precision, accuracy float64, trainRows, testRows int, durationMs float64) {
	tl.WithFields(logrus.Fields{
		"model_id":    modelID,
		"precision":   precision,
		"accuracy":    accuracy,
		"train_rows":  trainRows,
		"test_rows":   testRows,
		"duration_ms": durationMs,
	}).Info("Training completed")
}

// LogAgreementSupplement logs the paired-prediction agreement metrics.
func (tl *TrainingLogger) LogAgreementSupplement(fixtures, wins int, precision float64) {
	tl.WithFields(logrus.Fields{
		"agreement_fixtures":  fixtures,
		"agreement_wins":      wins,
		"agreement_precision": precision,
	}).Info("Agreement supplement computed")
}

// LogModelActivated logs a trained model being promoted to serve predictions.
func (tl *TrainingLogger) LogModelActivated(modelID, replacedModelID string, precision float64) {
	tl.WithFields(logrus.Fields{
		"model_id":          modelID,
		"replaced_model_id": replacedModelID,
		"precision":         precision,
	}).Info("Model activated")
}

// LogTrainingError logs a failed training stage.
func (tl *TrainingLogger) LogTrainingError(stage, errorReason string) {
	tl.WithFields(logrus.Fields{
		"stage":        stage,
		"error_reason": errorReason,
	}).Error("Training failed")
}
