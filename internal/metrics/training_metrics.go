// Package metrics defines training-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Training counter vectors
var (
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "training_runs_total",
		Help:      "Total number of training runs by status",
	}, []string{"status"})
)

// Model evaluation gauges
var (
	ModelPrecision = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "model_precision",
		Help:      "Win precision of the most recent model on its test partition",
	})
	ModelAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "model_accuracy",
		Help:      "Accuracy of the most recent model on its test partition",
	})
	ModelTestRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "model_test_rows",
		Help:      "Test partition size of the most recent training run",
	})
)

// RecordTrainingRun records a training run event.
// status should be one of: "success", "failure"
func RecordTrainingRun(status string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(status).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// UpdateModelEvaluation publishes the evaluation of the most recent model.
func UpdateModelEvaluation(precision, accuracy float64, testRows int) {
	ModelPrecision.Set(precision)
	ModelAccuracy.Set(accuracy)
	ModelTestRows.Set(float64(testRows))
}
