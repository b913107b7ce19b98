// Package metrics provides the centralized Prometheus metrics registry for
// the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "matches_ingested_total",
		Help:      "Total number of match records ingested into the store",
	})
	IngestionDuplicatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "ingestion_duplicates_total",
		Help:      "Total number of duplicate match rows skipped during ingestion",
	})
	IngestionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "ingestion_failures_total",
		Help:      "Total number of match rows rejected during ingestion by reason",
	}, []string{"reason"})
	FeatureRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "feature_rows_total",
		Help:      "Total number of feature rows built for training",
	})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "predictions_total",
		Help:      "Total number of predictions served by outcome",
	}, []string{"outcome"})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	PredictionCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
)

// Gauge metrics
var (
	StoreMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "store_matches",
		Help:      "Number of match records currently in the store",
	})
)

// Histogram metrics
var (
	FeatureBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_predictor",
		Name:      "feature_build_duration_seconds",
		Help:      "Duration of feature row construction in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_predictor",
		Name:      "training_duration_seconds",
		Help:      "Duration of training runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(MatchesIngestedTotal)
		registry.MustRegister(IngestionDuplicatesTotal)
		registry.MustRegister(IngestionFailuresTotal)
		registry.MustRegister(FeatureRowsTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(PredictionCacheMissesTotal)

		// Register gauge metrics
		registry.MustRegister(StoreMatches)

		// Register histogram metrics
		registry.MustRegister(FeatureBuildDuration)
		registry.MustRegister(TrainingDuration)

		// Register training metrics
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(ModelPrecision)
		registry.MustRegister(ModelAccuracy)
		registry.MustRegister(ModelTestRows)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMatchIngested records one match record appended to the store.
func RecordMatchIngested() {
	MatchesIngestedTotal.Inc()
}

// RecordIngestionDuplicate records a skipped duplicate row.
func RecordIngestionDuplicate() {
	IngestionDuplicatesTotal.Inc()
}

// RecordIngestionFailure records a rejected row.
// reason should be one of: "validation", "normalization", "store"
func RecordIngestionFailure(reason string) {
	IngestionFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordFeatureBuild records a feature construction pass.
func RecordFeatureBuild(rows int, durationSeconds float64) {
	FeatureRowsTotal.Add(float64(rows))
	FeatureBuildDuration.Observe(durationSeconds)
}

// RecordPrediction records a served prediction.
// outcome should be one of: "win", "not_win"
func RecordPrediction(outcome string) {
	PredictionsTotal.WithLabelValues(outcome).Inc()
}

// RecordPredictionCacheHit records a prediction cache hit.
func RecordPredictionCacheHit() {
	PredictionCacheHitsTotal.Inc()
}

// RecordPredictionCacheMiss records a prediction cache miss.
func RecordPredictionCacheMiss() {
	PredictionCacheMissesTotal.Inc()
}

// UpdateStoreMatches updates the store size gauge.
func UpdateStoreMatches(count float64) {
	StoreMatches.Set(count)
}
