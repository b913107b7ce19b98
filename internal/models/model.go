package models

import (
	"time"

	"github.com/google/uuid"
)

// Classifier is a fitted binary classifier over aligned feature vectors. It
// returns the positive-class ("win") probability.
type Classifier interface {
	PredictProbability(vector []float64) float64
}

// Outcome is a predicted class
type Outcome string

// Outcome values: win is the positive class, draw and loss are merged into
// the negative class.
const (
	OutcomeWin    Outcome = "win"
	OutcomeNotWin Outcome = "not_win"
)

// winThreshold is the probability above which the positive class is
// predicted. Ties resolve to the negative class.
const winThreshold = 0.5

// TrainedModel represents an immutable fitted classifier together with the
// ordered feature names it was trained on. It is produced by the training
// pipeline and handed read-only to prediction; it carries no mutable state
// and is safe to share across concurrent callers.
type TrainedModel struct {
	id           uuid.UUID
	trainedAt    time.Time
	window       int
	cutoff       time.Time
	featureNames []string
	classifier   Classifier
}

// NewTrainedModel creates an immutable trained model. The feature name
// ordering is copied and fixed for the lifetime of the model.
func NewTrainedModel(classifier Classifier, featureNames []string, window int, cutoff time.Time) *TrainedModel {
	names := make([]string, len(featureNames))
	copy(names, featureNames)

	return &TrainedModel{
		id:           uuid.New(),
		trainedAt:    time.Now().UTC(),
		window:       window,
		cutoff:       cutoff,
		featureNames: names,
		classifier:   classifier,
	}
}

// ID returns the model's unique identifier
func (m *TrainedModel) ID() uuid.UUID {
	return m.id
}

// TrainedAt returns when the model was fitted
func (m *TrainedModel) TrainedAt() time.Time {
	return m.trainedAt
}

// Window returns the rolling window size the model's features were built with
func (m *TrainedModel) Window() int {
	return m.window
}

// Cutoff returns the train/test split date the model was fitted under
func (m *TrainedModel) Cutoff() time.Time {
	return m.cutoff
}

// FeatureNames returns a copy of the ordered feature names the model expects
func (m *TrainedModel) FeatureNames() []string {
	names := make([]string, len(m.featureNames))
	copy(names, m.featureNames)
	return names
}

// PredictProbability returns the win probability for an aligned vector
func (m *TrainedModel) PredictProbability(vector []float64) float64 {
	return m.classifier.PredictProbability(vector)
}

// Classify returns the predicted outcome and win probability for an aligned
// vector.
func (m *TrainedModel) Classify(vector []float64) (Outcome, float64) {
	p := m.classifier.PredictProbability(vector)
	if p > winThreshold {
		return OutcomeWin, p
	}
	return OutcomeNotWin, p
}

// ModelRun represents persisted metadata about one training run. The fitted
// forest itself is never persisted; models are recomputable artifacts.
type ModelRun struct {
	ID              uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	TrainedAt       time.Time `db:"trained_at" json:"trained_at" validate:"required"`
	CutoffDate      time.Time `db:"cutoff_date" json:"cutoff_date" validate:"required"`
	Window          int       `db:"rolling_window" json:"window" validate:"required,gt=0"`
	FeatureNames    []string  `db:"feature_names" json:"feature_names" validate:"required,min=1"`
	Trees           int       `db:"trees" json:"trees" validate:"required,gt=0"`
	MinSamplesSplit int       `db:"min_samples_split" json:"min_samples_split" validate:"required,gt=1"`
	Seed            int64     `db:"seed" json:"seed"`
	Precision       float64   `db:"model_precision" json:"precision" validate:"gte=0,lte=1"`
	Accuracy        float64   `db:"accuracy" json:"accuracy" validate:"gte=0,lte=1"`
	TrainRows       int       `db:"train_rows" json:"train_rows" validate:"gte=0"`
	TestRows        int       `db:"test_rows" json:"test_rows" validate:"gte=0"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
