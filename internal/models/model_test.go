package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	probability float64
}

func (s stubClassifier) PredictProbability(vector []float64) float64 {
	return s.probability
}

func TestNewTrainedModel(t *testing.T) {
	names := []string{"venue_code", "opp_code", "hour", "day_code"}
	cutoff := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	model := NewTrainedModel(stubClassifier{probability: 0.7}, names, 3, cutoff)

	require.NotNil(t, model)
	assert.NotEqual(t, "", model.ID().String())
	assert.Equal(t, 3, model.Window())
	assert.Equal(t, cutoff, model.Cutoff())
	assert.WithinDuration(t, time.Now().UTC(), model.TrainedAt(), time.Minute)
	assert.Equal(t, names, model.FeatureNames())
}

func TestTrainedModelFeatureNamesIsolated(t *testing.T) {
	names := []string{"venue_code", "opp_code"}
	model := NewTrainedModel(stubClassifier{}, names, 3, time.Now())

	// Mutating the input slice or a returned copy must not leak into the model.
	names[0] = "tampered"
	got := model.FeatureNames()
	got[1] = "also_tampered"

	assert.Equal(t, []string{"venue_code", "opp_code"}, model.FeatureNames())
}

func TestTrainedModelClassify(t *testing.T) {
	win := NewTrainedModel(stubClassifier{probability: 0.72}, []string{"venue_code"}, 3, time.Now())
	outcome, p := win.Classify([]float64{1})
	assert.Equal(t, OutcomeWin, outcome)
	assert.Equal(t, 0.72, p)

	notWin := NewTrainedModel(stubClassifier{probability: 0.5}, []string{"venue_code"}, 3, time.Now())
	outcome, p = notWin.Classify([]float64{1})
	assert.Equal(t, OutcomeNotWin, outcome)
	assert.Equal(t, 0.5, p)
}
