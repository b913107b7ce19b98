package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// separableData builds a two-feature dataset where the first feature is
// constant noise and the second cleanly separates the classes at 20.
func separableData() ([][]float64, []bool) {
	var samples [][]float64
	var labels []bool
	for i := 0; i < 20; i++ {
		samples = append(samples, []float64{1, float64(i)})
		labels = append(labels, false)
		samples = append(samples, []float64{1, float64(20 + i)})
		labels = append(labels, true)
	}
	return samples, labels
}

// TestTrainForestValidation tests the config and input checks
func TestTrainForestValidation(t *testing.T) {
	samples, labels := separableData()

	_, err := TrainForest(samples, labels, ForestConfig{Trees: 0, MinSamplesSplit: 10, Seed: 1})
	var ce *models.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "trees", ce.Parameter)

	_, err = TrainForest(samples, labels, ForestConfig{Trees: 10, MinSamplesSplit: 1, Seed: 1})
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "min_samples_split", ce.Parameter)

	_, err = TrainForest(nil, nil, DefaultForestConfig())
	var ide *models.InsufficientDataError
	require.True(t, errors.As(err, &ide))

	_, err = TrainForest(samples, labels[:len(labels)-1], DefaultForestConfig())
	require.Error(t, err)

	ragged := [][]float64{{1, 2}, {1}}
	_, err = TrainForest(ragged, []bool{true, false}, DefaultForestConfig())
	require.Error(t, err)
}

// TestTrainForestLearnsSeparableData tests that a clean decision boundary is recovered
func TestTrainForestLearnsSeparableData(t *testing.T) {
	samples, labels := separableData()

	forest, err := TrainForest(samples, labels, ForestConfig{Trees: 25, MinSamplesSplit: 2, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 25, forest.Trees())
	assert.Equal(t, 2, forest.FeatureCount())

	assert.Greater(t, forest.PredictProbability([]float64{1, 25}), 0.9)
	assert.Less(t, forest.PredictProbability([]float64{1, 3}), 0.1)
}

// TestTrainForestDeterministic tests that the same seed reproduces the same forest
func TestTrainForestDeterministic(t *testing.T) {
	samples, labels := separableData()
	cfg := ForestConfig{Trees: 15, MinSamplesSplit: 4, Seed: 42}

	first, err := TrainForest(samples, labels, cfg)
	require.NoError(t, err)
	second, err := TrainForest(samples, labels, cfg)
	require.NoError(t, err)

	probes := [][]float64{{1, 2}, {1, 9.5}, {1, 14}, {1, 30}}
	for _, probe := range probes {
		assert.Equal(t, first.PredictProbability(probe), second.PredictProbability(probe))
	}
}

func TestTrainForestSingleClass(t *testing.T) {
	samples := [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	labels := []bool{true, true, true, true}

	forest, err := TrainForest(samples, labels, ForestConfig{Trees: 5, MinSamplesSplit: 2, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, forest.PredictProbability([]float64{2, 3}))
}

func TestFeatureSubsetSize(t *testing.T) {
	assert.Equal(t, 1, featureSubsetSize(1))
	assert.Equal(t, 2, featureSubsetSize(4))
	assert.Equal(t, 3, featureSubsetSize(9))
	assert.Equal(t, 4, featureSubsetSize(12))
}

func TestGiniImpurity(t *testing.T) {
	assert.Equal(t, 0.0, giniImpurity(0, 10))
	assert.Equal(t, 0.0, giniImpurity(10, 10))
	assert.Equal(t, 0.5, giniImpurity(5, 10))
	assert.Equal(t, 0.0, giniImpurity(0, 0))
}
