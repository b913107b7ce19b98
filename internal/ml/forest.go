package ml

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// ForestConfig holds the random forest training parameters.
type ForestConfig struct {
	Trees           int
	MinSamplesSplit int
	Seed            int64
}

// DefaultForestConfig returns the reference training parameters
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           50,
		MinSamplesSplit: 10,
		Seed:            1,
	}
}

// Forest is a fitted random forest for binary classification. Trees are
// immutable after training, so a Forest is safe for concurrent prediction.
type Forest struct {
	trees        []*treeNode
	featureCount int
}

// TrainForest fits a random forest on the sample matrix. Each tree trains on
// a bootstrap resample drawn from a per-tree generator seeded off the master
// seed, so the same inputs and seed always produce the same forest. Training
// is sequential.
func TrainForest(samples [][]float64, labels []bool, cfg ForestConfig) (*Forest, error) {
	if cfg.Trees < 1 {
		return nil, models.NewConfigurationError("trees", strconv.Itoa(cfg.Trees), "must be at least 1")
	}
	if cfg.MinSamplesSplit < 2 {
		return nil, models.NewConfigurationError("min_samples_split", strconv.Itoa(cfg.MinSamplesSplit), "must be at least 2")
	}
	if len(samples) == 0 {
		return nil, models.NewInsufficientDataError("", 0, 1, "no training samples")
	}
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("sample count %d does not match label count %d", len(samples), len(labels))
	}

	featureCount := len(samples[0])
	if featureCount == 0 {
		return nil, fmt.Errorf("samples carry no features")
	}
	for i, sample := range samples {
		if len(sample) != featureCount {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(sample), featureCount)
		}
	}

	params := treeParams{
		minSamplesSplit:  cfg.MinSamplesSplit,
		featuresPerSplit: featureSubsetSize(featureCount),
	}

	master := rand.New(rand.NewSource(cfg.Seed))
	trees := make([]*treeNode, cfg.Trees)
	for t := range trees {
		rng := rand.New(rand.NewSource(master.Int63()))
		indices := bootstrapSample(len(samples), rng)
		trees[t] = growTree(samples, labels, indices, params, rng)
	}

	return &Forest{trees: trees, featureCount: featureCount}, nil
}

// bootstrapSample draws n indices with replacement.
func bootstrapSample(n int, rng *rand.Rand) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}

// PredictProbability returns the positive-class probability for a feature
// vector, the mean of the per-tree leaf probabilities. The vector must be
// aligned to the training feature order.
func (f *Forest) PredictProbability(vector []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(vector)
	}
	return sum / float64(len(f.trees))
}

// Trees returns the number of fitted trees
func (f *Forest) Trees() int {
	return len(f.trees)
}

// FeatureCount returns the width of the training sample matrix
func (f *Forest) FeatureCount() int {
	return f.featureCount
}
