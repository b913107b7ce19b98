package ml

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a fitted decision tree. Leaves carry the
// positive-class fraction of the training samples that reached them; internal
// nodes route on feature <= threshold.
type treeNode struct {
	feature     int
	threshold   float64
	left        *treeNode
	right       *treeNode
	probability float64
	leaf        bool
}

func (n *treeNode) predict(vector []float64) float64 {
	node := n
	for !node.leaf {
		if vector[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probability
}

type treeParams struct {
	minSamplesSplit  int
	featuresPerSplit int
}

// growTree fits one CART tree on the samples selected by indices. Splits
// minimize Gini impurity over a random feature subset; nodes too small to
// split, pure nodes, and nodes with no improving split become leaves.
func growTree(samples [][]float64, labels []bool, indices []int, params treeParams, rng *rand.Rand) *treeNode {
	positives := 0
	for _, idx := range indices {
		if labels[idx] {
			positives++
		}
	}
	probability := float64(positives) / float64(len(indices))

	if len(indices) < params.minSamplesSplit || positives == 0 || positives == len(indices) {
		return &treeNode{leaf: true, probability: probability}
	}

	feature, threshold, ok := bestSplit(samples, labels, indices, candidateFeatures(len(samples[0]), params.featuresPerSplit, rng))
	if !ok {
		return &treeNode{leaf: true, probability: probability}
	}

	var left, right []int
	for _, idx := range indices {
		if samples[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(samples, labels, left, params, rng),
		right:     growTree(samples, labels, right, params, rng),
	}
}

// candidateFeatures draws a random subset of feature indices for one split.
func candidateFeatures(total, count int, rng *rand.Rand) []int {
	if count >= total {
		features := make([]int, total)
		for i := range features {
			features[i] = i
		}
		return features
	}
	return rng.Perm(total)[:count]
}

// bestSplit finds the feature and threshold minimizing weighted Gini impurity
// over the candidate features. Thresholds are midpoints between consecutive
// distinct values. Reports false when no split improves on the node's own
// impurity.
func bestSplit(samples [][]float64, labels []bool, indices []int, features []int) (int, float64, bool) {
	parent := giniImpurity(countPositives(labels, indices), len(indices))

	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := parent

	type valueLabel struct {
		value    float64
		positive bool
	}
	pairs := make([]valueLabel, len(indices))

	for _, feature := range features {
		for i, idx := range indices {
			pairs[i] = valueLabel{value: samples[idx][feature], positive: labels[idx]}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

		total := len(pairs)
		totalPositives := 0
		for _, p := range pairs {
			if p.positive {
				totalPositives++
			}
		}

		leftCount := 0
		leftPositives := 0
		for i := 0; i < total-1; i++ {
			leftCount++
			if pairs[i].positive {
				leftPositives++
			}
			if pairs[i].value == pairs[i+1].value {
				continue
			}

			rightCount := total - leftCount
			rightPositives := totalPositives - leftPositives
			weighted := (float64(leftCount)*giniImpurity(leftPositives, leftCount) +
				float64(rightCount)*giniImpurity(rightPositives, rightCount)) / float64(total)

			if weighted < bestImpurity {
				bestImpurity = weighted
				bestFeature = feature
				bestThreshold = (pairs[i].value + pairs[i+1].value) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func countPositives(labels []bool, indices []int) int {
	count := 0
	for _, idx := range indices {
		if labels[idx] {
			count++
		}
	}
	return count
}

func giniImpurity(positives, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(positives) / float64(total)
	return 1 - p*p - (1-p)*(1-p)
}

// featureSubsetSize is the number of features considered per split, the
// square root of the feature count rounded up.
func featureSubsetSize(featureCount int) int {
	size := int(math.Ceil(math.Sqrt(float64(featureCount))))
	if size < 1 {
		return 1
	}
	return size
}
