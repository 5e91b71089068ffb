package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestConfig holds the ensemble hyperparameters. They are fixed constants
// for this system, not a tuned subsystem.
type ForestConfig struct {
	NumTrees int
	MaxDepth int
	Seed     int64
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{NumTrees: 150, MaxDepth: 10, Seed: 42}
}

// TreeNode is one node of a decision tree. Leaf nodes carry a label;
// internal nodes route on Feature <= Threshold. Exported for the artifact
// codec.
type TreeNode struct {
	Leaf      bool
	Label     string
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// RandomForest is a bagged ensemble of depth-limited decision trees with
// per-node random feature subsetting. Prediction is a majority vote.
type RandomForest struct {
	Trees       []*TreeNode
	NumFeatures int
}

// TrainForest fits the ensemble on x (rows of features) and y (labels).
// The seed fixes bootstrap sampling and feature subsetting, so training on
// the same data always yields the same forest.
func TrainForest(x [][]float64, y []string, cfg ForestConfig) (*RandomForest, error) {
	if len(x) == 0 {
		return nil, errors.New("training requires at least one sample")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("sample/label length mismatch: %d vs %d", len(x), len(y))
	}
	numFeatures := len(x[0])
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), numFeatures)
		}
	}
	if cfg.NumTrees <= 0 || cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("invalid config: trees=%d depth=%d", cfg.NumTrees, cfg.MaxDepth)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	mtry := int(math.Round(math.Sqrt(float64(numFeatures))))
	if mtry < 1 {
		mtry = 1
	}

	forest := &RandomForest{
		Trees:       make([]*TreeNode, 0, cfg.NumTrees),
		NumFeatures: numFeatures,
	}
	for t := 0; t < cfg.NumTrees; t++ {
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}
		forest.Trees = append(forest.Trees, growTree(x, y, sample, 0, cfg.MaxDepth, mtry, rng))
	}
	return forest, nil
}

// Predict returns the majority label across trees, ties broken by
// lexicographic label order so output is stable.
func (f *RandomForest) Predict(features []float64) (string, error) {
	if len(f.Trees) == 0 {
		return "", errors.New("forest not trained")
	}
	if len(features) != f.NumFeatures {
		return "", fmt.Errorf("%w: expected %d features, got %d",
			ErrDimensionMismatch, f.NumFeatures, len(features))
	}
	votes := make(map[string]int, 4)
	for _, root := range f.Trees {
		votes[classify(root, features)]++
	}
	return majority(votes), nil
}

func classify(node *TreeNode, features []float64) string {
	for !node.Leaf {
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Label
}

func growTree(x [][]float64, y []string, indices []int, depth, maxDepth, mtry int, rng *rand.Rand) *TreeNode {
	counts := labelCounts(y, indices)
	if len(counts) == 1 || depth >= maxDepth || len(indices) < 2 {
		return &TreeNode{Leaf: true, Label: majority(counts)}
	}

	feature, threshold, ok := bestSplit(x, y, indices, mtry, rng, gini(counts, len(indices)))
	if !ok {
		return &TreeNode{Leaf: true, Label: majority(counts)}
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, depth+1, maxDepth, mtry, rng),
		Right:     growTree(x, y, right, depth+1, maxDepth, mtry, rng),
	}
}

// bestSplit scans mtry random features and every midpoint between adjacent
// distinct values, keeping the split with the largest gini gain.
func bestSplit(x [][]float64, y []string, indices []int, mtry int, rng *rand.Rand, parentGini float64) (int, float64, bool) {
	numFeatures := len(x[indices[0]])
	features := rng.Perm(numFeatures)
	if mtry < len(features) {
		features = features[:mtry]
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	for _, feature := range features {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, x[i][feature])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2

			leftCounts := make(map[string]int)
			rightCounts := make(map[string]int)
			leftN, rightN := 0, 0
			for _, i := range indices {
				if x[i][feature] <= threshold {
					leftCounts[y[i]]++
					leftN++
				} else {
					rightCounts[y[i]]++
					rightN++
				}
			}
			if leftN == 0 || rightN == 0 {
				continue
			}
			total := float64(leftN + rightN)
			weighted := float64(leftN)/total*gini(leftCounts, leftN) +
				float64(rightN)/total*gini(rightCounts, rightN)
			gain := parentGini - weighted
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func labelCounts(y []string, indices []int) map[string]int {
	counts := make(map[string]int, 4)
	for _, i := range indices {
		counts[y[i]]++
	}
	return counts
}

func gini(counts map[string]int, n int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

func majority(counts map[string]int) string {
	best := ""
	bestCount := -1
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}
