package ml

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when a query vector's width differs from
// the fitted data. It signals training/serving skew, not a recoverable state.
var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// NearestNeighbors is a brute-force k-nearest-neighbors index with cosine
// distance, fitted over the rows of a dense feature matrix. Fields are
// exported for the artifact codec.
type NearestNeighbors struct {
	K    int
	Rows [][]float64
}

func NewNearestNeighbors(k int) *NearestNeighbors {
	return &NearestNeighbors{K: k}
}

// Fit stores the sample rows. The matrix must have at least one row.
func (n *NearestNeighbors) Fit(x *mat.Dense) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return errors.New("fit requires a non-empty matrix")
	}
	n.Rows = make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		mat.Row(row, i, x)
		n.Rows[i] = row
	}
	return nil
}

func (n *NearestNeighbors) NumSamples() int {
	return len(n.Rows)
}

func (n *NearestNeighbors) NumFeatures() int {
	if len(n.Rows) == 0 {
		return 0
	}
	return len(n.Rows[0])
}

// Kneighbors returns the indices and cosine distances of the k fitted rows
// closest to query, nearest first. k is clamped to the fitted row count.
func (n *NearestNeighbors) Kneighbors(query []float64, k int) ([]int, []float64, error) {
	if n.NumSamples() == 0 {
		return nil, nil, errors.New("index not fitted")
	}
	if len(query) != n.NumFeatures() {
		return nil, nil, fmt.Errorf("%w: expected %d features, got %d",
			ErrDimensionMismatch, n.NumFeatures(), len(query))
	}
	if k <= 0 {
		k = n.K
	}
	if k > n.NumSamples() {
		k = n.NumSamples()
	}

	type candidate struct {
		index    int
		distance float64
	}
	candidates := make([]candidate, len(n.Rows))
	for i, row := range n.Rows {
		candidates[i] = candidate{index: i, distance: cosineDistance(query, row)}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	indices := make([]int, k)
	distances := make([]float64, k)
	for i := 0; i < k; i++ {
		indices[i] = candidates[i].index
		distances[i] = candidates[i].distance
	}
	return indices, distances, nil
}

// cosineDistance is 1 - cosine similarity. A zero-norm vector has no
// direction; treat it as maximally distant.
func cosineDistance(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}
