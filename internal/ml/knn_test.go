package ml

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func fitIndex(t *testing.T, k int, rows [][]float64) *NearestNeighbors {
	t.Helper()
	x := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	index := NewNearestNeighbors(k)
	if err := index.Fit(x); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return index
}

func TestKneighborsOrdersByCosineDistance(t *testing.T) {
	// Row 1 is colinear with the query, row 0 close, row 2 orthogonal.
	index := fitIndex(t, 3, [][]float64{
		{1, 0.2},
		{2, 2},
		{0, 1},
	})

	indices, distances, err := index.Kneighbors([]float64{1, 1}, 3)
	if err != nil {
		t.Fatalf("Kneighbors: %v", err)
	}
	if len(indices) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(indices))
	}
	if indices[0] != 1 {
		t.Fatalf("expected colinear row first, got index %d", indices[0])
	}
	if math.Abs(distances[0]) > 1e-12 {
		t.Fatalf("expected zero distance for colinear row, got %v", distances[0])
	}
	for i := 1; i < len(distances); i++ {
		if distances[i] < distances[i-1] {
			t.Fatalf("distances not sorted ascending: %v", distances)
		}
	}
}

func TestKneighborsClampsK(t *testing.T) {
	index := fitIndex(t, 5, [][]float64{
		{1, 0},
		{0, 1},
	})

	indices, _, err := index.Kneighbors([]float64{1, 0}, 5)
	if err != nil {
		t.Fatalf("Kneighbors: %v", err)
	}
	if len(indices) != 2 {
		t.Fatalf("expected k clamped to 2 fitted rows, got %d", len(indices))
	}
}

func TestKneighborsDefaultsToConfiguredK(t *testing.T) {
	index := fitIndex(t, 2, [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	})

	indices, _, err := index.Kneighbors([]float64{1, 0}, 0)
	if err != nil {
		t.Fatalf("Kneighbors: %v", err)
	}
	if len(indices) != 2 {
		t.Fatalf("expected configured k=2, got %d", len(indices))
	}
}

func TestKneighborsRejectsWrongWidth(t *testing.T) {
	index := fitIndex(t, 2, [][]float64{
		{1, 0},
		{0, 1},
	})

	_, _, err := index.Kneighbors([]float64{1, 0, 0}, 2)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestKneighborsUnfitted(t *testing.T) {
	index := NewNearestNeighbors(5)
	if _, _, err := index.Kneighbors([]float64{1}, 1); err == nil {
		t.Fatalf("expected error on unfitted index")
	}
}

func TestCosineDistanceZeroNorm(t *testing.T) {
	if d := cosineDistance([]float64{0, 0}, []float64{1, 1}); d != 1 {
		t.Fatalf("expected zero-norm vector to be maximally distant, got %v", d)
	}
}
